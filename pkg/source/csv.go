package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

// CSVSource reads input rows from a local CSV file with the same columns
// as the sheet, so a run works without Google credentials.
type CSVSource struct {
	path string
	log  *logrus.Logger
}

// NewCSVSource creates a CSVSource
func NewCSVSource(path string, log *logrus.Logger) *CSVSource {
	return &CSVSource{path: path, log: log}
}

// FetchRows implements RowSource.
func (s *CSVSource) FetchRows(ctx context.Context) ([]models.InputRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", utils.ErrSource, s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Sheets exports pad rows unevenly
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", utils.ErrSource, s.path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", utils.ErrSource, s.path)
	}

	return buildRows(all[0], all[1:], s.log)
}

// Describe implements RowSource.
func (s *CSVSource) Describe() string {
	return s.path
}

package source

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

// Input column names, as they appear in the sheet's header row.
const (
	ColumnPageURL   = "Page URL"
	columnTargetFmt = "TARGET PAGE %d"
	columnAnchorFmt = "ANCHOR %d"
)

// headerIndex maps trimmed column names to their position in the header
// row.
type headerIndex map[string]int

// buildHeaderIndex validates the header row and indexes its columns.
// ColumnPageURL is required; slot columns are optional, a missing
// "TARGET PAGE n" simply means that slot is never audited.
func buildHeaderIndex(header []string) (headerIndex, error) {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	if _, ok := idx[ColumnPageURL]; !ok {
		return nil, fmt.Errorf("%w: required column %q not found in header %v", utils.ErrRowShape, ColumnPageURL, header)
	}
	return idx, nil
}

// cell returns the trimmed value of the named column in record, or empty
// if the column is absent or the record is short.
func (idx headerIndex) cell(record []string, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// buildRows converts raw records into validated InputRows. Records with
// a blank page URL are skipped with a log line. Empty target slots are
// absent from the row, preserving slot order for the ones present.
func buildRows(header []string, records [][]string, log *logrus.Logger) ([]models.InputRow, error) {
	idx, err := buildHeaderIndex(header)
	if err != nil {
		return nil, err
	}

	rows := make([]models.InputRow, 0, len(records))
	for i, record := range records {
		pageURL := idx.cell(record, ColumnPageURL)
		if pageURL == "" {
			log.WithField("record", i+2).Debug("Skipping row with blank page URL") // +2: 1-based, after header
			continue
		}

		row := models.InputRow{PageURL: pageURL}
		for slot := 1; slot <= models.MaxTargetSlots; slot++ {
			target := idx.cell(record, fmt.Sprintf(columnTargetFmt, slot))
			if target == "" {
				continue // Slot absent, not audited
			}
			row.Targets = append(row.Targets, models.TargetSlot{
				Slot:           slot,
				TargetURL:      target,
				ExpectedAnchor: idx.cell(record, fmt.Sprintf(columnAnchorFmt, slot)),
			})
		}
		rows = append(rows, row)
	}

	log.WithFields(logrus.Fields{
		"records": len(records),
		"rows":    len(rows),
	}).Info("Built input rows")
	return rows, nil
}

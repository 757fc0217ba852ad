package source

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"linkaudit/pkg/config"
	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

// spreadsheetIDPattern extracts the document ID from a pasted sheet URL
// like https://docs.google.com/spreadsheets/d/<id>/edit#gid=0
var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SheetSource reads input rows from one tab of a private Google Sheet.
// The service-account key is consumed at construction; afterwards the
// source only exposes the read capability.
type SheetSource struct {
	service       *sheets.Service
	spreadsheetID string
	sheetURL      string
	tabName       string
	log           *logrus.Logger
}

// NewSheetSource authenticates against the Sheets API with the
// service-account key file from cfg and resolves the spreadsheet ID from
// the sheet URL.
func NewSheetSource(ctx context.Context, cfg config.SheetConfig, log *logrus.Logger) (*SheetSource, error) {
	spreadsheetID, err := ExtractSpreadsheetID(cfg.SheetURL)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating sheets client: %w", utils.ErrSource, err)
	}

	log.WithFields(logrus.Fields{
		"spreadsheet_id": spreadsheetID,
		"tab":            cfg.TabName,
	}).Info("Authenticated to Google Sheets")

	return &SheetSource{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetURL:      cfg.SheetURL,
		tabName:       cfg.TabName,
		log:           log,
	}, nil
}

// ExtractSpreadsheetID pulls the document ID out of a full sheet URL.
func ExtractSpreadsheetID(sheetURL string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("%w: no spreadsheet ID in URL %q", utils.ErrSource, sheetURL)
	}
	return m[1], nil
}

// FetchRows implements RowSource. It reads the whole tab and runs the
// strict row construction over it.
func (s *SheetSource) FetchRows(ctx context.Context) ([]models.InputRow, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.tabName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading tab %q: %w", utils.ErrSource, s.tabName, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%w: tab %q is empty", utils.ErrSource, s.tabName)
	}

	header := stringifyRecord(resp.Values[0])
	records := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		records = append(records, stringifyRecord(raw))
	}
	return buildRows(header, records, s.log)
}

// Describe implements RowSource.
func (s *SheetSource) Describe() string {
	return s.sheetURL
}

// stringifyRecord converts the API's loosely-typed cell values to
// strings. Numbers and booleans format with %v, which matches how they
// display in the sheet.
func stringifyRecord(raw []interface{}) []string {
	record := make([]string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			record[i] = s
		} else {
			record[i] = fmt.Sprintf("%v", v)
		}
	}
	return record
}

// Package export renders audit results as a CSV report and a terminal
// summary. The CSV column names and status strings match the reports the
// audit has always produced, so downstream consumers keep working.
package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

// ReportRow is one CSV line of the audit report. Tags define the output
// header.
type ReportRow struct {
	PageURL    string `csv:"Page URL"`
	StatusCode string `csv:"STATUS CODE"` // Numeric, or "error" when the fetch failed
	Status1    string `csv:"Link and anchor status 1"`
	Rel1       string `csv:"REL 1"`
	Status2    string `csv:"Link and anchor status 2"`
	Rel2       string `csv:"REL 2"`
	Status3    string `csv:"Link and anchor status 3"`
	Rel3       string `csv:"REL 3"`
	Canonical  string `csv:"CANONICAL"`
	Robots     string `csv:"ROBOTS"`
	RobotsTxt  string `csv:"ROBOTS.TXT BLOCKED"`
	PageTitle  string `csv:"PAGE TITLE"`
	FetchError string `csv:"FETCH ERROR"`
}

// CSVExporter writes audit results to a CSV file via gocsv.
type CSVExporter struct {
	log *logrus.Logger
}

// NewCSVExporter creates a CSVExporter
func NewCSVExporter(log *logrus.Logger) *CSVExporter {
	return &CSVExporter{log: log}
}

// Export writes one report row per audit result to path, in result
// order.
func (e *CSVExporter) Export(results []models.AuditResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %q: %w", utils.ErrExport, path, err)
	}
	defer file.Close()

	rows := make([]ReportRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, buildReportRow(result))
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("%w: writing %q: %w", utils.ErrExport, path, err)
	}
	e.log.WithFields(logrus.Fields{"path": path, "rows": len(rows)}).Info("Wrote CSV report")
	return nil
}

// buildReportRow flattens one AuditResult into its CSV representation.
func buildReportRow(result models.AuditResult) ReportRow {
	row := ReportRow{
		PageURL:    result.Row.PageURL,
		FetchError: result.FetchError,
	}

	if result.FetchError != "" {
		row.StatusCode = "error"
		return row // Slot statuses stay blank; nothing was inspected
	}

	meta := result.Metadata
	row.StatusCode = strconv.Itoa(meta.StatusCode)
	row.Canonical = renderCanonical(meta)
	row.Robots = renderRobots(meta.RobotsDirectives)
	row.PageTitle = meta.Title
	if meta.BlockedByRobots {
		row.RobotsTxt = "true"
	}

	for i, matchResult := range result.Matches {
		status := RenderStatus(matchResult)
		switch result.Row.Targets[i].Slot {
		case 1:
			row.Status1, row.Rel1 = status, matchResult.MatchedRel
		case 2:
			row.Status2, row.Rel2 = status, matchResult.MatchedRel
		case 3:
			row.Status3, row.Rel3 = status, matchResult.MatchedRel
		}
	}
	return row
}

// RenderStatus maps a MatchResult to the report's status vocabulary.
func RenderStatus(m models.MatchResult) string {
	switch {
	case m.Found && m.AnchorMismatch:
		return fmt.Sprintf("anchor mismatch (found: %s)", m.MatchedAnchorText)
	case m.Found && m.ExpectedAnchor == "":
		return "link found, no anchor provided"
	case m.Found:
		return "true"
	default:
		return "link not found"
	}
}

// renderCanonical reports the canonical URL, collapsing the common case
// where a page canonicalizes to itself.
func renderCanonical(meta *models.PageMetadata) string {
	if meta.CanonicalURL == "" {
		return "not found"
	}
	if meta.SelfCanonical {
		return "self canonical"
	}
	return meta.CanonicalURL
}

// renderRobots joins the robots meta directives for display.
func renderRobots(directives []string) string {
	if len(directives) == 0 {
		return "not found"
	}
	return strings.Join(directives, ", ")
}

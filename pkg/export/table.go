package export

import (
	"github.com/rodaine/table"

	"linkaudit/pkg/models"
)

// Summary aggregates a batch of audit results for the terminal report.
type Summary struct {
	PagesAudited   int
	FetchFailures  int
	SlotsChecked   int
	LinksFound     int
	AnchorMismatch int
	LinksMissing   int
}

// Summarize tallies results into a Summary.
func Summarize(results []models.AuditResult) Summary {
	var s Summary
	s.PagesAudited = len(results)
	for _, result := range results {
		if result.FetchError != "" {
			s.FetchFailures++
			continue
		}
		for _, m := range result.Matches {
			s.SlotsChecked++
			switch {
			case m.Found && m.AnchorMismatch:
				s.AnchorMismatch++
			case m.Found:
				s.LinksFound++
			default:
				s.LinksMissing++
			}
		}
	}
	return s
}

// Print renders the summary as a two-column terminal table.
func (s Summary) Print() {
	tbl := table.New("Metric", "Count")
	tbl.AddRow("Pages audited", s.PagesAudited)
	tbl.AddRow("Fetch failures", s.FetchFailures)
	tbl.AddRow("Target slots checked", s.SlotsChecked)
	tbl.AddRow("Links found", s.LinksFound)
	tbl.AddRow("Anchor mismatches", s.AnchorMismatch)
	tbl.AddRow("Links missing", s.LinksMissing)
	tbl.Print()
}

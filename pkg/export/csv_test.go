package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
)

func testLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name     string
		result   models.MatchResult
		expected string
	}{
		{
			name:     "Found",
			result:   models.MatchResult{Found: true, ExpectedAnchor: "a", MatchedAnchorText: "a"},
			expected: "true",
		},
		{
			name:     "AnchorMismatch",
			result:   models.MatchResult{Found: true, AnchorMismatch: true, ExpectedAnchor: "a", MatchedAnchorText: "Something Else"},
			expected: "anchor mismatch (found: Something Else)",
		},
		{
			name:     "NotFound",
			result:   models.MatchResult{ExpectedAnchor: "a"},
			expected: "link not found",
		},
		{
			name:     "FoundNoAnchorProvided",
			result:   models.MatchResult{Found: true, MatchedAnchorText: "Whatever"},
			expected: "link found, no anchor provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderStatus(tt.result); got != tt.expected {
				t.Errorf("RenderStatus(%+v) = %q, want %q", tt.result, got, tt.expected)
			}
		})
	}
}

func sampleResults() []models.AuditResult {
	return []models.AuditResult{
		{
			Row: models.InputRow{
				PageURL: "https://x.com/one",
				Targets: []models.TargetSlot{
					{Slot: 1, TargetURL: "https://t.com/a", ExpectedAnchor: "Anchor A"},
					{Slot: 3, TargetURL: "https://t.com/c", ExpectedAnchor: "Anchor C"},
				},
			},
			Metadata: &models.PageMetadata{
				StatusCode:       200,
				CanonicalURL:     "https://x.com/one",
				SelfCanonical:    true,
				RobotsDirectives: []string{"noindex", "nofollow"},
				Title:            "Page One",
			},
			Matches: []models.MatchResult{
				{TargetURL: "https://t.com/a", ExpectedAnchor: "Anchor A", Found: true, MatchedRel: "nofollow", MatchedAnchorText: "Anchor A"},
				{TargetURL: "https://t.com/c", ExpectedAnchor: "Anchor C"},
			},
		},
		{
			Row:        models.InputRow{PageURL: "https://x.com/down"},
			FetchError: "fetch failed: connection refused",
		},
	}
}

func TestExport_WritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := NewCSVExporter(testLog()).Export(sampleResults(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if len(records) != 3 { // header + 2 rows
		t.Fatalf("expected 3 CSV records, got %d", len(records))
	}

	header := records[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q not in header %v", name, header)
		return -1
	}

	first := records[1]
	if got := first[col("Page URL")]; got != "https://x.com/one" {
		t.Errorf("Page URL = %q", got)
	}
	if got := first[col("STATUS CODE")]; got != "200" {
		t.Errorf("STATUS CODE = %q, want 200", got)
	}
	if got := first[col("Link and anchor status 1")]; got != "true" {
		t.Errorf("slot 1 status = %q, want true", got)
	}
	if got := first[col("REL 1")]; got != "nofollow" {
		t.Errorf("REL 1 = %q, want nofollow", got)
	}
	// Slot 2 was absent from the input row: its columns stay blank
	if got := first[col("Link and anchor status 2")]; got != "" {
		t.Errorf("slot 2 status = %q, want blank", got)
	}
	if got := first[col("Link and anchor status 3")]; got != "link not found" {
		t.Errorf("slot 3 status = %q, want link not found", got)
	}
	if got := first[col("CANONICAL")]; got != "self canonical" {
		t.Errorf("CANONICAL = %q, want self canonical", got)
	}
	if got := first[col("ROBOTS")]; got != "noindex, nofollow" {
		t.Errorf("ROBOTS = %q", got)
	}
	if got := first[col("PAGE TITLE")]; got != "Page One" {
		t.Errorf("PAGE TITLE = %q", got)
	}

	second := records[2]
	if got := second[col("STATUS CODE")]; got != "error" {
		t.Errorf("failed fetch STATUS CODE = %q, want error", got)
	}
	if got := second[col("FETCH ERROR")]; got != "fetch failed: connection refused" {
		t.Errorf("FETCH ERROR = %q", got)
	}
	if got := second[col("Link and anchor status 1")]; got != "" {
		t.Errorf("failed fetch slot status = %q, want blank", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	if s.PagesAudited != 2 {
		t.Errorf("PagesAudited = %d, want 2", s.PagesAudited)
	}
	if s.FetchFailures != 1 {
		t.Errorf("FetchFailures = %d, want 1", s.FetchFailures)
	}
	if s.SlotsChecked != 2 {
		t.Errorf("SlotsChecked = %d, want 2", s.SlotsChecked)
	}
	if s.LinksFound != 1 {
		t.Errorf("LinksFound = %d, want 1", s.LinksFound)
	}
	if s.LinksMissing != 1 {
		t.Errorf("LinksMissing = %d, want 1", s.LinksMissing)
	}
	if s.AnchorMismatch != 0 {
		t.Errorf("AnchorMismatch = %d, want 0", s.AnchorMismatch)
	}
}

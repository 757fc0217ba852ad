package source

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

func testLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var fullHeader = []string{
	"Page URL",
	"TARGET PAGE 1", "ANCHOR 1",
	"TARGET PAGE 2", "ANCHOR 2",
	"TARGET PAGE 3", "ANCHOR 3",
}

func TestBuildRows_MissingPageURLColumnFails(t *testing.T) {
	header := []string{"URL", "TARGET PAGE 1", "ANCHOR 1"}

	_, err := buildRows(header, [][]string{{"https://x.com", "https://t.com", "a"}}, testLog())

	if err == nil {
		t.Fatal("expected error for missing Page URL column")
	}
	if !errors.Is(err, utils.ErrRowShape) {
		t.Errorf("expected error wrapping ErrRowShape, got: %v", err)
	}
}

func TestBuildRows_FullRow(t *testing.T) {
	records := [][]string{
		{"https://x.com/page", "https://t.com/a", "Anchor A", "https://t.com/b", "Anchor B", "https://t.com/c", "Anchor C"},
	}

	rows, err := buildRows(fullHeader, records, testLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.PageURL != "https://x.com/page" {
		t.Errorf("PageURL = %q", row.PageURL)
	}
	if len(row.Targets) != 3 {
		t.Fatalf("expected 3 target slots, got %d", len(row.Targets))
	}
	want := []models.TargetSlot{
		{Slot: 1, TargetURL: "https://t.com/a", ExpectedAnchor: "Anchor A"},
		{Slot: 2, TargetURL: "https://t.com/b", ExpectedAnchor: "Anchor B"},
		{Slot: 3, TargetURL: "https://t.com/c", ExpectedAnchor: "Anchor C"},
	}
	for i, slot := range row.Targets {
		if slot != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, slot, want[i])
		}
	}
}

func TestBuildRows_EmptySlotsAbsent(t *testing.T) {
	records := [][]string{
		// Slot 2 empty: only slots 1 and 3 should appear, in order
		{"https://x.com/page", "https://t.com/a", "Anchor A", "", "", "https://t.com/c", "Anchor C"},
	}

	rows, err := buildRows(fullHeader, records, testLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := rows[0]
	if len(row.Targets) != 2 {
		t.Fatalf("expected 2 target slots, got %d: %+v", len(row.Targets), row.Targets)
	}
	if row.Targets[0].Slot != 1 || row.Targets[1].Slot != 3 {
		t.Errorf("expected slots 1 and 3, got %d and %d", row.Targets[0].Slot, row.Targets[1].Slot)
	}
}

func TestBuildRows_BlankPageURLSkipped(t *testing.T) {
	records := [][]string{
		{"", "https://t.com/a", "Anchor A"},
		{"   ", "https://t.com/b", "Anchor B"},
		{"https://x.com/real", "https://t.com/c", "Anchor C"},
	}

	rows, err := buildRows(fullHeader, records, testLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected blank rows skipped, got %d rows", len(rows))
	}
	if rows[0].PageURL != "https://x.com/real" {
		t.Errorf("kept wrong row: %+v", rows[0])
	}
}

func TestBuildRows_ShortRecordsAndWhitespace(t *testing.T) {
	records := [][]string{
		// Record shorter than header: missing cells read as empty
		{" https://x.com/page ", " https://t.com/a ", " Anchor A "},
	}

	rows, err := buildRows(fullHeader, records, testLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := rows[0]
	if row.PageURL != "https://x.com/page" {
		t.Errorf("PageURL not trimmed: %q", row.PageURL)
	}
	if len(row.Targets) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(row.Targets))
	}
	if row.Targets[0].TargetURL != "https://t.com/a" || row.Targets[0].ExpectedAnchor != "Anchor A" {
		t.Errorf("slot values not trimmed: %+v", row.Targets[0])
	}
}

func TestBuildRows_MissingSlotColumnsTolerated(t *testing.T) {
	header := []string{"Page URL", "TARGET PAGE 1", "ANCHOR 1"} // No slot 2/3 columns
	records := [][]string{
		{"https://x.com/page", "https://t.com/a", "Anchor A"},
	}

	rows, err := buildRows(header, records, testLog())
	if err != nil {
		t.Fatalf("slot columns are optional, got error: %v", err)
	}
	if len(rows[0].Targets) != 1 {
		t.Errorf("expected 1 slot, got %d", len(rows[0].Targets))
	}
}

package storage

import "linkaudit/pkg/models"

// RunSummary is the lightweight listing view of a stored run.
type RunSummary struct {
	RunID     string
	StartedAt string // RFC3339
	Source    string
	PageCount int
	FailCount int
}

// HistoryStore persists audit runs so batches can be compared over time.
type HistoryStore interface {
	// SaveRun stores a complete run record under its run ID.
	SaveRun(record *models.RunRecord) error

	// GetRun retrieves a stored run. Returns (nil, nil) when the run ID
	// is unknown.
	GetRun(runID string) (*models.RunRecord, error)

	// ListRuns returns summaries of all stored runs, newest first.
	ListRuns() ([]RunSummary, error)

	// Close cleanly closes the database
	Close() error
}

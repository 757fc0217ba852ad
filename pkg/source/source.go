// Package source loads audit input rows from an external tabular
// dataset. Two implementations exist: a private Google Sheet read
// through a service account, and a local CSV file with the same columns.
//
// Both construct rows through the same strict path: the header row is
// validated once at load time, and a missing required column fails fast
// instead of surfacing as empty values downstream.
package source

import (
	"context"

	"linkaudit/pkg/models"
)

// RowSource provides an already-authenticated "fetch all rows"
// capability. Construct once, reuse per batch; credentials never leave
// the constructor.
type RowSource interface {
	// FetchRows loads and validates every input row. Rows with a blank
	// page URL are skipped, not errors.
	FetchRows(ctx context.Context) ([]models.InputRow, error)

	// Describe identifies the source (sheet URL or file path) for logs
	// and run records.
	Describe() string
}

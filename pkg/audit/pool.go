package audit

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"linkaudit/pkg/models"
)

// AuditAllConcurrent audits rows with at most workers in flight,
// reassembling results by original index so the output order always
// matches the input order. workers <= 1 falls back to the sequential
// path. Rows are independent, so no other coordination is needed.
func (a *Auditor) AuditAllConcurrent(ctx context.Context, rows []models.InputRow, rowLimit, workers int) []models.AuditResult {
	if workers <= 1 {
		return a.AuditAll(ctx, rows, rowLimit)
	}
	if rowLimit > 0 && rowLimit < len(rows) {
		rows = rows[:rowLimit]
	}

	sem := semaphore.NewWeighted(int64(workers))
	results := make([]models.AuditResult, len(rows))
	var wg sync.WaitGroup

	for i, row := range rows {
		if err := sem.Acquire(ctx, 1); err != nil {
			a.log.Warnf("Batch stopped after dispatching %d of %d rows: %v", i, len(rows), err)
			// Keep the slot-count invariant for rows never dispatched.
			for j := i; j < len(rows); j++ {
				results[j] = cancelledResult(rows[j], err)
			}
			break
		}
		wg.Add(1)
		go func(idx int, r models.InputRow) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = a.AuditRow(ctx, r)
		}(i, row)
	}

	wg.Wait()
	return results
}

// cancelledResult builds the not-audited result for a row the pool never
// dispatched.
func cancelledResult(row models.InputRow, err error) models.AuditResult {
	result := models.AuditResult{Row: row, FetchError: err.Error()}
	for _, slot := range row.Targets {
		result.Matches = append(result.Matches, models.MatchResult{
			TargetURL:      slot.TargetURL,
			ExpectedAnchor: slot.ExpectedAnchor,
		})
	}
	return result
}

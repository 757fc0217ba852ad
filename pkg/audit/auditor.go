// Package audit orchestrates the per-page pipeline: fetch the page,
// inspect its HTML, and match every expected backlink slot.
package audit

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/fetch"
	"linkaudit/pkg/inspect"
	"linkaudit/pkg/match"
	"linkaudit/pkg/models"
	"linkaudit/pkg/parse"
	"linkaudit/pkg/utils"
)

// Auditor runs the fetch -> inspect -> match pipeline for input rows.
// Safe for concurrent use; it holds no per-row state.
type Auditor struct {
	fetcher        *fetch.Fetcher
	inspector      *inspect.Inspector
	robots         *fetch.RobotsChecker // nil disables the robots.txt signal
	perPageTimeout time.Duration        // 0 = no per-page bound beyond the client timeout
	log            *logrus.Logger
}

// NewAuditor creates an Auditor
func NewAuditor(fetcher *fetch.Fetcher, inspector *inspect.Inspector, robots *fetch.RobotsChecker, perPageTimeout time.Duration, log *logrus.Logger) *Auditor {
	return &Auditor{
		fetcher:        fetcher,
		inspector:      inspector,
		robots:         robots,
		perPageTimeout: perPageTimeout,
		log:            log,
	}
}

// AuditRow audits one input row and always returns a result: a transport
// failure is recorded on the result, never returned as an error, so one
// unreachable page cannot abort a batch.
func (a *Auditor) AuditRow(ctx context.Context, row models.InputRow) models.AuditResult {
	start := time.Now()
	rowLog := a.log.WithField("page_url", row.PageURL)

	if a.perPageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.perPageTimeout)
		defer cancel()
	}

	result := models.AuditResult{Row: row}

	fetched, err := a.fetcher.Fetch(ctx, row.PageURL)
	if err != nil {
		rowLog.WithField("category", utils.CategorizeError(err)).Warnf("Page fetch failed: %v", err)
		result.FetchError = err.Error()
		// Invariant: one MatchResult per slot, all not-found.
		for _, slot := range row.Targets {
			result.Matches = append(result.Matches, models.MatchResult{
				TargetURL:      slot.TargetURL,
				ExpectedAnchor: slot.ExpectedAnchor,
			})
		}
		result.Elapsed = time.Since(start)
		return result
	}

	inspection := a.inspector.Inspect(fetched.Body)
	result.Metadata = a.buildMetadata(ctx, fetched, inspection, row.PageURL)

	for _, slot := range row.Targets {
		matchResult := match.Match(inspection.Anchors, fetched.FinalURL, slot)
		rowLog.WithFields(logrus.Fields{
			"target":          slot.TargetURL,
			"found":           matchResult.Found,
			"anchor_mismatch": matchResult.AnchorMismatch,
		}).Debug("Matched target slot")
		result.Matches = append(result.Matches, matchResult)
	}

	result.Elapsed = time.Since(start)
	rowLog.WithFields(logrus.Fields{
		"status_code": result.Metadata.StatusCode,
		"slots":       len(result.Matches),
		"elapsed":     result.Elapsed,
	}).Info("Audited page")
	return result
}

// buildMetadata assembles the page's SEO signals from the fetch and
// inspection outcomes.
func (a *Auditor) buildMetadata(ctx context.Context, fetched *fetch.Result, inspection *inspect.Inspection, pageURL string) *models.PageMetadata {
	meta := &models.PageMetadata{
		StatusCode:       fetched.StatusCode,
		CanonicalURL:     inspection.CanonicalURL,
		RobotsDirectives: inspection.RobotsDirectives,
		Title:            inspection.Title,
	}

	if inspection.CanonicalURL != "" {
		meta.SelfCanonical = isSelfCanonical(inspection.CanonicalURL, pageURL, fetched.FinalURL)
	}

	if a.robots != nil && fetched.FinalURL != nil {
		meta.BlockedByRobots = a.robots.Blocked(ctx, fetched.FinalURL)
	}

	return meta
}

// isSelfCanonical reports whether the declared canonical resolves to the
// audited page itself, under the same normalization used for matching.
func isSelfCanonical(canonical, pageURL string, base *url.URL) bool {
	ref, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	pageKey, _, err := parse.CompareKeyString(pageURL)
	if err != nil {
		return false
	}
	return parse.CompareKey(ref) == pageKey
}

// AuditAll audits rows sequentially in input order, honoring the row
// limit (0 = no limit). The caller's context stops the batch between
// rows.
func (a *Auditor) AuditAll(ctx context.Context, rows []models.InputRow, rowLimit int) []models.AuditResult {
	if rowLimit > 0 && rowLimit < len(rows) {
		rows = rows[:rowLimit]
	}

	results := make([]models.AuditResult, 0, len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			a.log.Warnf("Batch stopped after %d of %d rows: %v", i, len(rows), ctx.Err())
			break
		}
		results = append(results, a.AuditRow(ctx, row))
	}
	return results
}

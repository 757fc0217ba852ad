package models

import "time"

// MaxTargetSlots is the number of target/anchor column pairs the input
// sheet carries per page (TARGET PAGE 1..3 / ANCHOR 1..3).
const MaxTargetSlots = 3

// TargetSlot is one expected backlink on a page: the URL it should point
// to and the anchor text it should carry. ExpectedAnchor may be empty,
// meaning any anchor text is acceptable.
type TargetSlot struct {
	Slot           int // 1-based column pair number in the input sheet
	TargetURL      string
	ExpectedAnchor string
}

// InputRow represents one record from the input sheet: the page to audit
// and up to MaxTargetSlots expected backlinks. Immutable once constructed.
type InputRow struct {
	PageURL string
	Targets []TargetSlot // Only non-empty slots, input order preserved
}

// AnchorCandidate is one <a href> element extracted from a fetched page.
// Transient; scoped to a single fetch.
type AnchorCandidate struct {
	Href        string // Raw href attribute value
	VisibleText string // Collapsed text content of the element
	Rel         string // Raw rel attribute value, empty if absent
}

// PageMetadata holds the on-page SEO signals for one fetched page.
type PageMetadata struct {
	StatusCode       int
	CanonicalURL     string   // Empty if no canonical link element
	SelfCanonical    bool     // Canonical resolves to the page's own URL
	RobotsDirectives []string // Lowercase comma-split tokens from the robots meta, empty if absent
	Title            string   // Empty if no title element
	BlockedByRobots  bool     // Page disallowed for our user agent by robots.txt
}

// MatchResult classifies one target slot against the anchors found on the
// page. Found=true with AnchorMismatch=true means the link is present but
// carries the wrong anchor text.
type MatchResult struct {
	TargetURL         string
	ExpectedAnchor    string
	Found             bool
	AnchorMismatch    bool
	MatchedRel        string // rel of the first href match, regardless of anchor outcome
	MatchedAnchorText string // Visible text of the matched anchor
}

// AuditResult is the terminal output record for one InputRow.
// Invariant: len(Matches) == len(Row.Targets). When FetchError is set,
// Metadata is nil and every MatchResult has Found=false.
type AuditResult struct {
	Row        InputRow
	Metadata   *PageMetadata // nil if the fetch failed
	Matches    []MatchResult
	FetchError string // Empty on success
	Elapsed    time.Duration
}

// RunRecord is one persisted audit batch, stored in the history database.
type RunRecord struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Source     string        `json:"source"` // Sheet URL or CSV path the rows came from
	Results    []AuditResult `json:"results"`
}

// Package match locates expected backlinks among the anchors extracted
// from a page and classifies the outcome.
//
// Matching policy: hrefs and target URLs are compared by their
// normalized, scheme-insensitive compare key (see pkg/parse), so
// http/https and trailing-slash variants of the same address match.
// Anchor text is compared case-insensitively with whitespace collapsed.
package match

import (
	"net/url"
	"strings"

	"linkaudit/pkg/models"
	"linkaudit/pkg/parse"
	"linkaudit/pkg/utils"
)

// Match searches anchors for a link to slot.TargetURL and classifies the
// result. Relative hrefs are resolved against base (the fetched page's
// final URL) before comparison; base may be nil, in which case relative
// hrefs cannot match an absolute target.
//
// Outcomes, in priority order:
//   - no href matches the target: Found=false, matched fields empty
//   - an href matches and some matching anchor's text equals the
//     expected anchor: Found=true, AnchorMismatch=false
//   - hrefs match but no text does: Found=true, AnchorMismatch=true,
//     reporting the first href match
//
// An empty ExpectedAnchor accepts any anchor text. The rel attribute of
// the first href match is captured regardless of the anchor outcome.
// Absence of a match is a normal result, never an error.
func Match(anchors []models.AnchorCandidate, base *url.URL, slot models.TargetSlot) models.MatchResult {
	result := models.MatchResult{
		TargetURL:      slot.TargetURL,
		ExpectedAnchor: slot.ExpectedAnchor,
	}

	targetKey, _, err := parse.CompareKeyString(slot.TargetURL)
	if err != nil || targetKey == "" {
		return result // Unparseable target cannot match anything
	}

	wantText := strings.ToLower(utils.CollapseWhitespace(slot.ExpectedAnchor))

	var first *models.AnchorCandidate // First href match, reported on text mismatch
	for i := range anchors {
		candidate := &anchors[i]
		if candidateKey(candidate.Href, base) != targetKey {
			continue
		}
		if first == nil {
			first = candidate
		}

		// Empty expected anchor accepts any text; otherwise require
		// case-insensitive, whitespace-collapsed equality.
		gotText := strings.ToLower(utils.CollapseWhitespace(candidate.VisibleText))
		if wantText == "" || gotText == wantText {
			result.Found = true
			result.MatchedRel = first.Rel
			result.MatchedAnchorText = candidate.VisibleText
			return result
		}
	}

	if first != nil {
		// Link present, wrong anchor text.
		result.Found = true
		result.AnchorMismatch = true
		result.MatchedRel = first.Rel
		result.MatchedAnchorText = first.VisibleText
	}
	return result
}

// candidateKey resolves href against base and reduces it to a compare
// key. Returns empty for unparseable hrefs.
func candidateKey(href string, base *url.URL) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return parse.CompareKey(ref)
}

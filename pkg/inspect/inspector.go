// Package inspect extracts backlink candidates and on-page SEO signals
// from raw HTML. Malformed or partial HTML never fails: the parser
// produces a tree for any input, and missing elements simply yield
// absent values.
package inspect

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

// Inspection is everything extracted from one fetched page body.
type Inspection struct {
	Title            string   // Text of the first <title>, collapsed; empty if absent
	CanonicalURL     string   // href of <link rel="canonical">; empty if absent
	RobotsDirectives []string // Lowercase comma-split tokens from <meta name="robots">
	Anchors          []models.AnchorCandidate
}

// Inspector parses HTML bodies into Inspections.
type Inspector struct {
	log *logrus.Logger
}

// NewInspector creates an Inspector
func NewInspector(log *logrus.Logger) *Inspector {
	return &Inspector{log: log}
}

// Inspect parses body and extracts the page's title, canonical link,
// robots meta directives, and every anchor with a non-empty href.
func (ins *Inspector) Inspect(body []byte) *Inspection {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// NewDocumentFromReader only fails on reader errors, which a
		// bytes.Reader never produces. Guard anyway: an empty
		// inspection, not a failure.
		ins.log.Warnf("HTML parse returned error, treating page as empty: %v", err)
		return &Inspection{}
	}

	result := &Inspection{
		Title:            utils.CollapseWhitespace(doc.Find("title").First().Text()),
		CanonicalURL:     canonicalHref(doc),
		RobotsDirectives: robotsDirectives(doc),
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" {
			return // Skip empty hrefs
		}
		rel, _ := sel.Attr("rel")
		result.Anchors = append(result.Anchors, models.AnchorCandidate{
			Href:        strings.TrimSpace(href),
			VisibleText: utils.CollapseWhitespace(sel.Text()),
			Rel:         rel,
		})
	})

	ins.log.WithFields(logrus.Fields{
		"anchors": len(result.Anchors),
		"title":   result.Title != "",
	}).Debug("Inspected page")

	return result
}

// canonicalHref returns the href of the first <link rel="canonical">,
// or empty if the page declares none.
func canonicalHref(doc *goquery.Document) string {
	href, _ := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return strings.TrimSpace(href)
}

// robotsDirectives returns the lowercase comma-split tokens of
// <meta name="robots" content="...">, e.g. ["noindex", "nofollow"].
func robotsDirectives(doc *goquery.Document) []string {
	content, exists := doc.Find(`meta[name="robots"]`).First().Attr("content")
	if !exists {
		return nil
	}
	var directives []string
	for _, token := range strings.Split(content, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			directives = append(directives, token)
		}
	}
	return directives
}

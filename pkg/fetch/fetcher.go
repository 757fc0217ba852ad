package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/utils"
)

// maxBodyBytes caps how much of a page body is read. Pages larger than
// this are truncated; anchors past the cap are not seen.
const maxBodyBytes = 10 << 20 // 10MB

// Result is the outcome of a successful transport exchange. A non-2xx
// status code is still a Result, not an error; only transport-level
// failures (DNS, connect refused, timeout, TLS) produce an error.
type Result struct {
	StatusCode int
	Body       []byte
	FinalURL   *url.URL // URL after redirects, base for resolving relative hrefs
}

// Fetcher performs single-attempt HTTP GETs using an underlying
// http.Client. No retries: a page that is down is reported as down and
// the batch moves on.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *logrus.Logger
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, userAgent string, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch performs a single GET of pageURL. The context bounds the whole
// exchange, including body read.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	reqLog := f.log.WithField("url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", utils.ErrRequestCreation, pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		reqLog.Warnf("Fetch failed: %v", err)
		return nil, fmt.Errorf("%w: %w", utils.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		reqLog.Warnf("Reading body failed: %v", err)
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}

	reqLog.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"body_bytes":  len(body),
	}).Debug("Fetched page")

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       body,
		FinalURL:   resp.Request.URL,
	}, nil
}

package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsChecker fetches and caches robots.txt per host for the lifetime
// of one audit run, and answers whether a page is disallowed for our
// user agent. A missing or unparseable robots.txt means allowed.
type RobotsChecker struct {
	client      *http.Client
	userAgent   string
	robotsCache map[string]*robotstxt.RobotsData // hostname -> parsed data (or nil)
	cacheMu     sync.Mutex
	log         *logrus.Logger
}

// NewRobotsChecker creates a RobotsChecker
func NewRobotsChecker(client *http.Client, userAgent string, log *logrus.Logger) *RobotsChecker {
	return &RobotsChecker{
		client:      client,
		userAgent:   userAgent,
		robotsCache: make(map[string]*robotstxt.RobotsData),
		log:         log,
	}
}

// Blocked reports whether targetURL is disallowed for our user agent by
// the host's robots.txt. Any failure obtaining or parsing robots.txt is
// treated as "not blocked".
func (rc *RobotsChecker) Blocked(ctx context.Context, targetURL *url.URL) bool {
	data := rc.robotsData(ctx, targetURL)
	if data == nil {
		return false
	}
	return !data.TestAgent(targetURL.RequestURI(), rc.userAgent)
}

// robotsData retrieves robots.txt data for the targetURL's host, using
// the cache or fetching. Returns nil on any error/missing file.
func (rc *RobotsChecker) robotsData(ctx context.Context, targetURL *url.URL) *robotstxt.RobotsData {
	host := targetURL.Hostname()

	// Check cache first. A cached nil means a previous failed fetch;
	// don't hammer the host again within the run.
	rc.cacheMu.Lock()
	data, found := rc.robotsCache[host]
	rc.cacheMu.Unlock()
	if found {
		return data
	}

	robotsURL := &url.URL{Scheme: targetURL.Scheme, Host: targetURL.Host, Path: "/robots.txt"}
	if robotsURL.Scheme != "http" && robotsURL.Scheme != "https" {
		robotsURL.Scheme = "https"
	}
	robotsLog := rc.log.WithFields(logrus.Fields{"host": host, "robots_url": robotsURL.String()})
	robotsLog.Debug("Fetching robots.txt...")

	data = rc.fetchAndParse(ctx, robotsURL.String(), robotsLog)

	rc.cacheMu.Lock()
	rc.robotsCache[host] = data // Cache result, including nil on failure
	rc.cacheMu.Unlock()
	return data
}

func (rc *RobotsChecker) fetchAndParse(ctx context.Context, robotsURL string, robotsLog *logrus.Entry) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		robotsLog.Warnf("Error creating robots.txt request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		robotsLog.Debugf("Fetching robots.txt failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		robotsLog.Warnf("Error reading robots.txt body: %v", err)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		robotsLog.Warnf("Error parsing robots.txt: %v", err)
		return nil
	}
	return data
}

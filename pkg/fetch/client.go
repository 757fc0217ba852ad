package fetch

import (
	"errors"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"linkaudit/pkg/config"
)

// NewClient creates a new HTTP client based on the provided configuration.
func NewClient(cfg config.HTTPClientConfig, log *logrus.Logger) *http.Client {
	log.Debug("Initializing HTTP client...")

	// Create custom dialer with configured timeouts
	dialer := &net.Dialer{
		Timeout:   cfg.DialerTimeout,
		KeepAlive: cfg.DialerKeepAlive,
	}

	// Create custom transport using configured settings
	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment, // Use system proxy settings
		DialContext:            dialer.DialContext,        // Use our custom dialer
		ForceAttemptHTTP2:      true,                      // Default to true unless explicitly disabled
		MaxIdleConns:           cfg.MaxIdleConns,
		MaxIdleConnsPerHost:    cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:        cfg.IdleConnTimeout,
		TLSHandshakeTimeout:    cfg.TLSHandshakeTimeout,
		ExpectContinueTimeout:  cfg.ExpectContinueTimeout,
		MaxResponseHeaderBytes: 1 << 20, // 1MB max header size
	}
	// Handle explicit setting for ForceAttemptHTTP2 if provided
	if cfg.ForceAttemptHTTP2 != nil {
		transport.ForceAttemptHTTP2 = *cfg.ForceAttemptHTTP2
	}

	client := &http.Client{
		Timeout:   cfg.Timeout, // Use configured overall timeout
		Transport: transport,   // Use our custom transport
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Default Go behavior is 10 redirects max
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			log.Debugf("Redirecting: %s -> %s (hop %d)", via[len(via)-1].URL, req.URL, len(via))
			return nil // Allow redirect
		},
	}
	return client
}

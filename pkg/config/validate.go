package config

import (
	"fmt"
	"time"

	"linkaudit/pkg/utils"
)

// DefaultUserAgent mirrors what the original audit ran with; some sites
// serve different markup to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (compatible; linkaudit/1.0)"

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// UserAgent
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// RowLimit
	if c.RowLimit < 0 {
		warnings = append(warnings, "row_limit cannot be negative, setting to 0 (unlimited)")
		c.RowLimit = 0
	}

	// NumWorkers: 1 means strictly sequential, which is the default
	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}

	// PerPageTimeout
	if c.PerPageTimeout < 0 {
		warnings = append(warnings, "per_page_timeout cannot be negative, disabling timeout")
		c.PerPageTimeout = 0
	}
	if c.PerPageTimeout == 0 {
		c.PerPageTimeout = 10 * time.Second
	}

	// OutputCSV
	if c.OutputCSV == "" {
		c.OutputCSV = "linkaudit_results.csv"
	}

	// StateDir (only used when history is enabled)
	if c.EnableHistory && c.StateDir == "" {
		warnings = append(warnings, "enable_history is true but state_dir is empty, defaulting to './linkaudit_state'")
		c.StateDir = "./linkaudit_state"
	}

	// Exactly one input source
	hasSheet := c.Sheet.SheetURL != ""
	hasCSV := c.InputCSV != ""
	if !hasSheet && !hasCSV {
		return warnings, fmt.Errorf("%w: no input source: set sheet.sheet_url or input_csv", utils.ErrConfigValidation)
	}
	if hasSheet && hasCSV {
		return warnings, fmt.Errorf("%w: both sheet.sheet_url and input_csv set, pick one", utils.ErrConfigValidation)
	}
	if hasSheet && c.Sheet.CredentialsFile == "" {
		return warnings, fmt.Errorf("%w: sheet.sheet_url set but sheet.credentials_file is empty", utils.ErrConfigValidation)
	}
	if hasSheet && c.Sheet.TabName == "" {
		warnings = append(warnings, "sheet.tab_name is empty, defaulting to 'Sheet1'")
		c.Sheet.TabName = "Sheet1"
	}

	// HTTPClientSettings defaults
	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = c.PerPageTimeout
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SheetConfig holds the Google Sheets input settings. CredentialsFile is
// a service-account JSON key with read access to the sheet.
type SheetConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SheetURL        string `yaml:"sheet_url"`
	TabName         string `yaml:"tab_name,omitempty"`
}

// AppConfig holds the global application configuration
type AppConfig struct {
	UserAgent          string           `yaml:"user_agent,omitempty"`
	RowLimit           int              `yaml:"row_limit,omitempty"` // 0 = audit every row
	NumWorkers         int              `yaml:"num_workers,omitempty"`
	PerPageTimeout     time.Duration    `yaml:"per_page_timeout,omitempty"`
	CheckRobotsTxt     bool             `yaml:"check_robots_txt,omitempty"`
	OutputCSV          string           `yaml:"output_csv,omitempty"`
	StateDir           string           `yaml:"state_dir,omitempty"`
	EnableHistory      bool             `yaml:"enable_history,omitempty"`
	Sheet              SheetConfig      `yaml:"sheet,omitempty"`
	InputCSV           string           `yaml:"input_csv,omitempty"` // Alternative to the sheet
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Load reads and parses a YAML config file into an AppConfig.
// Validation is the caller's job.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return &cfg, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
user_agent: "custom-agent/2.0"
row_limit: 25
num_workers: 4
check_robots_txt: true
output_csv: out.csv
input_csv: rows.csv
http_client_settings:
  max_idle_conns: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, 25, cfg.RowLimit)
	assert.Equal(t, 4, cfg.NumWorkers)
	assert.True(t, cfg.CheckRobotsTxt)
	assert.Equal(t, "out.csv", cfg.OutputCSV)
	assert.Equal(t, "rows.csv", cfg.InputCSV)
	assert.Equal(t, 10, cfg.HTTPClientSettings.MaxIdleConns)

	// Durations are left to Validate's defaults
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 10*time.Second, cfg.PerPageTimeout)
}

func TestLoad_SheetSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sheet:
  credentials_file: service-account.json
  sheet_url: "https://docs.google.com/spreadsheets/d/abc123/edit"
  tab_name: Backlinks
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "service-account.json", cfg.Sheet.CredentialsFile)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/edit", cfg.Sheet.SheetURL)
	assert.Equal(t, "Backlinks", cfg.Sheet.TabName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("row_limit: [not a number"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

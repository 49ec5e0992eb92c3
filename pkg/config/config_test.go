package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hydrostats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := writeConfig(t, `
window:
  start: "1979-10-01"
  end: "2009-09-30"
stations:
  - name: Wildcat
    file: data/wildcat.txt
    site-no: "03335000"
  - name: Tippe
    file: /srv/tippe.txt
nodata-flags: [Eqp, Ice]
output:
  xlsx: Metrics.xlsx
  bundle: results.msgpack
  bundle-format: msgpack
archive:
  path: hydrostats.db
nwis:
  enabled: true
  timeout: 45s
server:
  listen: ":9090"
workers: 2
`)
	base := filepath.Dir(path)

	cfg, err := Load(NewYAMLProvider(path))
	require.NoError(t, err)

	assert.Equal(t, "1979-10-01", cfg.Window.Start)
	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, filepath.Join(base, "data/wildcat.txt"), cfg.Stations[0].File)
	assert.Equal(t, "/srv/tippe.txt", cfg.Stations[1].File)
	assert.Equal(t, "03335000", cfg.Stations[0].SiteNo)
	assert.Equal(t, []string{"Eqp", "Ice"}, cfg.NoDataFlags)

	assert.Equal(t, base, cfg.Output.Dir)
	assert.Equal(t, "Annual_Metrics.csv", cfg.Output.AnnualCSV)
	assert.Equal(t, "Average_Monthly_Metrics.txt", cfg.Output.MonthlyAvg)
	assert.Equal(t, "Metrics.xlsx", cfg.Output.Workbook)
	assert.Equal(t, "msgpack", cfg.Output.BundleFormat)

	assert.Equal(t, filepath.Join(base, "hydrostats.db"), cfg.Archive.Path)
	assert.True(t, cfg.NWIS.Enabled)
	assert.Equal(t, DefaultNWISBaseURL, cfg.NWIS.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.NWIS.Timeout)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, ":9090", cfg.Server.Listen)

	start, end, err := cfg.Window.Bounds()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1979, 10, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2009, 9, 30, 0, 0, 0, 0, time.UTC), end)

	stations, err := NewYAMLProvider(path).GetStations()
	require.NoError(t, err)
	assert.Len(t, stations, 2)
}

func TestYAMLProviderRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "stations:\n  - name: a\n    file: a.txt\nwindow-start: 1990-01-01\n")

	_, err := NewYAMLProvider(path).LoadConfig()
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, DefaultWindowStart, cfg.Window.Start)
	assert.Equal(t, DefaultWindowEnd, cfg.Window.End)
	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, "Wildcat", cfg.Stations[0].Name)
	assert.Equal(t, "Tippe", cfg.Stations[1].Name)
	assert.Equal(t, []string{"Eqp"}, cfg.NoDataFlags)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HYDROSTATS_WINDOW_START", "1989-10-01")
	t.Setenv("HYDROSTATS_NODATA_FLAGS", "Eqp,Ssn")
	t.Setenv("HYDROSTATS_WORKERS", "0")
	t.Setenv("HYDROSTATS_NWIS_ENABLED", "true")

	cfg := Default()
	cfg.Workers = 4
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "1989-10-01", cfg.Window.Start)
	assert.Equal(t, DefaultWindowEnd, cfg.Window.End, "unset variables keep file values")
	assert.Equal(t, []string{"Eqp", "Ssn"}, cfg.NoDataFlags)
	assert.Equal(t, 0, cfg.Workers)
	assert.True(t, cfg.NWIS.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ConfigData)
	}{
		{"no stations", func(c *ConfigData) { c.Stations = nil }},
		{"duplicate station names", func(c *ConfigData) { c.Stations[1].Name = c.Stations[0].Name }},
		{"station without file", func(c *ConfigData) { c.Stations[0].File = "" }},
		{"non-numeric site", func(c *ConfigData) { c.Stations[0].SiteNo = "wildcat" }},
		{"bad date", func(c *ConfigData) { c.Window.Start = "10/01/1969" }},
		{"reversed window", func(c *ConfigData) { c.Window.Start, c.Window.End = c.Window.End, c.Window.Start }},
		{"unknown bundle format", func(c *ConfigData) { c.Output.BundleFormat = "xml" }},
		{"negative workers", func(c *ConfigData) { c.Workers = -1 }},
		{"bad nwis url", func(c *ConfigData) { c.NWIS.BaseURL = "not a url" }},
		{"bad listen address", func(c *ConfigData) { c.Server.Listen = "localhost" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
		})
	}
}

package config

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetStations() ([]StationData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration of an analysis run
type ConfigData struct {
	Window      WindowData    `json:"window"`
	Stations    []StationData `json:"stations" validate:"required,min=1,unique=Name,dive"`
	NoDataFlags []string      `json:"nodata_flags,omitempty"`
	Output      OutputData    `json:"output"`
	Archive     ArchiveData   `json:"archive,omitempty"`
	NWIS        NWISData      `json:"nwis,omitempty"`
	Server      ServerData    `json:"server,omitempty"`
	MetricsFile string        `json:"metrics_file,omitempty"`
	Workers     int           `json:"workers,omitempty" validate:"gte=0"`
}

// WindowData is the inclusive analysis window, as YYYY-MM-DD dates
type WindowData struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// Bounds parses the window dates
func (w WindowData) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window start: %w", err)
	}
	end, err := time.Parse(dateLayout, w.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window end: %w", err)
	}
	return start, end, nil
}

// StationData names a gauging station and where its discharge record lives
type StationData struct {
	Name   string `json:"name" validate:"required"`
	File   string `json:"file" validate:"required"`
	SiteNo string `json:"site_no,omitempty" validate:"omitempty,numeric"`
}

// OutputData holds the names of the files written at the end of a run.
// Empty names skip that output.
type OutputData struct {
	Dir          string `json:"dir,omitempty"`
	AnnualCSV    string `json:"annual_csv,omitempty"`
	MonthlyCSV   string `json:"monthly_csv,omitempty"`
	AnnualAvg    string `json:"annual_avg,omitempty"`
	MonthlyAvg   string `json:"monthly_avg,omitempty"`
	Workbook     string `json:"xlsx,omitempty"`
	Bundle       string `json:"bundle,omitempty"`
	BundleFormat string `json:"bundle_format,omitempty" validate:"omitempty,oneof=json msgpack"`
}

// ArchiveData configures the SQLite result archive
type ArchiveData struct {
	Path string `json:"path,omitempty"`
}

// NWISData configures downloading station records from USGS water services
type NWISData struct {
	Enabled  bool          `json:"enabled,omitempty"`
	BaseURL  string        `json:"base_url,omitempty" validate:"omitempty,url"`
	CacheDir string        `json:"cache_dir,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// ServerData configures the read-only HTTP API over the archive
type ServerData struct {
	Listen string `json:"listen,omitempty" validate:"omitempty,hostname_port"`
}

// Defaults match the two-station Indiana comparison the tool was built for
const (
	DefaultWindowStart  = "1969-10-01"
	DefaultWindowEnd    = "2019-09-30"
	DefaultNWISBaseURL  = "https://waterservices.usgs.gov/nwis/dv/"
	DefaultNWISTimeout  = 30 * time.Second
	DefaultBundleFormat = "json"
	DefaultListen       = "localhost:8080"
)

// Default returns the configuration used when no config file is given
func Default() *ConfigData {
	cfg := &ConfigData{
		Stations: []StationData{
			{Name: "Wildcat", File: "WildcatCreek_Discharge_03335000_19540601-20200315.txt", SiteNo: "03335000"},
			{Name: "Tippe", File: "TippecanoeRiver_Discharge_03331500_19431001-20200315.txt", SiteNo: "03331500"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *ConfigData) applyDefaults() {
	if c.Window.Start == "" {
		c.Window.Start = DefaultWindowStart
	}
	if c.Window.End == "" {
		c.Window.End = DefaultWindowEnd
	}
	if len(c.NoDataFlags) == 0 {
		c.NoDataFlags = []string{"Eqp"}
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.AnnualCSV == "" && c.Output.MonthlyCSV == "" && c.Output.AnnualAvg == "" && c.Output.MonthlyAvg == "" {
		c.Output.AnnualCSV = "Annual_Metrics.csv"
		c.Output.MonthlyCSV = "Monthly_Metrics.csv"
		c.Output.AnnualAvg = "Average_Annual_Metrics.txt"
		c.Output.MonthlyAvg = "Average_Monthly_Metrics.txt"
	}
	if c.Output.BundleFormat == "" {
		c.Output.BundleFormat = DefaultBundleFormat
	}
	if c.NWIS.BaseURL == "" {
		c.NWIS.BaseURL = DefaultNWISBaseURL
	}
	if c.NWIS.Timeout == 0 {
		c.NWIS.Timeout = DefaultNWISTimeout
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
}

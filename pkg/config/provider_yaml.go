package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// Relative station files, output directory, archive path and NWIS cache
// directory are resolved against the directory holding the YAML file.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		Window      WindowYAML    `yaml:"window,omitempty"`
		Stations    []StationYAML `yaml:"stations"`
		NoDataFlags []string      `yaml:"nodata-flags,omitempty"`
		Output      OutputYAML    `yaml:"output,omitempty"`
		Archive     ArchiveYAML   `yaml:"archive,omitempty"`
		NWIS        NWISYAML      `yaml:"nwis,omitempty"`
		Server      ServerYAML    `yaml:"server,omitempty"`
		MetricsFile string        `yaml:"metrics-file,omitempty"`
		Workers     int           `yaml:"workers,omitempty"`
	}

	err = yaml.UnmarshalStrict(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(y.filename)

	config := &ConfigData{
		Window: WindowData{
			Start: yamlConfig.Window.Start,
			End:   yamlConfig.Window.End,
		},
		Stations:    make([]StationData, len(yamlConfig.Stations)),
		NoDataFlags: yamlConfig.NoDataFlags,
		Output: OutputData{
			Dir:          resolve(base, yamlConfig.Output.Dir),
			AnnualCSV:    yamlConfig.Output.AnnualCSV,
			MonthlyCSV:   yamlConfig.Output.MonthlyCSV,
			AnnualAvg:    yamlConfig.Output.AnnualAvg,
			MonthlyAvg:   yamlConfig.Output.MonthlyAvg,
			Workbook:     yamlConfig.Output.Workbook,
			Bundle:       yamlConfig.Output.Bundle,
			BundleFormat: yamlConfig.Output.BundleFormat,
		},
		Archive: ArchiveData{
			Path: resolve(base, yamlConfig.Archive.Path),
		},
		NWIS: NWISData{
			Enabled:  yamlConfig.NWIS.Enabled,
			BaseURL:  yamlConfig.NWIS.BaseURL,
			CacheDir: resolve(base, yamlConfig.NWIS.CacheDir),
			Timeout:  yamlConfig.NWIS.Timeout,
		},
		Server: ServerData{
			Listen: yamlConfig.Server.Listen,
		},
		MetricsFile: resolve(base, yamlConfig.MetricsFile),
		Workers:     yamlConfig.Workers,
	}

	for i, station := range yamlConfig.Stations {
		config.Stations[i] = StationData{
			Name:   station.Name,
			File:   resolve(base, station.File),
			SiteNo: station.SiteNo,
		}
	}

	if config.Output.Dir == "" {
		config.Output.Dir = base
	}
	config.applyDefaults()

	y.config = config
	return config, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// GetStations returns station configurations
func (y *YAMLProvider) GetStations() ([]StationData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Stations, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with YAML tags
type WindowYAML struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type StationYAML struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	SiteNo string `yaml:"site-no,omitempty"`
}

type OutputYAML struct {
	Dir          string `yaml:"dir,omitempty"`
	AnnualCSV    string `yaml:"annual-csv,omitempty"`
	MonthlyCSV   string `yaml:"monthly-csv,omitempty"`
	AnnualAvg    string `yaml:"annual-averages,omitempty"`
	MonthlyAvg   string `yaml:"monthly-averages,omitempty"`
	Workbook     string `yaml:"xlsx,omitempty"`
	Bundle       string `yaml:"bundle,omitempty"`
	BundleFormat string `yaml:"bundle-format,omitempty"`
}

type ArchiveYAML struct {
	Path string `yaml:"path,omitempty"`
}

type NWISYAML struct {
	Enabled  bool          `yaml:"enabled,omitempty"`
	BaseURL  string        `yaml:"base-url,omitempty"`
	CacheDir string        `yaml:"cache-dir,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

type ServerYAML struct {
	Listen string `yaml:"listen,omitempty"`
}

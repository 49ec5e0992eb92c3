package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override, e.g. HYDROSTATS_WORKERS
const EnvPrefix = "HYDROSTATS"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// envOverrides are applied on top of the file configuration. Unset
// variables leave the file value alone.
type envOverrides struct {
	WindowStart string   `envconfig:"WINDOW_START"`
	WindowEnd   string   `envconfig:"WINDOW_END"`
	NoDataFlags []string `envconfig:"NODATA_FLAGS"`
	OutputDir   string   `envconfig:"OUTPUT_DIR"`
	ArchivePath string   `envconfig:"ARCHIVE_PATH"`
	MetricsFile string   `envconfig:"METRICS_FILE"`
	Workers     *int     `envconfig:"WORKERS"`
	NWISEnabled *bool    `envconfig:"NWIS_ENABLED"`
	NWISBaseURL string   `envconfig:"NWIS_BASE_URL"`
	Listen      string   `envconfig:"LISTEN"`
}

// Load reads configuration from provider, applies HYDROSTATS_* environment
// overrides and validates the result.
func Load(provider ConfigProvider) (*ConfigData, error) {
	cfg, err := provider.LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg
func ApplyEnv(cfg *ConfigData) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to load config from env: %w", err)
	}

	if env.WindowStart != "" {
		cfg.Window.Start = env.WindowStart
	}
	if env.WindowEnd != "" {
		cfg.Window.End = env.WindowEnd
	}
	if len(env.NoDataFlags) > 0 {
		cfg.NoDataFlags = env.NoDataFlags
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.ArchivePath != "" {
		cfg.Archive.Path = env.ArchivePath
	}
	if env.MetricsFile != "" {
		cfg.MetricsFile = env.MetricsFile
	}
	if env.Workers != nil {
		cfg.Workers = *env.Workers
	}
	if env.NWISEnabled != nil {
		cfg.NWIS.Enabled = *env.NWISEnabled
	}
	if env.NWISBaseURL != "" {
		cfg.NWIS.BaseURL = env.NWISBaseURL
	}
	if env.Listen != "" {
		cfg.Server.Listen = env.Listen
	}

	return nil
}

var validate = validator.New()

// Validate checks struct constraints and that the window is not reversed
func Validate(cfg *ConfigData) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	start, end, err := cfg.Window.Bounds()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if start.After(end) {
		return fmt.Errorf("%w: window start %s is after end %s", ErrInvalidConfig, cfg.Window.Start, cfg.Window.End)
	}

	return nil
}

// =============================================================================
// TPV Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the run
// configuration. Values come from four layers, highest precedence first:
//
//   1. Command-line flags (bound by the cmd package)
//   2. Environment variables prefixed with TPVREPORT_ (e.g. TPVREPORT_DATA_DIR)
//   3. An optional YAML config file (tpvreport.yaml or --config)
//   4. Defaults registered by SetDefaults
//
// EXAMPLE CONFIG FILE:
//   data_dir: ./planilhas
//   report_dir: ./relatorios
//   encoding: latin1
//   log_level: debug
//   chart:
//     width: 1200px
//     height: 600px
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/tpv-report/internal/chartwriter"
	"github.com/ginjaninja78/tpv-report/internal/csvparser"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// EnvPrefix is prepended to every environment variable override.
	EnvPrefix = "TPVREPORT"

	// DefaultConfigName is the config file looked up in the working directory
	// when --config is not given.
	DefaultConfigName = "tpvreport"

	DefaultDataDir   = "data"
	DefaultReportDir = "reports"
	DefaultEncoding  = "utf-8"
	DefaultLogLevel  = "info"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings for one report run.
type Config struct {
	// DataDir is the directory scanned for .csv/.xlsx/.xls files.
	// Default: "data"
	DataDir string `mapstructure:"data_dir"`

	// ReportDir is where the HTML charts are written. Created if absent.
	// Default: "reports"
	ReportDir string `mapstructure:"report_dir"`

	// Encoding is the text encoding used for CSV files. Any WHATWG label
	// works ("utf-8", "latin1", "windows-1252", "iso-8859-15", ...).
	// Default: "utf-8"
	Encoding string `mapstructure:"encoding"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `mapstructure:"log_level"`

	// WriteManifest writes manifest.yaml next to the reports.
	WriteManifest bool `mapstructure:"write_manifest"`

	// WriteWorkbook writes the customer summary as an .xlsx next to the
	// reports.
	WriteWorkbook bool `mapstructure:"write_workbook"`

	// Chart holds rendering settings for the HTML charts.
	Chart ChartSettings `mapstructure:"chart"`
}

// ChartSettings contains options passed to the chart renderer.
type ChartSettings struct {
	// Width and Height are CSS sizes for the chart canvas.
	Width  string `mapstructure:"width"`
	Height string `mapstructure:"height"`

	// AssetsHost is the URL the echarts JavaScript is loaded from.
	// Empty means the renderer's default CDN.
	AssetsHost string `mapstructure:"assets_host"`
}

// =============================================================================
// LOADING
// =============================================================================

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("report_dir", DefaultReportDir)
	v.SetDefault("encoding", DefaultEncoding)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("write_manifest", true)
	v.SetDefault("write_workbook", true)
	chart := chartwriter.DefaultOptions()
	v.SetDefault("chart.width", chart.Width)
	v.SetDefault("chart.height", chart.Height)
	v.SetDefault("chart.assets_host", chart.AssetsHost)
}

// Load reads the configuration into a Config.
//
// PARAMETERS:
//   - v: The viper instance. Flags should already be bound to it.
//   - cfgFile: Explicit config file path. When empty, tpvreport.yaml is
//     looked up in the working directory and silently ignored if absent.
//
// RETURNS:
//   - The validated configuration.
//   - An error if an explicit config file cannot be read, or if validation fails.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills values that were explicitly set to empty strings.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = DefaultDataDir
	}
	if strings.TrimSpace(cfg.ReportDir) == "" {
		cfg.ReportDir = DefaultReportDir
	}
	if strings.TrimSpace(cfg.Encoding) == "" {
		cfg.Encoding = DefaultEncoding
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks the values that would otherwise fail late, once per file.
func (c *Config) Validate() error {
	if _, err := csvparser.LookupEncoding(c.Encoding); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the parsed log level. Validate must have passed.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

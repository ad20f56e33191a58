// Package config loads and persists placedesk configuration.
//
// Configuration is resolved in layers: built-in defaults, the global file
// (~/.placedesk/config.yaml), an optional project overlay (./.placedesk/config.yaml)
// shallow-merged by top-level section, and finally PLACEDESK_* environment variables.
// CLI flags are applied by the cli package on top of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIURL         = "http://localhost:1337"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxConcurrency = 8
	DefaultOutputFormat   = "table"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	CurrentSchemaVersion  = "1.0.0"

	// supportedSchemaRange is the semver constraint a config file's schema_version must satisfy.
	supportedSchemaRange = ">= 1.0.0, < 2.0.0"

	configFileName = "config.yaml"
)

// Environment variable names.
const (
	EnvHome      = "PLACEDESK_HOME"
	EnvAPIURL    = "PLACEDESK_API_URL"
	EnvAPIToken  = "PLACEDESK_API_TOKEN" //nolint:gosec // Variable name, not a credential.
	EnvLogLevel  = "PLACEDESK_LOG_LEVEL"
	EnvLogFormat = "PLACEDESK_LOG_FORMAT"
	EnvExportDir = "PLACEDESK_EXPORT_DIR"
)

// Configuration errors.
var (
	ErrMissingToken       = errors.New("api token is not configured (set api.token, PLACEDESK_API_TOKEN or --token)")
	ErrMissingAPIURL      = errors.New("api url is not configured")
	ErrUnknownKey         = errors.New("unknown configuration key")
	ErrUnsupportedVersion = errors.New("unsupported config schema_version")
)

// Config is the root configuration document.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	API           APIConfig     `yaml:"api"`
	Output        OutputConfig  `yaml:"output"`
	Logging       LoggingConfig `yaml:"logging"`
	Metrics       MetricsConfig `yaml:"metrics"`

	// path is the file this config was loaded from (empty when defaults only).
	path string
}

// APIConfig describes the REST backend.
type APIConfig struct {
	URL            string        `yaml:"url"`
	Token          string        `yaml:"token,omitempty"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
}

// OutputConfig controls rendering and file output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	ExportDir     string `yaml:"export_dir"`
}

// MetricsConfig controls the Prometheus textfile written at command end.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		API: APIConfig{
			URL:            DefaultAPIURL,
			Timeout:        DefaultTimeout,
			MaxConcurrency: DefaultMaxConcurrency,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			ExportDir:     ".",
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New builds the effective configuration: defaults, global file, environment.
// A missing or unreadable global file is not an error; defaults are used.
func New() *Config {
	cfg := Default()
	if path, err := ConfigFilePath(); err == nil {
		if loadErr := cfg.LoadFile(path); loadErr == nil {
			cfg.path = path
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.fillDefaults()
	return cfg
}

// Load reads the file at path on top of the defaults without applying the
// environment. A missing file yields the defaults; the path is still recorded
// so Save-after-Set round-trips.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err = cfg.LoadFile(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}
	cfg.path = path
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for zero-valued fields a replaced section left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.SchemaVersion == "" {
		c.SchemaVersion = d.SchemaVersion
	}
	if c.API.URL == "" {
		c.API.URL = d.API.URL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.MaxConcurrency == 0 {
		c.API.MaxConcurrency = d.API.MaxConcurrency
	}
	if c.Output.DefaultFormat == "" {
		c.Output.DefaultFormat = d.Output.DefaultFormat
	}
	if c.Output.ExportDir == "" {
		c.Output.ExportDir = d.Output.ExportDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

// LoadFile unmarshals the YAML file at path on top of the receiver.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// ApplyEnv applies PLACEDESK_* overrides using lookupEnv.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		c.API.URL = v
	}
	if v, ok := lookupEnv(EnvAPIToken); ok && v != "" {
		c.API.Token = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvExportDir); ok && v != "" {
		c.Output.ExportDir = v
	}
}

// Save writes the config as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the schema version and value ranges. A missing token is not a validation
// error here; commands that talk to the backend call RequireToken.
func (c *Config) Validate() error {
	if err := checkSchemaVersion(c.SchemaVersion); err != nil {
		return err
	}
	if strings.TrimSpace(c.API.URL) == "" {
		return ErrMissingAPIURL
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout)
	}
	if c.API.MaxConcurrency < 1 {
		return fmt.Errorf("api.max_concurrency must be >= 1, got %d", c.API.MaxConcurrency)
	}
	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson", "csv":
	default:
		return fmt.Errorf("output.default_format %q is not one of table, json, ndjson, csv", c.Output.DefaultFormat)
	}
	return nil
}

// RequireToken returns ErrMissingToken when no API token is configured.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.API.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

func checkSchemaVersion(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, raw, err)
	}
	constraint, err := semver.NewConstraint(supportedSchemaRange)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, raw, supportedSchemaRange)
	}
	return nil
}

// Keys lists every dotted key accepted by Get and Set.
func Keys() []string {
	return []string{
		"schema_version",
		"api.url", "api.token", "api.timeout", "api.max_concurrency",
		"output.default_format", "output.export_dir",
		"logging.level", "logging.format", "logging.file",
		"logging.audit.enabled", "logging.audit.file",
		"metrics.textfile",
	}
}

// Get returns the value of a dotted key as a string.
//
//nolint:cyclop // Flat key switch.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "schema_version":
		return c.SchemaVersion, nil
	case "api.url":
		return c.API.URL, nil
	case "api.token":
		return c.API.Token, nil
	case "api.timeout":
		return c.API.Timeout.String(), nil
	case "api.max_concurrency":
		return strconv.Itoa(c.API.MaxConcurrency), nil
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.export_dir":
		return c.Output.ExportDir, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "logging.audit.enabled":
		return strconv.FormatBool(c.Logging.Audit.Enabled), nil
	case "logging.audit.file":
		return c.Logging.Audit.File, nil
	case "metrics.textfile":
		return c.Metrics.Textfile, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set assigns a dotted key from its string form.
//
//nolint:cyclop,funlen // Flat key switch.
func (c *Config) Set(key, value string) error {
	switch key {
	case "schema_version":
		if err := checkSchemaVersion(value); err != nil {
			return err
		}
		c.SchemaVersion = value
	case "api.url":
		c.API.URL = value
	case "api.token":
		c.API.Token = value
	case "api.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		c.API.Timeout = d
	case "api.max_concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("api.max_concurrency: %w", err)
		}
		c.API.MaxConcurrency = n
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.export_dir":
		c.Output.ExportDir = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "logging.audit.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logging.audit.enabled: %w", err)
		}
		c.Logging.Audit.Enabled = b
	case "logging.audit.file":
		c.Logging.Audit.File = value
	case "metrics.textfile":
		c.Metrics.Textfile = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

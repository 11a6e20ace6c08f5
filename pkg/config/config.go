package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/types"
)

// Defaults
const (
	DefaultLogLevel        = "info"
	DefaultFormat          = "human"
	DefaultMaxFileSize     = 10 << 20
	DefaultAnalysisTimeout = 5 * time.Minute

	// FileName is looked up in the home directory when no path is given
	FileName = ".archguard.yaml"
)

// Environment variables that override file values
const (
	EnvLogLevel        = "ARCHGUARD_LOG_LEVEL"
	EnvFormat          = "ARCHGUARD_FORMAT"
	EnvMaxFileSize     = "ARCHGUARD_MAX_FILE_SIZE"
	EnvAnalysisTimeout = "ARCHGUARD_ANALYSIS_TIMEOUT"
	EnvFailOn          = "ARCHGUARD_FAIL_ON"
)

// Formats lists the report formats the CLI can write
var Formats = []string{"human", "json", "sarif", "junit"}

// Config holds CLI settings
type Config struct {
	LogLevel        string        `yaml:"log_level"`
	Format          string        `yaml:"format"`
	MaxFileSize     int64         `yaml:"max_file_size"`
	AnalysisTimeout time.Duration `yaml:"analysis_timeout"`
	// FailOn makes analyze exit non-zero when a finding at or above this
	// severity is reported. Empty disables the check.
	FailOn string `yaml:"fail_on"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		Format:          DefaultFormat,
		MaxFileSize:     DefaultMaxFileSize,
		AnalysisTimeout: DefaultAnalysisTimeout,
	}
}

// DefaultPath returns $HOME/.archguard.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the configuration at path, then applies environment overrides.
// An empty path means the default location, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the ARCHGUARD_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		c.Format = v
	}
	if v, ok := lookup(EnvFailOn); ok && v != "" {
		c.FailOn = v
	}
	if v, ok := lookup(EnvMaxFileSize); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxFileSize, err)
		}
		c.MaxFileSize = n
	}
	if v, ok := lookup(EnvAnalysisTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAnalysisTimeout, err)
		}
		c.AnalysisTimeout = d
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if !isValidFormat(c.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.AnalysisTimeout < 0 {
		return fmt.Errorf("analysis timeout must not be negative, got %s", c.AnalysisTimeout)
	}
	if c.FailOn != "" {
		if _, ok := types.ParseSeverity(c.FailOn); !ok {
			return fmt.Errorf("invalid fail_on severity: %s", c.FailOn)
		}
	}
	return nil
}

// FailOnSeverity returns the parsed fail_on threshold, if one is set
func (c *Config) FailOnSeverity() (types.Severity, bool) {
	if c.FailOn == "" {
		return "", false
	}
	return types.ParseSeverity(c.FailOn)
}

func isValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

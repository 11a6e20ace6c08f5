package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ToluGIT/archguard/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archguard.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvFormat, EnvMaxFileSize, EnvAnalysisTimeout, EnvFailOn} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogLevel != "info" || cfg.Format != "human" || cfg.MaxFileSize != 10*1024*1024 ||
		cfg.AnalysisTimeout != 5*time.Minute || cfg.FailOn != "" {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: debug
format: sarif
max_file_size: 2048
analysis_timeout: 30s
fail_on: high
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Format != "sarif" || cfg.MaxFileSize != 2048 ||
		cfg.AnalysisTimeout != 30*time.Second || cfg.FailOn != "high" {
		t.Errorf("Load() = %+v", cfg)
	}

	sev, ok := cfg.FailOnSeverity()
	if !ok || sev != types.SeverityHigh {
		t.Errorf("FailOnSeverity() = %s, %v", sev, ok)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "format: json\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "json" || cfg.MaxFileSize != DefaultMaxFileSize || cfg.AnalysisTimeout != DefaultAnalysisTimeout {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "missing explicit file", path: filepath.Join(t.TempDir(), "nope.yaml"), wantErr: "failed to read"},
		{name: "malformed yaml", path: writeConfig(t, "format: [json\n"), wantErr: "failed to parse"},
		{name: "bad duration", path: writeConfig(t, "analysis_timeout: soon\n"), wantErr: "failed to parse"},
		{name: "invalid format", path: writeConfig(t, "format: pdf\n"), wantErr: "invalid format"},
		{name: "invalid fail_on", path: writeConfig(t, "fail_on: urgent\n"), wantErr: "invalid fail_on"},
		{name: "invalid level", path: writeConfig(t, "log_level: loud\n"), wantErr: "invalid log level"},
		{name: "non-positive size", path: writeConfig(t, "max_file_size: 0\n"), wantErr: "max file size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != DefaultFormat {
		t.Errorf("Format = %q, want default", cfg.Format)
	}
}

func TestLoad_DefaultPathPresent(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte("format: junit\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "junit" {
		t.Errorf("Format = %q, want junit", cfg.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvMaxFileSize, "4096")
	t.Setenv(EnvAnalysisTimeout, "2m")
	t.Setenv(EnvFailOn, "CRITICAL")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, "format: sarif\nmax_file_size: 10\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "json" || cfg.MaxFileSize != 4096 || cfg.AnalysisTimeout != 2*time.Minute ||
		cfg.FailOn != "CRITICAL" || cfg.LogLevel != "warn" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		EnvMaxFileSize:     "ten",
		EnvAnalysisTimeout: "forever",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			}
			if err := Default().ApplyEnv(lookup); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}

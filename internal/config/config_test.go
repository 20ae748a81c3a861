package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/model"
)

// TestNewConfig verifies the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	want := &Config{
		Timeout:     30 * time.Second,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: 5 * 1024 * 1024,
		BatchSize:   4,
		Level:       "AA",
		Format:      "text",
	}
	if diff := cmp.Diff(want, NewConfig()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"https://example.com/"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid defaults", modify: func(*Config) {}},
		{name: "no targets", modify: func(c *Config) { c.Targets = nil }, wantErr: ErrNoTarget},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: ErrInvalidTimeout},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "zero body size uses default", modify: func(c *Config) { c.MaxBodySize = 0 }},
		{name: "body size above page limit", modify: func(c *Config) { c.MaxBodySize = model.MaxPageSize + 1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "threshold above 21", modify: func(c *Config) { c.ContrastThreshold = 22 }, wantErr: ErrInvalidThreshold},
		{name: "negative large threshold", modify: func(c *Config) { c.LargeContrastThreshold = -1 }, wantErr: ErrInvalidThreshold},
		{name: "custom thresholds", modify: func(c *Config) { c.ContrastThreshold, c.LargeContrastThreshold = 5, 3.5 }},
		{name: "AAA level", modify: func(c *Config) { c.Level = "aaa" }},
		{name: "unknown level", modify: func(c *Config) { c.Level = "A" }, wantErr: ErrInvalidLevel},
		{name: "json format", modify: func(c *Config) { c.Format = FormatJSON }},
		{name: "log-json format", modify: func(c *Config) { c.Format = FormatLogJSON }},
		{name: "dark canvas", modify: func(c *Config) { c.Canvas = "#121212" }},
		{name: "transparent canvas", modify: func(c *Config) { c.Canvas = "transparent" }, wantErr: ErrInvalidCanvas},
		{name: "unparsable canvas", modify: func(c *Config) { c.Canvas = "dark" }, wantErr: ErrInvalidCanvas},
		{name: "unknown format", modify: func(c *Config) { c.Format = "html" }, wantErr: ErrInvalidFormat},
		{name: "fail on high", modify: func(c *Config) { c.FailOn = "High" }},
		{name: "unknown fail on", modify: func(c *Config) { c.FailOn = "severe" }, wantErr: ErrInvalidFailOn},
		{name: "socks proxy", modify: func(c *Config) { c.ProxyAddress = "socks5://127.0.0.1:9050" }},
		{name: "bad proxy", modify: func(c *Config) { c.ProxyAddress = "127.0.0.1" }, wantErr: ErrInvalidProxyAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestContrastLevel tests level parsing on a validated config.
func TestContrastLevel(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.ContrastLevel() != contrast.LevelAA {
		t.Errorf("expected AA by default, got %v", cfg.ContrastLevel())
	}
	cfg.Level = "AAA"
	if cfg.ContrastLevel() != contrast.LevelAAA {
		t.Errorf("expected AAA, got %v", cfg.ContrastLevel())
	}
}

// TestFileGetSiteConfig tests merging site settings with defaults.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{
			Cookie:         "default=abc",
			Headers:        map[string]string{"X-Default": "1", "Authorization": "default-token"},
			DisabledChecks: []string{"tabindex"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:         "session=xyz",
				Headers:        map[string]string{"Authorization": "site-token"},
				UserAgent:      "custom-agent",
				DisabledChecks: []string{"contrast"},
				Level:          "AAA",
			},
		},
	}

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		want := SiteConfig{
			Cookie:         "default=abc",
			Headers:        map[string]string{"X-Default": "1", "Authorization": "default-token"},
			DisabledChecks: []string{"tabindex"},
		}
		if diff := cmp.Diff(want, file.GetSiteConfig("unknown.example")); diff != "" {
			t.Errorf("site config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("merges site over defaults", func(t *testing.T) {
		t.Parallel()

		want := SiteConfig{
			Cookie:         "session=xyz",
			Headers:        map[string]string{"X-Default": "1", "Authorization": "site-token"},
			UserAgent:      "custom-agent",
			DisabledChecks: []string{"tabindex", "contrast"},
			Level:          "AAA",
		}
		if diff := cmp.Diff(want, file.GetSiteConfig("Example.COM")); diff != "" {
			t.Errorf("site config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("does not modify defaults", func(t *testing.T) {
		t.Parallel()

		_ = file.GetSiteConfig("example.com")
		if file.Defaults.Headers["Authorization"] != "default-token" || len(file.Defaults.DisabledChecks) != 1 {
			t.Errorf("defaults were modified: %+v", file.Defaults)
		}
	})
}

// TestFileForTarget tests host lookup from target URLs.
func TestFileForTarget(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{UserAgent: "default"},
		Sites: map[string]SiteConfig{
			"example.com":    {UserAgent: "example"},
			"localhost:8080": {UserAgent: "dev"},
		},
	}

	tests := map[string]string{
		"https://example.com/page":     "example",
		"https://example.com:8443/":    "example",
		"http://localhost:8080/a":      "dev",
		"http://localhost:9090/a":      "default",
		"file:///var/www/index.html":   "default",
		"https://other.example.org/x/": "default",
	}
	for target, want := range tests {
		if got := file.ForTarget(target).UserAgent; got != want {
			t.Errorf("ForTarget(%q).UserAgent = %q, want %q", target, got, want)
		}
	}

	var missing *File
	if got := missing.ForTarget("https://example.com/"); got.UserAgent != "" {
		t.Errorf("expected empty config from nil file, got %+v", got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), DefaultConfigFile))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  userAgent: "audit-bot"
  disabledChecks:
    - tabindex
sites:
  example.com:
    cookie: "session=xyz"
    level: AAA
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Defaults: SiteConfig{UserAgent: "audit-bot", DisabledChecks: []string{"tabindex"}},
			Sites: map[string]SiteConfig{
				"example.com": {
					Cookie:  "session=xyz",
					Level:   "AAA",
					Headers: map[string]string{"Authorization": "Bearer token"},
				},
			},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("defaults:\n  level: AA\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGConfigDir tests the XDG config directory.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if filepath.Base(dir) != AppName {
		t.Errorf("expected directory named %q, got %q", AppName, dir)
	}
}

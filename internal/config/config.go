package config

import (
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/a11yscan/internal/contrast"
	"github.com/nao1215/a11yscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "a11yscan"

	// DefaultTimeout bounds each page fetch. Audits run on already
	// rendered markup, so a page that takes longer is treated as down.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of targets audited concurrently.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies a11yscan in HTTP requests so site
	// operators can tell audit traffic apart in their logs.
	DefaultUserAgent = "a11yscan/1.0 (+https://github.com/nao1215/a11yscan)"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultLevel is the WCAG conformance level audited against.
	DefaultLevel = "AA"

	// DefaultFormat is the report format written to stdout.
	DefaultFormat = FormatText
)

// Report formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatLog      = "log"
	FormatLogJSON  = "log-json"
)

// Formats lists the supported report formats.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown, FormatLog, FormatLogJSON}

// Config holds all configuration options for a11yscan.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// Targets is the list of URLs or files to audit.
	Targets []string

	// Timeout is the timeout for each page fetch.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// BatchSize is the number of targets audited concurrently.
	BatchSize int

	// Level is the WCAG conformance level ("AA" or "AAA").
	Level string

	// ContrastThreshold overrides the minimum ratio for normal text when
	// positive.
	ContrastThreshold float64

	// LargeContrastThreshold overrides the minimum ratio for large text
	// when positive.
	LargeContrastThreshold float64

	// DisabledChecks lists check names that are not run.
	DisabledChecks []string

	// Canvas is the color assumed behind the page. Empty means white.
	Canvas string

	// Format is the report format (text, json, markdown, log, log-json).
	Format string

	// OutputFile is the path the report is written to. Empty means stdout.
	OutputFile string

	// AnnotateFile is the path an annotated copy of the page is written to.
	// With several targets the file name gets the target index appended.
	AnnotateFile string

	// FailOn is the lowest severity that makes the command exit non-zero.
	// Empty means findings never change the exit status.
	FailOn string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON writes diagnostic logs as JSON lines instead of text.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	ConfigFilePath string

	// SiteConfigs holds the site configurations loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
		Level:       DefaultLevel,
		Format:      DefaultFormat,
	}
}

// XDGConfigDir returns the XDG config directory for a11yscan.
// On Linux: ~/.config/a11yscan
// On macOS: ~/Library/Application Support/a11yscan
// On Windows: %APPDATA%\a11yscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 || c.MaxBodySize > model.MaxPageSize {
		return fmt.Errorf("%w: %d", ErrInvalidMaxBodySize, c.MaxBodySize)
	}
	if c.ContrastThreshold < 0 || c.ContrastThreshold > 21 ||
		c.LargeContrastThreshold < 0 || c.LargeContrastThreshold > 21 {
		return ErrInvalidThreshold
	}
	if c.ProxyAddress != "" && !validProxyAddress(c.ProxyAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidProxyAddress, c.ProxyAddress)
	}
	if _, err := contrast.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}
	if c.Canvas != "" {
		if _, err := contrast.ParseString(c.Canvas); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCanvas, err)
		}
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: %q (available: %s)", ErrInvalidFormat, c.Format, strings.Join(Formats, ", "))
	}
	if c.FailOn != "" {
		if _, ok := model.ParseSeverity(c.FailOn); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidFailOn, c.FailOn)
		}
	}
	return nil
}

// ContrastLevel returns the parsed WCAG level. Call Validate first.
func (c *Config) ContrastLevel() contrast.Level {
	level, err := contrast.ParseLevel(c.Level)
	if err != nil {
		return contrast.LevelAA
	}
	return level
}

// validProxyAddress accepts "host:port" with an optional socks5:// prefix.
func validProxyAddress(addr string) bool {
	host, port, err := net.SplitHostPort(strings.TrimPrefix(addr, "socks5://"))
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAPIURL       = errors.New("api_url is required")
	ErrInvalidAPIURL       = errors.New("api_url must be an absolute http(s) URL")
	ErrInvalidEndpointPath = errors.New("endpoint_path must start with /")
	ErrNoAllowedTypes      = errors.New("allowed_types must list at least one MIME type")
	ErrInvalidProgressMode = errors.New("progress_mode must be transfer or simulated")
	ErrInvalidLogLevel     = errors.New("log_level must be debug, info, warn or error")
)

type Config struct {
	// Endpoint
	APIURL                string `yaml:"api_url"`
	APIKey                string `yaml:"api_key"`
	EndpointPath          string `yaml:"endpoint_path"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`

	// Selection
	AllowedTypes []string `yaml:"allowed_types"`

	// Upload Settings
	ProgressMode string `yaml:"progress_mode"`
	WindowSize   int    `yaml:"window_size"`

	// Results
	ResultsDir      string `yaml:"results_dir"`
	SaveResults     bool   `yaml:"save_results"`
	CopyToClipboard bool   `yaml:"copy_to_clipboard"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// UI Settings
	LogLevel   string `yaml:"log_level"`
	ColorTheme string `yaml:"color_theme"`
}

const (
	defaultAPIURL         = "http://localhost:8000"
	defaultEndpointPath   = "/v1/text-extract"
	defaultTimeoutSeconds = 120
	defaultProgressMode   = "transfer"
	defaultWindowSize     = 3
	defaultDebounceMS     = 500
	defaultLogLevel       = "warn"
	defaultColorTheme     = "auto"
)

// defaultAllowedTypes lists the document and image types the extraction service accepts
func defaultAllowedTypes() []string {
	return []string{
		"application/pdf",
		"image/jpeg",
		"image/tiff",
		"image/bmp",
		"image/png",
		"image/gif",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"application/rtf",
	}
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		APIURL:                defaultAPIURL,
		APIKey:                "",
		EndpointPath:          defaultEndpointPath,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
		AllowedTypes:          defaultAllowedTypes(),
		ProgressMode:          defaultProgressMode,
		WindowSize:            defaultWindowSize,
		ResultsDir:            "",
		SaveResults:           true,
		CopyToClipboard:       false,
		WatchDebounceMS:       defaultDebounceMS,
		LogLevel:              defaultLogLevel,
		ColorTheme:            defaultColorTheme,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in essential values left empty by the file
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.EndpointPath == "" {
		c.EndpointPath = defaultEndpointPath
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultTimeoutSeconds
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = defaultAllowedTypes()
	}
	if c.ProgressMode == "" {
		c.ProgressMode = defaultProgressMode
	}
	if c.WindowSize <= 0 {
		c.WindowSize = defaultWindowSize
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = defaultDebounceMS
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.ColorTheme == "" {
		c.ColorTheme = defaultColorTheme
	}
}

// Validate reports every invalid setting, joined into one error
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.APIURL) == "" {
		errs = append(errs, ErrMissingAPIURL)
	} else if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.APIURL))
	}
	if !strings.HasPrefix(c.EndpointPath, "/") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidEndpointPath, c.EndpointPath))
	}
	if !hasNonBlank(c.AllowedTypes) {
		errs = append(errs, ErrNoAllowedTypes)
	}
	if c.ProgressMode != "transfer" && c.ProgressMode != "simulated" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidProgressMode, c.ProgressMode))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel))
	}

	return errors.Join(errs...)
}

// RequestTimeout returns the per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// WatchDebounce returns the quiet period used to batch watched files
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold the API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

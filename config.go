package filesig

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Text detection
	TextSampleSize int `env:"FILESIG_TEXT_SAMPLE_SIZE,default:1024"`

	// Maximum bytes buffered from a reader that cannot seek
	MaxBufferSize int64 `env:"FILESIG_MAX_BUFFER_SIZE,default:16777216"` // 16MB default

	// Result cache
	CacheEnabled bool   `env:"FILESIG_CACHE_ENABLED,default:false"`
	CacheTTL     string `env:"FILESIG_CACHE_TTL,default:5m"`

	// Detectors to leave out of the default registry
	DisabledDetectors string `env:"FILESIG_DISABLED_DETECTORS"` // comma-separated

	// Directory scanning
	ScanWorkers int    `env:"FILESIG_SCAN_WORKERS,default:4"`
	ScanInclude string `env:"FILESIG_SCAN_INCLUDE"` // glob
	ScanExclude string `env:"FILESIG_SCAN_EXCLUDE"` // glob

	// Content policy used by the check command
	AcceptedTypes string `env:"FILESIG_ACCEPTED_TYPES"` // comma-separated, e.g. "image/*,application/pdf"
	BlockedTypes  string `env:"FILESIG_BLOCKED_TYPES"`  // comma-separated

	LogLevel string `env:"FILESIG_LOG_LEVEL,default:info"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheTTLDuration parses CacheTTL. An empty value means no expiration.
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	if strings.TrimSpace(c.CacheTTL) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.CacheTTL, err)
	}
	return d, nil
}

// Disabled returns the names listed in DisabledDetectors.
func (c *Config) Disabled() []string {
	return splitList(c.DisabledDetectors)
}

// Accepted returns the patterns listed in AcceptedTypes.
func (c *Config) Accepted() []string {
	return splitList(c.AcceptedTypes)
}

// Blocked returns the patterns listed in BlockedTypes.
func (c *Config) Blocked() []string {
	return splitList(c.BlockedTypes)
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Registry builds a registry of the built-in detectors honoring the text
// sample size and the disabled detector list.
func (c *Config) Registry() *Registry {
	disabled := make(map[string]bool)
	for _, name := range c.Disabled() {
		disabled[name] = true
	}

	registry := NewRegistry()
	candidates := []Detector{
		NewCatalogDetector(DefaultCatalog()),
		NewTextDetector(c.TextSampleSize),
	}
	for _, d := range candidates {
		if disabled[d.Name()] {
			continue
		}
		registry.MustRegister(d)
	}
	return registry
}

// NewIdentifierFromConfig builds an Identifier from cfg. Options given
// explicitly are applied after the configured ones.
func NewIdentifierFromConfig(cfg *Config, opts ...Option) (*Identifier, error) {
	if cfg == nil {
		return nil, invalidArgument("new identifier", "config")
	}

	base := []Option{
		WithRegistry(cfg.Registry()),
		WithMaxBufferSize(cfg.MaxBufferSize),
	}
	if cfg.CacheEnabled {
		ttl, err := cfg.CacheTTLDuration()
		if err != nil {
			return nil, err
		}
		base = append(base, WithCache(NewMemoryCache(), ttl))
	}
	return New(append(base, opts...)...), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package filesig

import (
	"log/slog"
	"time"
)

// DefaultMaxBufferSize bounds how much of a non-seekable reader is buffered
// in memory for identification.
const DefaultMaxBufferSize = 16 << 20

// Option configures an Identifier
type Option func(*Options)

// Options contains the settings of an Identifier
type Options struct {
	// Registry is the set of detectors to run. Nil selects the shared
	// default registry. New takes a copy.
	Registry *Registry

	// Logger receives per-detector diagnostics. Nil discards them.
	Logger *slog.Logger

	// Cache stores results by source fingerprint. Nil disables caching.
	Cache Cache

	// CacheTTL is the lifetime of cached results. Zero means no expiration.
	CacheTTL time.Duration

	// MaxBufferSize limits how many bytes IdentifyReader buffers from a
	// reader that cannot seek.
	MaxBufferSize int64
}

// WithRegistry sets the detectors to run
func WithRegistry(registry *Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithCache enables result caching
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(o *Options) {
		o.Cache = cache
		o.CacheTTL = ttl
	}
}

// WithMaxBufferSize sets the buffering limit for non-seekable readers
func WithMaxBufferSize(size int64) Option {
	return func(o *Options) {
		o.MaxBufferSize = size
	}
}

func defaultOptions() Options {
	return Options{
		MaxBufferSize: DefaultMaxBufferSize,
	}
}

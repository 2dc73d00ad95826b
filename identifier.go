package filesig

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Identifier runs a registry of detectors over content from various
// origins. It is safe for concurrent use.
type Identifier struct {
	registry  *Registry
	logger    *slog.Logger
	opts      Options
	cachePfx  string
	cacheable bool
	head      int64
	tail      int64
	group     singleflight.Group
}

// New creates an Identifier. The registry given with WithRegistry is copied,
// so registering detectors on it afterwards does not affect the Identifier.
func New(opts ...Option) *Identifier {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry == nil {
		o.Registry = GetDefaultRegistry()
	}
	o.Registry = o.Registry.Clone()
	if o.Logger == nil {
		o.Logger = discardLogger
	}
	if o.MaxBufferSize <= 0 {
		o.MaxBufferSize = DefaultMaxBufferSize
	}

	id := &Identifier{
		registry: o.Registry,
		logger:   o.Logger,
		opts:     o,
	}
	if o.Cache != nil {
		id.head, id.tail, id.cacheable = o.Registry.Extent()
		names := make([]string, 0, o.Registry.Count())
		for _, d := range o.Registry.Detectors() {
			names = append(names, d.Name())
		}
		id.cachePfx = strings.Join(names, ",") + ":"
		if !id.cacheable {
			o.Logger.Info("result cache disabled: registry has detectors without a bounded read window")
		}
	}
	return id
}

// Registry returns a copy of the detectors the identifier runs.
func (id *Identifier) Registry() *Registry {
	return id.registry.Clone()
}

// IdentifySource identifies the content of src.
func (id *Identifier) IdentifySource(src ByteSource) ([]Format, error) {
	if isNilSource(src) {
		return nil, invalidArgument("identify", "source")
	}
	if !id.cacheable {
		return id.registry.identify(src, id.logger)
	}

	sum, err := Fingerprint(src, id.head, id.tail)
	if err != nil {
		return nil, err
	}
	key := id.cachePfx + fingerprintKey(sum)
	if formats, ok := id.opts.Cache.Get(key); ok {
		id.logger.Debug("identify cache hit", slog.String("key", key))
		return formats, nil
	}

	v, err, shared := id.group.Do(key, func() (any, error) {
		formats, err := id.registry.identify(src, id.logger)
		if err != nil {
			return nil, err
		}
		id.opts.Cache.Set(key, formats, id.opts.CacheTTL)
		return formats, nil
	})
	if err != nil {
		return nil, err
	}
	formats := v.([]Format)
	if shared {
		formats = slices.Clone(formats)
	}
	return formats, nil
}

// Identify identifies an in-memory buffer. A nil buffer is an invalid
// argument; an empty one simply matches nothing.
func (id *Identifier) Identify(data []byte) ([]Format, error) {
	if data == nil {
		return nil, invalidArgument("identify", "data")
	}
	return id.IdentifySource(NewBytesSource(data))
}

// IdentifyFile identifies the file at path.
func (id *Identifier) IdentifyFile(path string) ([]Format, error) {
	if strings.TrimSpace(path) == "" {
		return nil, invalidArgument("identify file", "path")
	}
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	formats, err := id.IdentifySource(src)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", path, err)
	}
	id.logger.Debug("identified file",
		slog.String("path", path),
		slog.Int("formats", len(formats)))
	return formats, nil
}

// IdentifyStream identifies the content of a seekable stream. The stream
// position is left unspecified.
func (id *Identifier) IdentifyStream(stream io.ReadSeeker) ([]Format, error) {
	if stream == nil {
		return nil, invalidArgument("identify stream", "stream")
	}
	src, err := NewStreamSource(stream)
	if err != nil {
		return nil, err
	}
	return id.IdentifySource(src)
}

// IdentifyReader identifies the content of r. Seekable readers are read in
// place; anything else is buffered in memory up to the configured limit and
// fails with ErrSourceTooLarge beyond it.
func (id *Identifier) IdentifyReader(r io.Reader) ([]Format, error) {
	if r == nil {
		return nil, invalidArgument("identify reader", "reader")
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		src, err := NewStreamSource(rs)
		if err == nil {
			return id.IdentifySource(src)
		}
		// Pipes and similar files implement Seek but cannot seek.
		id.logger.Debug("reader is not seekable, buffering", slog.Any("error", err))
	}

	limit := id.opts.MaxBufferSize
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to buffer reader: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &ArgumentError{Op: "identify reader", Arg: "reader",
			Err: fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, limit)}
	}
	return id.IdentifySource(NewBytesSource(data))
}

// Shared identifier used by the package level functions
var (
	defaultIdentifier     *Identifier
	defaultIdentifierOnce sync.Once
)

// Default returns the shared Identifier over the default registry.
func Default() *Identifier {
	defaultIdentifierOnce.Do(func() {
		defaultIdentifier = New()
	})
	return defaultIdentifier
}

// Identify identifies an in-memory buffer with the default identifier.
func Identify(data []byte) ([]Format, error) {
	return Default().Identify(data)
}

// IdentifyFile identifies a file with the default identifier.
func IdentifyFile(path string) ([]Format, error) {
	return Default().IdentifyFile(path)
}

// IdentifyStream identifies a seekable stream with the default identifier.
func IdentifyStream(stream io.ReadSeeker) ([]Format, error) {
	return Default().IdentifyStream(stream)
}

// IdentifyReader identifies a reader with the default identifier.
func IdentifyReader(r io.Reader) ([]Format, error) {
	return Default().IdentifyReader(r)
}

package filesig

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Registry holds an ordered set of detectors and aggregates their results.
//
// Registration order is significant: it is the tie-break when two formats
// carry the same confidence. Registries are meant to be populated once and
// then shared; Identify only takes a read lock.
type Registry struct {
	mu        sync.RWMutex
	detectors []Detector
	names     map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends a detector. Registering a second detector under a name
// that is already present is a no-op. A nil detector, a nil pointer to a
// detector of this package or a DetectorFunc without Fn is rejected.
func (r *Registry) Register(d Detector) error {
	if isNilDetector(d) {
		return invalidArgument("register detector", "detector")
	}
	name := strings.TrimSpace(d.Name())
	if name == "" {
		return invalidArgument("register detector", "name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[name]; ok {
		return nil
	}
	r.names[name] = struct{}{}
	r.detectors = append(r.detectors, d)
	return nil
}

// MustRegister is like Register but panics on an invalid detector.
func (r *Registry) MustRegister(d Detector) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Unregister removes the detector with the given name and reports whether
// it was present.
func (r *Registry) Unregister(name string) bool {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[name]; !ok {
		return false
	}
	delete(r.names, name)
	r.detectors = slices.DeleteFunc(r.detectors, func(d Detector) bool {
		return strings.TrimSpace(d.Name()) == name
	})
	return true
}

// Has returns true if a detector is registered under name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok
}

// Count returns the number of registered detectors
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.detectors)
}

// Detectors returns the registered detectors in registration order.
func (r *Registry) Detectors() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.detectors)
}

// Clone creates a copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for _, d := range r.Detectors() {
		clone.MustRegister(d)
	}
	return clone
}

// Extent returns the largest head and tail windows read by the registered
// detectors. ok is false when any detector is not Windowed, in which case
// the whole content may be read.
func (r *Registry) Extent() (head, tail int64, ok bool) {
	for _, d := range r.Detectors() {
		w, isWindowed := d.(Windowed)
		if !isWindowed {
			return 0, 0, false
		}
		h, t := w.Extent()
		head = max(head, h)
		tail = max(tail, t)
	}
	return head, tail, true
}

// Identify runs every detector against src and returns all detected
// formats, most confident first. Formats with equal confidence keep the
// order in which they were produced: by detector registration order, then
// by the order each detector reported them. An empty result means nothing
// was recognized.
func (r *Registry) Identify(src ByteSource) ([]Format, error) {
	return r.identify(src, discardLogger)
}

func (r *Registry) identify(src ByteSource, logger *slog.Logger) ([]Format, error) {
	if isNilSource(src) {
		return nil, invalidArgument("identify", "source")
	}

	formats := make([]Format, 0)
	for _, d := range r.Detectors() {
		found, err := d.Detect(src)
		if err != nil {
			logger.Warn("detector failed",
				slog.String("detector", d.Name()),
				slog.Any("error", err))
			return nil, fmt.Errorf("detector %s: %w", d.Name(), err)
		}
		logger.Debug("detector finished",
			slog.String("detector", d.Name()),
			slog.Int("candidates", len(found)))
		formats = append(formats, found...)
	}

	SortByConfidence(formats)
	return formats, nil
}

// SortByConfidence orders formats by descending confidence. The sort is
// stable, so equal confidences keep their relative order.
func SortByConfidence(formats []Format) {
	slices.SortStableFunc(formats, func(a, b Format) int {
		return b.confidence - a.confidence
	})
}

// DefaultRegistry returns a registry with the built-in detectors: the
// signature catalog first, then the text detector.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(NewCatalogDetector(DefaultCatalog()))
	registry.MustRegister(NewTextDetector(DefaultTextSampleSize))
	return registry
}

// SignatureOnlyRegistry returns a registry with only the signature catalog
func SignatureOnlyRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(NewCatalogDetector(DefaultCatalog()))
	return registry
}

// Global default registry (lazy initialized)
var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// GetDefaultRegistry returns the shared default registry. It must not be
// modified; Clone it to customize.
func GetDefaultRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = DefaultRegistry()
	})
	return globalRegistry
}

package filesig

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

func TestIdentifierEntryPoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}

	id := New()
	check := func(name string, formats []Format, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s error = %v", name, err)
		}
		best, ok := Best(formats)
		if !ok || best.String() != "image/png" {
			t.Errorf("%s best = %v, want image/png", name, best)
		}
	}

	formats, err := id.Identify(pngHeader)
	check("Identify", formats, err)

	formats, err = id.IdentifyFile(path)
	check("IdentifyFile", formats, err)

	formats, err = id.IdentifyStream(bytes.NewReader(pngHeader))
	check("IdentifyStream", formats, err)

	formats, err = id.IdentifyReader(io.MultiReader(bytes.NewReader(pngHeader[:4]), bytes.NewReader(pngHeader[4:])))
	check("IdentifyReader", formats, err)

	formats, err = IdentifyFile(path)
	check("package IdentifyFile", formats, err)
}

func TestIdentifierInvalidArguments(t *testing.T) {
	id := New()
	if _, err := id.Identify(nil); !IsInvalidArgument(err) {
		t.Errorf("Identify(nil) error = %v", err)
	}
	if _, err := id.IdentifySource(nil); !IsInvalidArgument(err) {
		t.Errorf("IdentifySource(nil) error = %v", err)
	}
	if _, err := id.IdentifySource((*BytesSource)(nil)); !IsInvalidArgument(err) {
		t.Errorf("IdentifySource(nil *BytesSource) error = %v", err)
	}
	if _, err := id.IdentifySource((*FileSource)(nil)); !IsInvalidArgument(err) {
		t.Errorf("IdentifySource(nil *FileSource) error = %v", err)
	}
	if _, err := id.IdentifyFile(" "); !IsInvalidArgument(err) {
		t.Errorf("IdentifyFile(blank) error = %v", err)
	}
	if _, err := id.IdentifyStream(nil); !IsInvalidArgument(err) {
		t.Errorf("IdentifyStream(nil) error = %v", err)
	}
	if _, err := id.IdentifyReader(nil); !IsInvalidArgument(err) {
		t.Errorf("IdentifyReader(nil) error = %v", err)
	}

	formats, err := id.Identify([]byte{})
	if err != nil || len(formats) != 0 {
		t.Errorf("Identify(empty) = %v, %v; want empty result", formats, err)
	}
}

func TestIdentifyFileMissing(t *testing.T) {
	_, err := New().IdentifyFile(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("IdentifyFile() error = %v, want not exist", err)
	}
}

func TestIdentifyReaderLimit(t *testing.T) {
	id := New(WithMaxBufferSize(16))

	// io.MultiReader hides Seek, forcing the buffered path.
	over := io.MultiReader(strings.NewReader(strings.Repeat("a", 17)))
	if _, err := id.IdentifyReader(over); !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("IdentifyReader() error = %v, want ErrSourceTooLarge", err)
	}

	exact := io.MultiReader(strings.NewReader(strings.Repeat("a", 16)))
	if _, err := id.IdentifyReader(exact); err != nil {
		t.Errorf("IdentifyReader() at limit error = %v", err)
	}

	// Seekable readers are not buffered and have no limit.
	seekable := strings.NewReader(strings.Repeat("a", 64))
	if _, err := id.IdentifyReader(seekable); err != nil {
		t.Errorf("IdentifyReader(seekable) error = %v", err)
	}
}

func countingRegistry(calls *atomic.Int32) *Registry {
	r := SignatureOnlyRegistry()
	r.MustRegister(windowedFunc{
		DetectorFunc: DetectorFunc{ID: "counter", Fn: func(ByteSource) ([]Format, error) {
			calls.Add(1)
			return nil, nil
		}},
	})
	return r
}

type windowedFunc struct {
	DetectorFunc
}

func (windowedFunc) Extent() (head, tail int64) { return 16, 0 }

func TestIdentifierCache(t *testing.T) {
	var calls atomic.Int32
	cache := NewMemoryCache()
	id := New(WithRegistry(countingRegistry(&calls)), WithCache(cache, 0))

	for range 3 {
		formats, err := id.Identify(pngHeader)
		if err != nil {
			t.Fatal(err)
		}
		if best, _ := Best(formats); best.Name() != "png" {
			t.Fatalf("Best() = %v", best)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("detector ran %d times, want 1", calls.Load())
	}
	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 2 hits, 1 miss, 1 entry", stats)
	}

	// Different content is a different key.
	if _, err := id.Identify([]byte("GIF89a")); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("detector ran %d times, want 2", calls.Load())
	}
}

func TestIdentifierCacheSkippedForUnboundedDetectors(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry()
	r.MustRegister(DetectorFunc{ID: "unbounded", Fn: func(ByteSource) ([]Format, error) {
		calls.Add(1)
		return nil, nil
	}})
	cache := NewMemoryCache()
	id := New(WithRegistry(r), WithCache(cache, 0))

	for range 2 {
		if _, err := id.Identify([]byte("data")); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("detector ran %d times, want 2", calls.Load())
	}
	if cache.Stats().Size != 0 {
		t.Error("cache used for a registry without bounded windows")
	}
}

func TestIdentifierCacheResultsAreIndependent(t *testing.T) {
	id := New(WithRegistry(SignatureOnlyRegistry()), WithCache(NewMemoryCache(), 0))

	first, err := id.Identify(pngHeader)
	if err != nil {
		t.Fatal(err)
	}
	first[0] = MustFormat("x", "y", "", 1, "", "")

	second, err := id.Identify(pngHeader)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Name() != "png" {
		t.Errorf("cached result was modified through a returned slice: %v", second)
	}
}

func TestIdentifierConcurrentCache(t *testing.T) {
	id := New(WithCache(NewMemoryCache(), 0))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			formats, err := id.Identify(pngHeader)
			if err != nil {
				errs <- err
				return
			}
			if best, _ := Best(formats); best.Name() != "png" {
				errs <- errors.New("unexpected result " + best.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestIdentifyShortBuffer(t *testing.T) {
	// Shorter than the offset the tar rule reads at.
	formats, err := Identify([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	var got []string
	for _, f := range formats {
		got = append(got, f.String())
	}
	want := []string{"image/png", "text/plain/cp1252"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Identify() = %v, want %v", got, want)
	}
}

func TestIdentifierKeepsRegistrySnapshot(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(staticDetector("first", MustFormat("a", "first", "", 1, "", "")))
	id := New(WithRegistry(registry))

	registry.MustRegister(staticDetector("second", MustFormat("a", "second", "", 2, "", "")))

	formats, err := id.Identify([]byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if len(formats) != 1 || formats[0].Name() != "first" {
		t.Errorf("Identify() = %v, want only the detector registered before New", formats)
	}
	if n := id.Registry().Count(); n != 1 {
		t.Errorf("Registry().Count() = %d, want 1", n)
	}

	id.Registry().MustRegister(staticDetector("third", MustFormat("a", "third", "", 3, "", "")))
	if n := id.Registry().Count(); n != 1 {
		t.Errorf("Registry().Count() after registering on the copy = %d, want 1", n)
	}
}

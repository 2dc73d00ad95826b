package filesig

import (
	"errors"
	"sync"
	"testing"
)

func staticDetector(name string, formats ...Format) DetectorFunc {
	return DetectorFunc{ID: name, Fn: func(ByteSource) ([]Format, error) {
		return formats, nil
	}}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !IsInvalidArgument(err) {
		t.Errorf("Register(nil) error = %v, want invalid argument", err)
	}
	if err := r.Register(staticDetector("  ")); !IsInvalidArgument(err) {
		t.Errorf("Register(blank) error = %v, want invalid argument", err)
	}
	nilDetectors := map[string]Detector{
		"nil catalog":     (*CatalogDetector)(nil),
		"nil text":        (*TextDetector)(nil),
		"func without fn": DetectorFunc{ID: "empty"},
	}
	for name, d := range nilDetectors {
		if err := r.Register(d); !IsInvalidArgument(err) {
			t.Errorf("Register(%s) error = %v, want invalid argument", name, err)
		}
	}
	if _, err := r.Identify((*BytesSource)(nil)); !IsInvalidArgument(err) {
		t.Errorf("Identify(nil *BytesSource) error = %v, want invalid argument", err)
	}

	first := staticDetector("dup", MustFormat("a", "first", "", 1, "", ""))
	second := staticDetector("dup", MustFormat("a", "second", "", 1, "", ""))
	if err := r.Register(first); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(second); err != nil {
		t.Fatalf("duplicate Register() error = %v, want nil", err)
	}
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}

	formats, err := r.Identify(NewBytesSource([]byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if len(formats) != 1 || formats[0].Name() != "first" {
		t.Errorf("Identify() = %v, want the first registration to win", formats)
	}

	if !r.Unregister(" dup ") {
		t.Error("Unregister() = false, want true")
	}
	if r.Unregister("dup") {
		t.Error("second Unregister() = true, want false")
	}
	if r.Has("dup") || r.Count() != 0 {
		t.Error("detector still registered after Unregister()")
	}
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(staticDetector("one",
		MustFormat("a", "low", "", 2, "", ""),
		MustFormat("a", "tie-1", "", 5, "", ""),
	))
	r.MustRegister(staticDetector("two",
		MustFormat("b", "tie-2", "", 5, "", ""),
		MustFormat("b", "high", "", 9, "", ""),
		MustFormat("b", "tie-3", "", 5, "", ""),
	))

	want := []string{"b/high", "a/tie-1", "b/tie-2", "b/tie-3", "a/low"}
	for range 20 {
		formats, err := r.Identify(NewBytesSource([]byte{}))
		if err != nil {
			t.Fatal(err)
		}
		if len(formats) != len(want) {
			t.Fatalf("Identify() = %v", formats)
		}
		for i, f := range formats {
			if f.String() != want[i] {
				t.Fatalf("Identify()[%d] = %s, want %s (got %v)", i, f, want[i], formats)
			}
		}
	}
}

func TestRegistryDetectorError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.MustRegister(DetectorFunc{ID: "broken", Fn: func(ByteSource) ([]Format, error) {
		return nil, boom
	}})

	_, err := r.Identify(NewBytesSource([]byte("x")))
	if !errors.Is(err, boom) {
		t.Errorf("Identify() error = %v, want wrapped detector error", err)
	}
	if _, err := r.Identify(nil); !IsInvalidArgument(err) {
		t.Errorf("Identify(nil) error = %v, want invalid argument", err)
	}
}

func TestRegistryEmptyResultIsNotNil(t *testing.T) {
	formats, err := NewRegistry().Identify(NewBytesSource([]byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if formats == nil || len(formats) != 0 {
		t.Errorf("Identify() = %#v, want empty non-nil slice", formats)
	}
}

func TestRegistryExtent(t *testing.T) {
	r := DefaultRegistry()
	head, tail, ok := r.Extent()
	if !ok {
		t.Fatal("Extent() ok = false for built-in detectors")
	}
	catalogHead, catalogTail := DefaultCatalog().Extent()
	if head != max(catalogHead, DefaultTextSampleSize) || tail != catalogTail {
		t.Errorf("Extent() = (%d, %d), want (%d, %d)", head, tail, max(catalogHead, DefaultTextSampleSize), catalogTail)
	}

	r.MustRegister(staticDetector("unbounded"))
	if _, _, ok := r.Extent(); ok {
		t.Error("Extent() ok = true with an unbounded detector")
	}
}

func TestRegistryClone(t *testing.T) {
	base := DefaultRegistry()
	clone := base.Clone()
	clone.Unregister(TextDetectorName)
	if !base.Has(TextDetectorName) {
		t.Error("Unregister on clone modified the original")
	}
	if clone.Count() != base.Count()-1 {
		t.Errorf("clone Count() = %d", clone.Count())
	}
}

func TestDefaultRegistryIdentify(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		best string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"xml", []byte(`<?xml version="1.0"?><a/>`), "text/xml/utf-8"},
		{"zip", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), "archive/zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formats, err := GetDefaultRegistry().Identify(NewBytesSource(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			best, ok := Best(formats)
			if !ok || best.String() != tt.best {
				t.Errorf("Best() = %v, want %s (all: %v)", best, tt.best, formats)
			}
		})
	}
}

func TestPNGAlsoReadsAsSingleByteText(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	formats, err := DefaultRegistry().Identify(NewBytesSource(png))
	if err != nil {
		t.Fatal(err)
	}
	if len(formats) != 2 {
		t.Fatalf("Identify() = %v, want png and text", formats)
	}
	if formats[0].String() != "image/png" || formats[0].Confidence() != 8 {
		t.Errorf("formats[0] = %v", formats[0])
	}
	if formats[1].String() != "text/plain/"+EncodingCP1252 || formats[1].Confidence() != 7 {
		t.Errorf("formats[1] = %v (confidence %d)", formats[1], formats[1].Confidence())
	}
}

func TestRegistryConcurrentIdentify(t *testing.T) {
	r := DefaultRegistry()
	data := []byte("GIF89a\x01\x00\x01\x00")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			formats, err := r.Identify(NewBytesSource(data))
			if err != nil {
				errs <- err
				return
			}
			if best, _ := Best(formats); best.Name() != "gif" {
				errs <- errors.New("unexpected best format " + best.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

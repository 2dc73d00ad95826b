package filesig

import (
	"bytes"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) == 0 {
		t.Fatal("default catalog is empty")
	}
	if err := catalog.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestCatalogValidateRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"no identity", Rule{Confidence: 1, Checks: At(0, Text("a"))}},
		{"no confidence", Rule{Category: "x", Name: "y", Checks: At(0, Text("a"))}},
		{"no checks", Rule{Category: "x", Name: "y", Confidence: 1}},
		{"empty pattern", Rule{Category: "x", Name: "y", Confidence: 1, Checks: At(0, nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (Catalog{tt.rule}).Validate(); !IsInvalidArgument(err) {
				t.Errorf("Validate() error = %v, want invalid argument", err)
			}
		})
	}
}

func detectCatalog(t *testing.T, data []byte) []Format {
	t.Helper()
	formats, err := NewCatalogDetector(nil).Detect(NewBytesSource(data))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	return formats
}

func hasFormat(formats []Format, id string, confidence int) bool {
	for _, f := range formats {
		if f.String() == id && f.Confidence() == confidence {
			return true
		}
	}
	return false
}

func TestCatalogSignatures(t *testing.T) {
	tarHeader := make([]byte, 512)
	copy(tarHeader, "file.txt")
	copy(tarHeader[257:], "ustar\x0000")

	tests := []struct {
		name       string
		data       []byte
		id         string
		confidence int
	}{
		{"zip", []byte("PK\x03\x04\x14\x00\x00\x00"), "archive/zip", 4},
		{"gzip", []byte{0x1F, 0x8B, 0x08, 0x00}, "archive/gzip", 2},
		{"7z", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0x00, 0x04}, "archive/7z", 6},
		{"bzip2 with block size wildcard", []byte("BZh9\x31\x41\x59\x26\x53\x59"), "archive/bzip/2", 9},
		{"rar5", []byte("Rar!\x1a\x07\x01\x00"), "archive/rar/5", 8},
		{"tar at 257", tarHeader, "archive/tar/posix", 5},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png", 8},
		{"gif89a", []byte("GIF89a\x01\x00"), "image/gif", 6},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg", 2},
		{"pcx 2.8 byte set", []byte{0x0A, 0x03, 0x01}, "image/pcx/2.8", 2},
		{"wave", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), "audio/wave", 8},
		{"pdf", []byte("%PDF-1.4\n"), "document/pdf", 5},
		{"elf", []byte{0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01}, "executable/elf", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formats := detectCatalog(t, tt.data)
			if !hasFormat(formats, tt.id, tt.confidence) {
				t.Errorf("Detect() = %v, want %s with confidence %d", formats, tt.id, tt.confidence)
			}
		})
	}
}

func TestCatalogZipWithEndRecord(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("PK\x03\x04")
	buf.Write(make([]byte, 40))
	eocd := make([]byte, 22)
	copy(eocd, "PK\x05\x06")
	buf.Write(eocd)

	formats := detectCatalog(t, buf.Bytes())
	if !hasFormat(formats, "archive/zip", 4) || !hasFormat(formats, "archive/zip", 8) {
		t.Fatalf("Detect() = %v, want both zip rules", formats)
	}
}

func TestCatalogJPEGTrailer(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0xFF, 0xD9}
	formats := detectCatalog(t, data)
	if !hasFormat(formats, "image/jpeg", 5) {
		t.Errorf("Detect() = %v, want jpeg with trailer", formats)
	}

	truncated := detectCatalog(t, data[:6])
	if hasFormat(truncated, "image/jpeg", 5) {
		t.Errorf("Detect() = %v, trailer rule must not match without FFD9", truncated)
	}
}

func TestCatalogNoMatch(t *testing.T) {
	if formats := detectCatalog(t, []byte{}); len(formats) != 0 {
		t.Errorf("Detect(empty) = %v, want none", formats)
	}
	if formats := detectCatalog(t, []byte("just some words")); len(formats) != 0 {
		t.Errorf("Detect(text) = %v, want none", formats)
	}
}

func TestCatalogEvaluateStopsEarly(t *testing.T) {
	data := []byte("PK\x03\x04")
	count := 0
	for _, err := range DefaultCatalog().Evaluate(NewBytesSource(data)) {
		if err != nil {
			t.Fatal(err)
		}
		count++
		break
	}
	if count != 1 {
		t.Errorf("got %d formats before break, want 1", count)
	}
}

func TestCatalogExtent(t *testing.T) {
	catalog := Catalog{
		{Category: "a", Name: "head", Confidence: 1, Checks: At(257, Text("ustar"))},
		{Category: "a", Name: "tail", Confidence: 1, Checks: At(-22, Text("PK\x05\x06"))},
	}
	head, tail := catalog.Extent()
	if head != 262 || tail != 22 {
		t.Errorf("Extent() = (%d, %d), want (262, 22)", head, tail)
	}
}

func TestCatalogClone(t *testing.T) {
	clone := DefaultCatalog().Clone()
	clone = append(clone, Rule{Category: "database", Name: "sqlite", Confidence: 16,
		Checks: At(0, Text("SQLite format 3\x00"))})
	if len(clone) != len(DefaultCatalog())+1 {
		t.Fatal("Clone() did not produce an independent catalog")
	}
	formats, err := NewCatalogDetector(clone).Detect(NewBytesSource([]byte("SQLite format 3\x00....")))
	if err != nil {
		t.Fatal(err)
	}
	if !hasFormat(formats, "database/sqlite", 16) {
		t.Errorf("Detect() = %v, want sqlite", formats)
	}
}

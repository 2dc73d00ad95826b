package filesig

import (
	"encoding/json"
	"strings"
)

// Format is the result of a successful detection: what the content is and
// how strongly the detector believes it.
//
// A Format is an immutable value. Construct it with NewFormat so that the
// category, name and confidence invariants hold; the zero value is not a
// valid Format.
type Format struct {
	category   string
	name       string
	version    string
	confidence int
	mimeType   string
	extension  string
}

// NewFormat creates a Format. All string fields are trimmed. Category and
// name must be non-blank and confidence must be greater than zero.
func NewFormat(category, name, version string, confidence int, mimeType, extension string) (Format, error) {
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	if category == "" {
		return Format{}, invalidArgument("new format", "category")
	}
	if name == "" {
		return Format{}, invalidArgument("new format", "name")
	}
	if confidence <= 0 {
		return Format{}, invalidArgument("new format", "confidence")
	}

	return Format{
		category:   category,
		name:       name,
		version:    strings.TrimSpace(version),
		confidence: confidence,
		mimeType:   strings.TrimSpace(mimeType),
		extension:  strings.TrimSpace(extension),
	}, nil
}

// MustFormat is like NewFormat but panics on invalid input. It is meant for
// static tables whose values are known to be valid.
func MustFormat(category, name, version string, confidence int, mimeType, extension string) Format {
	f, err := NewFormat(category, name, version, confidence, mimeType, extension)
	if err != nil {
		panic(err)
	}
	return f
}

// Category returns the broad family, e.g. "archive" or "image".
func (f Format) Category() string { return f.category }

// Name returns the format name within its category.
func (f Format) Name() string { return f.name }

// Version returns the format variant, or "" when there is none.
func (f Format) Version() string { return f.version }

// Confidence returns the number of bytes that contributed to the match.
func (f Format) Confidence() int { return f.confidence }

// MIMEType returns the MIME type, or "" when unknown.
func (f Format) MIMEType() string { return f.mimeType }

// Extension returns the conventional file extension including the leading
// dot, or "" when unknown.
func (f Format) Extension() string { return f.extension }

// IsZero reports whether f is the zero Format.
func (f Format) IsZero() bool { return f == Format{} }

// Identity returns the confidence-free identity of f.
func (f Format) Identity() Identity {
	return Identity{Category: f.category, Name: f.name, Version: f.version}
}

// String renders "category/name/version", or "category/name" when the
// version is empty.
func (f Format) String() string {
	return f.Identity().String()
}

// Equal reports whether all fields of f and other are equal, confidence
// included.
func (f Format) Equal(other Format) bool {
	return f == other
}

// SameFormat reports whether a and b describe the same logical format. All
// fields except confidence take part in the comparison.
func SameFormat(a, b Format) bool {
	return a.category == b.category &&
		a.name == b.name &&
		a.version == b.version &&
		a.mimeType == b.mimeType &&
		a.extension == b.extension
}

// Combine merges two detections of the same format into one whose
// confidence is the sum of both. It fails with ErrFormatMismatch when a and
// b are not the same format.
func Combine(a, b Format) (Format, error) {
	if !SameFormat(a, b) {
		return Format{}, &ArgumentError{Op: "combine", Arg: a.String() + " + " + b.String(), Err: ErrFormatMismatch}
	}
	combined := a
	combined.confidence = a.confidence + b.confidence
	return combined, nil
}

// WithConfidence returns a copy of f carrying the given confidence.
func (f Format) WithConfidence(confidence int) (Format, error) {
	if confidence <= 0 {
		return Format{}, invalidArgument("with confidence", "confidence")
	}
	f.confidence = confidence
	return f, nil
}

type formatJSON struct {
	Category   string `json:"category"`
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Confidence int    `json:"confidence"`
	MIMEType   string `json:"mime_type,omitempty"`
	Extension  string `json:"extension,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(formatJSON{
		Category:   f.category,
		Name:       f.name,
		Version:    f.version,
		Confidence: f.confidence,
		MIMEType:   f.mimeType,
		Extension:  f.extension,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded value is checked
// with the same rules as NewFormat.
func (f *Format) UnmarshalJSON(data []byte) error {
	var raw formatJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewFormat(raw.Category, raw.Name, raw.Version, raw.Confidence, raw.MIMEType, raw.Extension)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Identity names a format without any match strength attached.
type Identity struct {
	Category string
	Name     string
	Version  string
}

// String renders "category/name/version", or "category/name" when the
// version is empty.
func (i Identity) String() string {
	if i.Version != "" {
		return i.Category + "/" + i.Name + "/" + i.Version
	}
	return i.Category + "/" + i.Name
}

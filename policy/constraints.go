package policy

// Size constants for easier size configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Type patterns accepted by Constraints. A pattern is an exact MIME type
// ("image/png"), a format identity ("archive/zip", "text/plain/utf-8"), a
// group ("image/*") matching a MIME type prefix or a format category, or
// AllowAll.
const (
	AllowAllImages      = "image/*"
	AllowAllDocuments   = "document/*"
	AllowAllAudio       = "audio/*"
	AllowAllVideo       = "video/*"
	AllowAllText        = "text/*"
	AllowAllArchives    = "archive/*"
	AllowAllExecutables = "executable/*"
	AllowAll            = "*/*"
)

// Constraints defines what content a Policy accepts
type Constraints struct {
	// MaxFileSize is the maximum allowed size in bytes. Zero disables the check.
	MaxFileSize int64

	// MinFileSize is the minimum allowed size in bytes. Zero disables the check.
	MinFileSize int64

	// AcceptedTypes lists the patterns the most confident format must match.
	// Empty accepts everything that is not blocked.
	AcceptedTypes []string

	// BlockedTypes lists patterns that no detected format may match, at any
	// confidence. This catches content that is both, say, an executable
	// and plausible text.
	BlockedTypes []string

	// MinConfidence is the confidence the most confident format must reach.
	MinConfidence int

	// RequireKnownFormat rejects content that nothing recognized.
	RequireKnownFormat bool

	// StrictExtension requires the file extension to agree with the most
	// confident format.
	StrictExtension bool
}

// DefaultConstraints blocks native executables and requires recognizable
// content of at most 100MB.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxFileSize:        100 * MB,
		MinFileSize:        1,
		BlockedTypes:       []string{AllowAllExecutables},
		RequireKnownFormat: true,
	}
}

// ImageOnlyConstraints accepts images whose extension matches their content
func ImageOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.AcceptedTypes = []string{AllowAllImages}
	c.MaxFileSize = 20 * MB
	c.StrictExtension = true
	return c
}

// DocumentOnlyConstraints accepts documents and text
func DocumentOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.AcceptedTypes = []string{AllowAllDocuments, AllowAllText}
	return c
}

// MediaOnlyConstraints accepts audio and video
func MediaOnlyConstraints() Constraints {
	c := DefaultConstraints()
	c.AcceptedTypes = []string{AllowAllAudio, AllowAllVideo}
	c.MaxFileSize = 2 * GB
	return c
}

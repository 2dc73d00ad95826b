// Package policy decides whether identified content is acceptable, for
// example before accepting an upload or while auditing a directory.
package policy

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobeaver/filesig"
)

// Policy checks identification results against Constraints
type Policy struct {
	constraints Constraints
}

// New creates a policy with the given constraints
func New(constraints Constraints) *Policy {
	return &Policy{constraints: constraints}
}

// NewDefault creates a policy with DefaultConstraints
func NewDefault() *Policy {
	return New(DefaultConstraints())
}

// Constraints returns the policy constraints
func (p *Policy) Constraints() Constraints {
	return p.constraints
}

// Check validates the identification result of a file named name holding
// size bytes. formats must be sorted by confidence, as returned by an
// Identifier. A negative size skips the size checks.
func (p *Policy) Check(name string, size int64, formats []filesig.Format) error {
	c := p.constraints

	if size >= 0 {
		if c.MaxFileSize > 0 && size > c.MaxFileSize {
			return NewViolationError(ViolationSize, fmt.Sprintf("file size too big: %d bytes (max: %d bytes)", size, c.MaxFileSize))
		}
		if c.MinFileSize > 0 && size < c.MinFileSize {
			return NewViolationError(ViolationSize, fmt.Sprintf("file size too small: %d bytes (min: %d bytes)", size, c.MinFileSize))
		}
	}

	for _, f := range formats {
		if pattern, ok := matchAny(c.BlockedTypes, f); ok {
			return NewViolationError(ViolationFormat, fmt.Sprintf("format %s is blocked by %s", f, pattern))
		}
	}

	best, ok := filesig.Best(formats)
	if !ok {
		if c.RequireKnownFormat || len(c.AcceptedTypes) > 0 {
			return NewViolationError(ViolationContent, "content format not recognized")
		}
		return nil
	}
	if c.MinConfidence > 0 && best.Confidence() < c.MinConfidence {
		return NewViolationError(ViolationContent,
			fmt.Sprintf("format %s identified with confidence %d (min: %d)", best, best.Confidence(), c.MinConfidence))
	}

	if len(c.AcceptedTypes) > 0 {
		if _, ok := matchAny(c.AcceptedTypes, best); !ok {
			return NewViolationError(ViolationFormat,
				fmt.Sprintf("format %s is not accepted; allowed types: %v", best, c.AcceptedTypes))
		}
	}

	if c.StrictExtension {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			return NewViolationError(ViolationExtension, "file must have an extension")
		}
		if !filesig.ExtensionMatches(name, best) {
			return NewViolationError(ViolationExtension,
				fmt.Sprintf("extension %s does not match detected format %s (%s)", ext, best, filesig.DefaultExtension(best)))
		}
	}

	return nil
}

// CheckFile identifies the file at path with id and checks the result.
func (p *Policy) CheckFile(id *filesig.Identifier, path string) error {
	src, err := filesig.OpenFile(path)
	if err != nil {
		return err
	}
	defer src.Close()

	formats, err := id.IdentifySource(src)
	if err != nil {
		return err
	}
	return p.Check(path, src.Len(), formats)
}

// CheckBytes identifies content with id and checks the result.
func (p *Policy) CheckBytes(id *filesig.Identifier, name string, content []byte) error {
	formats, err := id.Identify(content)
	if err != nil {
		return err
	}
	return p.Check(name, int64(len(content)), formats)
}

// Matches reports whether f satisfies a single type pattern.
func Matches(pattern string, f filesig.Format) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return false
	}
	if pattern == AllowAll {
		return true
	}
	if group, ok := strings.CutSuffix(pattern, "/*"); ok {
		return f.Category() == group || strings.HasPrefix(f.MIMEType(), group+"/")
	}
	return pattern == f.MIMEType() || pattern == f.String() || pattern == f.Category()+"/"+f.Name()
}

func matchAny(patterns []string, f filesig.Format) (string, bool) {
	for _, pattern := range patterns {
		if Matches(pattern, f) {
			return pattern, true
		}
	}
	return "", false
}

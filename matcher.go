package filesig

import (
	"bytes"
	"fmt"
	"strings"
)

type matcherKind uint8

const (
	matchExact matcherKind = iota
	matchAny
	matchSet
)

// ByteMatcher accepts or rejects a single byte. It is either an exact
// value, a wildcard, or a set of acceptable values.
type ByteMatcher struct {
	kind  matcherKind
	value byte
	set   []byte
}

// Exact matches b only.
func Exact(b byte) ByteMatcher {
	return ByteMatcher{kind: matchExact, value: b}
}

// Any matches every byte.
func Any() ByteMatcher {
	return ByteMatcher{kind: matchAny}
}

// OneOf matches any of values.
func OneOf(values ...byte) ByteMatcher {
	set := make([]byte, len(values))
	copy(set, values)
	return ByteMatcher{kind: matchSet, set: set}
}

// Accepts reports whether b satisfies the matcher.
func (m ByteMatcher) Accepts(b byte) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchSet:
		return bytes.IndexByte(m.set, b) >= 0
	default:
		return m.value == b
	}
}

// IsWildcard reports whether m accepts every byte.
func (m ByteMatcher) IsWildcard() bool {
	return m.kind == matchAny
}

// String renders the matcher as hex: "4B", "??" or "[0A|0D]".
func (m ByteMatcher) String() string {
	switch m.kind {
	case matchAny:
		return "??"
	case matchSet:
		parts := make([]string, len(m.set))
		for i, b := range m.set {
			parts[i] = fmt.Sprintf("%02X", b)
		}
		return "[" + strings.Join(parts, "|") + "]"
	default:
		return fmt.Sprintf("%02X", m.value)
	}
}

// Pattern is an ordered run of byte matchers compared against consecutive
// bytes of a source.
type Pattern []ByteMatcher

// Bytes builds a pattern of exact matchers.
func Bytes(values ...byte) Pattern {
	p := make(Pattern, len(values))
	for i, b := range values {
		p[i] = Exact(b)
	}
	return p
}

// Text builds a pattern of exact matchers from the bytes of s.
func Text(s string) Pattern {
	return Bytes([]byte(s)...)
}

// Wild builds a pattern of n wildcards.
func Wild(n int) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = Any()
	}
	return p
}

// Seq concatenates matchers and patterns into one pattern. Arguments must
// be ByteMatcher or Pattern values.
func Seq(parts ...any) Pattern {
	var p Pattern
	for _, part := range parts {
		switch v := part.(type) {
		case ByteMatcher:
			p = append(p, v)
		case Pattern:
			p = append(p, v...)
		default:
			panic(fmt.Sprintf("filesig: Seq argument of type %T", part))
		}
	}
	return p
}

// String renders the pattern as space separated matchers.
func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// resolveOffset turns an end-anchored offset into an absolute one, clamped
// to the start of the content.
func resolveOffset(size, offset int64) int64 {
	if offset < 0 {
		offset += size
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Match reports whether the bytes of src at offset satisfy pattern. A
// negative offset is counted back from the end of the content. Content too
// short to hold the whole pattern never matches.
func Match(src ByteSource, offset int64, pattern Pattern) (bool, error) {
	at := resolveOffset(src.Len(), offset)
	window, err := src.Read(at, len(pattern))
	if err != nil {
		return false, err
	}
	if len(window) != len(pattern) {
		return false, nil
	}
	for i, m := range pattern {
		if !m.Accepts(window[i]) {
			return false, nil
		}
	}
	return true, nil
}

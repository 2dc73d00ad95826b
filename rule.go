package filesig

import (
	"fmt"
	"iter"
	"strings"
)

// Check is one pattern anchored at an offset. A negative offset is counted
// back from the end of the content.
type Check struct {
	Offset  int64
	Pattern Pattern
}

// Rule maps one or more checks to a format. All checks must match for the
// rule to be satisfied. Confidence is stated per rule and is usually the
// number of non-wildcard bytes across all checks.
type Rule struct {
	Category   string
	Name       string
	Version    string
	MIMEType   string
	Extension  string
	Confidence int
	Checks     []Check
}

// At is shorthand for a single-check list at offset.
func At(offset int64, pattern Pattern) []Check {
	return []Check{{Offset: offset, Pattern: pattern}}
}

// Validate reports whether the rule is well formed.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Category) == "" || strings.TrimSpace(r.Name) == "" {
		return invalidArgument("validate rule", "identity")
	}
	if r.Confidence <= 0 {
		return invalidArgument("validate rule "+r.ID(), "confidence")
	}
	if len(r.Checks) == 0 {
		return invalidArgument("validate rule "+r.ID(), "checks")
	}
	for i, c := range r.Checks {
		if len(c.Pattern) == 0 {
			return invalidArgument("validate rule "+r.ID(), fmt.Sprintf("checks[%d].pattern", i))
		}
	}
	return nil
}

// ID renders the identity of the rule, as Format.String would.
func (r Rule) ID() string {
	return Identity{Category: r.Category, Name: r.Name, Version: r.Version}.String()
}

// Format builds the Format the rule yields when satisfied.
func (r Rule) Format() (Format, error) {
	return NewFormat(r.Category, r.Name, r.Version, r.Confidence, r.MIMEType, r.Extension)
}

// Matches reports whether every check of the rule matches src.
func (r Rule) Matches(src ByteSource) (bool, error) {
	for _, c := range r.Checks {
		ok, err := Match(src, c.Offset, c.Pattern)
		if err != nil || !ok {
			return false, err
		}
	}
	return len(r.Checks) > 0, nil
}

// Extent returns how many bytes from the start (head) and from the end
// (tail) of the content the rule can read.
func (r Rule) Extent() (head, tail int64) {
	for _, c := range r.Checks {
		n := int64(len(c.Pattern))
		if c.Offset < 0 {
			// A clamped read starts at 0 and can run n bytes into the head.
			tail = max(tail, -c.Offset)
			head = max(head, n)
			continue
		}
		head = max(head, c.Offset+n)
	}
	return head, tail
}

// Catalog is an ordered table of rules. Order only fixes the order of
// evaluation; it carries no priority.
type Catalog []Rule

// Validate checks every rule of the catalog.
func (c Catalog) Validate() error {
	for i, r := range c {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return nil
}

// Evaluate lazily yields the format of every rule that src satisfies, in
// catalog order. A read error is yielded once and ends the sequence.
func (c Catalog) Evaluate(src ByteSource) iter.Seq2[Format, error] {
	return func(yield func(Format, error) bool) {
		for _, r := range c {
			ok, err := r.Matches(src)
			if err != nil {
				yield(Format{}, fmt.Errorf("rule %s: %w", r.ID(), err))
				return
			}
			if !ok {
				continue
			}
			f, err := r.Format()
			if err != nil {
				yield(Format{}, err)
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Extent returns the largest head and tail windows read by any rule.
func (c Catalog) Extent() (head, tail int64) {
	for _, r := range c {
		h, t := r.Extent()
		head = max(head, h)
		tail = max(tail, t)
	}
	return head, tail
}

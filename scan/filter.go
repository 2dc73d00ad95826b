package scan

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects files by glob patterns on their slash-separated path
// relative to the scan root. Patterns without a slash are matched against
// the base name only, so "*.bin" selects files at any depth.
type Filter struct {
	include     glob.Glob
	exclude     glob.Glob
	includeBase bool
	excludeBase bool
}

// NewFilter compiles include and exclude patterns. An empty include selects
// everything; an empty exclude rejects nothing.
func NewFilter(include, exclude string) (*Filter, error) {
	f := &Filter{}
	var err error
	if include = strings.TrimSpace(include); include != "" {
		if f.include, err = glob.Compile(include, '/'); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
		f.includeBase = !strings.Contains(include, "/")
	}
	if exclude = strings.TrimSpace(exclude); exclude != "" {
		if f.exclude, err = glob.Compile(exclude, '/'); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
		f.excludeBase = !strings.Contains(exclude, "/")
	}
	return f, nil
}

// Match reports whether the file at rel passes the filter.
func (f *Filter) Match(rel string) bool {
	if f == nil {
		return true
	}
	if f.exclude != nil && matchGlob(f.exclude, f.excludeBase, rel) {
		return false
	}
	if f.include != nil {
		return matchGlob(f.include, f.includeBase, rel)
	}
	return true
}

func matchGlob(g glob.Glob, baseOnly bool, rel string) bool {
	if baseOnly {
		return g.Match(path.Base(rel))
	}
	return g.Match(rel)
}

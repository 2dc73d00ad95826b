// Package scan identifies the files of a directory tree, either once by
// walking it or continuously by watching it for changes.
package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobeaver/filesig"
)

const (
	// DefaultWorkers is the number of files identified concurrently.
	DefaultWorkers = 4

	// DefaultDebounce coalesces the bursts of write events a single save
	// produces.
	DefaultDebounce = 100 * time.Millisecond
)

// Options configures Walk and Watch
type Options struct {
	// Include and Exclude are glob patterns, see Filter.
	Include string
	Exclude string

	// Workers bounds concurrent identification. Zero selects DefaultWorkers.
	Workers int

	// Recursive makes Watch follow subdirectories, including ones created
	// while watching. Walk always descends.
	Recursive bool

	// Debounce is how long Watch waits after the last event on a file
	// before identifying it. Zero selects DefaultDebounce.
	Debounce time.Duration

	// Identifier runs the detectors. Nil selects filesig.Default().
	Identifier *filesig.Identifier

	// Logger receives walk and watch diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Identifier == nil {
		o.Identifier = filesig.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result is the identification of one file.
type Result struct {
	// Path is the file path as found under the root.
	Path string
	// Rel is Path relative to the root, slash separated.
	Rel  string
	Size int64
	// Formats is nil when Err is set.
	Formats []filesig.Format
	Err     error
}

// Best returns the most confident format, if any.
func (r Result) Best() (filesig.Format, bool) {
	return filesig.Best(r.Formats)
}

// ExtensionMismatch reports whether the file was recognized but its
// extension contradicts the most confident format.
func (r Result) ExtensionMismatch() bool {
	best, ok := r.Best()
	if !ok || filepath.Ext(r.Path) == "" {
		return false
	}
	return !filesig.ExtensionMatches(r.Path, best)
}

func identifyPath(id *filesig.Identifier, root, path string) Result {
	res := Result{Path: path, Rel: relPath(root, path)}
	if info, err := os.Stat(path); err == nil {
		res.Size = info.Size()
	}
	res.Formats, res.Err = id.IdentifyFile(path)
	return res
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fsWatcher is the part of fsnotify.Watcher that Watch uses.
type fsWatcher interface {
	Add(path string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsnotifyWatcher struct {
	w *fsnotify.Watcher
}

func (f fsnotifyWatcher) Add(path string) error         { return f.w.Add(path) }
func (f fsnotifyWatcher) Close() error                  { return f.w.Close() }
func (f fsnotifyWatcher) Events() <-chan fsnotify.Event { return f.w.Events }
func (f fsnotifyWatcher) Errors() <-chan error          { return f.w.Errors }

// newWatcher is replaced in tests.
var newWatcher = func() (fsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return fsnotifyWatcher{w: w}, nil
}

// Watch identifies files under dir as they are created or written, until
// ctx is done. Events on one file are coalesced for opts.Debounce before it
// is identified. fn is called from the calling goroutine; an error it
// returns stops the watch and is returned. Watch returns nil when ctx is
// canceled.
func Watch(ctx context.Context, dir string, opts Options, fn func(Result) error) error {
	opts = opts.withDefaults()
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "watch", Path: dir, Err: errors.New("not a directory")}
	}

	watcher, err := newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirs(watcher, dir, opts); err != nil {
		return err
	}
	opts.Logger.Info("watching directory",
		slog.String("dir", dir),
		slog.Bool("recursive", opts.Recursive))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(opts.Debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				// Removed again before we got to it.
				continue
			}
			if info.IsDir() {
				if event.Has(fsnotify.Create) && opts.Recursive {
					if err := addDirs(watcher, event.Name, opts); err != nil {
						opts.Logger.Warn("failed to watch new directory",
							slog.String("dir", event.Name),
							slog.Any("error", err))
					}
				}
				continue
			}
			if !info.Mode().IsRegular() || !filter.Match(relPath(dir, event.Name)) {
				continue
			}
			pending[event.Name] = time.Now().Add(opts.Debounce)

		case err, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			// Log error but continue watching
			opts.Logger.Warn("watch error", slog.Any("error", err))

		case now := <-ticker.C:
			for _, path := range duePaths(pending, now) {
				delete(pending, path)
				if err := fn(identifyPath(opts.Identifier, dir, path)); err != nil {
					return err
				}
			}
		}
	}
}

// duePaths returns the pending paths whose quiet period has passed, sorted
// so that results are delivered in a stable order.
func duePaths(pending map[string]time.Time, now time.Time) []string {
	var due []string
	for path, deadline := range pending {
		if !now.Before(deadline) {
			due = append(due, path)
		}
	}
	slices.Sort(due)
	return due
}

func addDirs(w fsWatcher, dir string, opts Options) error {
	if !opts.Recursive {
		return w.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			opts.Logger.Warn("skipping unreadable directory",
				slog.String("dir", path),
				slog.Any("error", err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}

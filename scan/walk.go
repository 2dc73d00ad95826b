package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const walkBatch = 64

// Walk identifies every regular file under root that passes the filter.
// Files are identified concurrently in batches; fn is called from the
// calling goroutine, in walk order. A per-file failure is reported in
// Result.Err and does not stop the walk. An error returned by fn stops it
// and is returned.
func Walk(ctx context.Context, root string, opts Options, fn func(Result) error) error {
	opts = opts.withDefaults()
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return err
	}

	batch := make([]string, 0, walkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results, err := identifyBatch(ctx, opts, root, batch)
		batch = batch[:0]
		if err != nil {
			return err
		}
		for _, res := range results {
			if err := fn(res); err != nil {
				return err
			}
		}
		return nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			opts.Logger.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.Any("error", err))
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !filter.Match(relPath(root, path)) {
			return nil
		}
		batch = append(batch, path)
		if len(batch) == walkBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func identifyBatch(ctx context.Context, opts Options, root string, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = identifyPath(opts.Identifier, root, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package gw

import (
	"context"
	"runtime"

	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/dhamidi/geneweb/gw/parser"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of parsing one file of a batch.
type FileResult struct {
	Path      string
	Genealogy *Genealogy
	Collector *diag.Collector
	Err       error
}

// ParseFiles parses independent files with at most workers running at once
// (GOMAXPROCS when workers <= 0). Results are in the order of paths; a
// failure in one file does not stop the others. All parses share one
// pattern cache. The error is non-nil only when ctx is done.
func ParseFiles(ctx context.Context, paths []string, opts Options, workers int) ([]FileResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if opts.PatternCache == nil {
		opts.PatternCache = parser.NewPatternCache()
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fo := opts
			fo.Filename = ""
			gen, c, err := parseFile(gctx, path, fo)
			results[i] = FileResult{Path: path, Genealogy: gen, Collector: c, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

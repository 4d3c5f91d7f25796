package pipeline

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/cache"
	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
	"github.com/matzehuels/topowidth/pkg/observability"
	"github.com/matzehuels/topowidth/pkg/pace"
	"github.com/matzehuels/topowidth/pkg/solver"
)

// Runner holds the pieces an analysis needs. It is stateless except for
// the cache and logger - it doesn't store results, so multiple goroutines
// can safely share one Runner.
type Runner struct {
	Solver *solver.Runner
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner around the given solver.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(s *solver.Runner, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Solver: s,
		Cache:  c,
		Logger: logger,
	}
}

// Analyze runs the encode, solve, decode, and validate stages for one
// graph. A validation failure does not produce an error: the Result's
// Report says what went wrong, and deciding whether to abort is left to
// the caller.
func Analyze[ID cmp.Ordered](ctx context.Context, r *Runner, g *graph.Graph[ID], opts Options) (*Result[ID], error) {
	start := time.Now()

	input, idx := pace.Encode(g)
	key := cache.SolveKey(r.Solver.Path, input)

	result := &Result[ID]{}
	result.Stats.NodeCount = idx.Len()
	result.Stats.EdgeCount = len(g.Edges())

	r.Logger.Debug("encoded instance",
		"graph", g.Name(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"bytes", len(input))

	output, hit := r.lookup(ctx, key, opts)
	result.CacheHit = hit
	if hit {
		observability.Cache().OnCacheHit(ctx)
	} else {
		observability.Cache().OnCacheMiss(ctx)
	}

	var d *decomp.Decomposition[ID]
	if hit {
		var err error
		d, err = pace.Decode(bytes.NewReader(output), idx, g.Name(), r.Logger)
		if err != nil {
			// A cached entry that no longer decodes (solver changed, file
			// damage) is dropped and recomputed instead of failing the run.
			r.Logger.Warn("discarding undecodable cache entry", "graph", g.Name(), "err", err)
			_ = r.Cache.Delete(ctx, key)
			result.CacheHit = false
			hit = false
		}
	}

	if !hit {
		observability.Solve().OnSolveStart(ctx, g.Name(), result.Stats.NodeCount, result.Stats.EdgeCount)
		solveStart := time.Now()
		out, err := r.Solver.Solve(ctx, input)
		result.Stats.SolveTime = time.Since(solveStart)
		observability.Solve().OnSolveComplete(ctx, g.Name(), result.Stats.SolveTime, err)
		if err != nil {
			return nil, fmt.Errorf("solve %s: %w", g.Name(), err)
		}
		output = out

		if err := r.Cache.Set(ctx, key, output, opts.TTL); err != nil {
			r.Logger.Warn("cannot cache solver output", "graph", g.Name(), "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, len(output))
		}

		d, err = pace.Decode(bytes.NewReader(output), idx, g.Name(), r.Logger)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", g.Name(), err)
		}
	}

	result.Decomposition = d
	result.Stats.BagCount = d.BagCount()

	result.Width = -1
	if d.BagCount() > 0 {
		w, err := d.Width()
		if err != nil {
			return nil, fmt.Errorf("width %s: %w", g.Name(), err)
		}
		result.Width = w
	}

	validateStart := time.Now()
	result.Report = decomp.Check(g, d)
	result.Stats.ValidateTime = time.Since(validateStart)
	result.Stats.TotalTime = time.Since(start)
	observability.Solve().OnValidateComplete(ctx, g.Name(), result.Report.Valid, result.Stats.ValidateTime)

	if result.Report.Valid {
		r.Logger.Info("analyzed graph",
			"graph", g.Name(),
			"width", result.Width,
			"bags", result.Stats.BagCount,
			"cached", result.CacheHit,
			"duration", result.Stats.TotalTime)
	} else {
		r.Logger.Warn("decomposition failed validation",
			"graph", g.Name(),
			"property", result.Report.Failed,
			"detail", result.Report.Detail)
	}

	return result, nil
}

// lookup consults the cache unless a refresh was requested. Backend
// trouble reads as a miss - the solver can always recompute.
func (r *Runner) lookup(ctx context.Context, key string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	return data, hit
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

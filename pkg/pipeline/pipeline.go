// Package pipeline runs the complete analysis for one graph: encode the
// instance, obtain a decomposition from the solver (or the cache), decode
// it back into original node identities, and validate it against the
// graph. CLI and API both go through this package so caching and
// validation behave identically at every entry point.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Encode: Serialize the graph in the solver's renumbered line format
//  2. Solve: Run the external solver, consulting the cache first
//  3. Decode: Map the solver's answer back onto original node identities
//  4. Validate: Check all decomposition properties against the graph
//
// Solver output is cached, not decompositions: the raw bytes are what the
// solver is slow to produce, and decoding is cheap and deterministic.
//
// # Usage
//
// Create a Runner and analyze a graph:
//
//	runner := pipeline.NewRunner(solverRunner, fileCache, logger)
//	defer runner.Close()
//
//	result, err := pipeline.Analyze(ctx, runner, g, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Width, result.Report.Valid)
package pipeline

import (
	"cmp"
	"time"

	"github.com/matzehuels/topowidth/pkg/decomp"
)

// Options contains per-analysis configuration.
type Options struct {
	// Refresh bypasses cache reads and recomputes, overwriting the entry.
	Refresh bool

	// TTL bounds the cached solver output's lifetime. Zero keeps entries
	// forever, which is sound: exact treewidth never changes for a given
	// instance.
	TTL time.Duration
}

// Result contains the outputs of one analysis.
type Result[ID cmp.Ordered] struct {
	// Decomposition is the decoded tree decomposition.
	Decomposition *decomp.Decomposition[ID]

	// Width is the decomposition's width, or -1 when it has no bags
	// (which only happens for graphs with no nodes).
	Width int

	// Report is the validation outcome. A Result with an invalid Report
	// is still returned - deciding whether that is fatal is the caller's
	// call.
	Report decomp.Report

	// Stats contains sizes and timing information.
	Stats Stats

	// CacheHit reports whether the solver output came from the cache.
	CacheHit bool
}

// Stats contains analysis execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	BagCount     int
	SolveTime    time.Duration
	ValidateTime time.Duration
	TotalTime    time.Duration
}

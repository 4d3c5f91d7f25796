// Package pkg provides the core libraries for topowidth treewidth analysis.
//
// # Overview
//
// Topowidth measures how tree-like communication networks are by computing
// their exact treewidth through an external solver and verifying every
// answer. The pkg directory is organized into four main areas:
//
//  1. Graph theory - [graph], [decomp]: structures and validation
//  2. Solver interface - [pace], [solver]: wire codec and subprocess control
//  3. Orchestration - [pipeline], [cache]: the analysis loop and its memory
//  4. Input/output - [topology], [wire], [render], [report]: formats
//
// # Architecture
//
// The typical data flow through topowidth:
//
//	GML topology / JSON graph document
//	         ↓
//	    [graph] package (undirected simple graph)
//	         ↓
//	    [pace] package (renumbered solver instance)
//	         ↓
//	    [solver] package (external solver subprocess)
//	         ↓
//	    [pace] package (answer decoding)
//	         ↓
//	    [decomp] package (tree decomposition + validity check)
//	         ↓
//	    width, validation report, JSON/SVG output
//
// # Quick Start
//
// Analyze a network topology:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/topowidth/pkg/pipeline"
//	    "github.com/matzehuels/topowidth/pkg/solver"
//	    "github.com/matzehuels/topowidth/pkg/topology"
//	)
//
//	// 1. Read a topology
//	g, _ := topology.ReadFile("data/Abilene.gml", nil)
//
//	// 2. Run the pipeline (encode, solve, decode, validate)
//	r := pipeline.NewRunner(solver.NewRunner("tw-exact"), nil, nil)
//	result, _ := pipeline.Analyze(context.Background(), r, g, pipeline.Options{})
//
//	// 3. Use the result
//	fmt.Println(result.Width, result.Report.Valid)
//
// # Main Packages
//
// ## Graph Theory
//
// [graph] - Generic undirected simple graph over ordered node identities.
// Tolerates the Topology Zoo dataset's known anomalies (duplicate edges,
// self-loops) by logging and dropping them.
//
// [decomp] - Tree decompositions: bags over graph nodes connected into a
// tree, width computation, and the four-property validity check (tree
// shape, node coverage, edge coverage, running intersection).
//
// ## Solver Interface
//
// [pace] - The textual instance and answer formats exact-treewidth solvers
// speak, with deterministic node renumbering so identical graphs produce
// byte-identical instances.
//
// [solver] - Runs the solver binary as a subprocess: stdin in, stdout out,
// timeouts, and optional artifact capture for replaying failures.
//
// ## Orchestration
//
// [pipeline] - The complete analysis loop (encode, solve, decode, validate)
// used by CLI and API. Ensures consistent behavior across all entry points.
//
// [cache] - Solver output cache keyed by instance bytes, with file, Redis,
// and disabled backends.
//
// ## Input and Output
//
// [topology] - GML reader for the Topology Zoo dataset subset.
//
// [wire] - JSON document types for graphs and decompositions, the format
// the CLI writes and the API speaks.
//
// [render] - Graphviz DOT generation and SVG/PNG/PDF conversion.
//
// [report] - Batch summary tables, aligned text or CSV.
//
// ## Platform
//
// [errors] - Coded errors for the HTTP API surface.
//
// [observability] - Optional instrumentation hooks for solver runs, cache
// operations, and API requests.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/decomp/...    # Specific package
//	go test -run Example        # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/graph
// [decomp]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/decomp
// [pace]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/pace
// [solver]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/solver
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/cache
// [topology]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/topology
// [wire]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/wire
// [render]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/render
// [report]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/report
// [errors]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/topowidth/pkg/buildinfo
package pkg

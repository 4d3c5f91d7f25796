// Package render draws topologies and their tree decompositions.
//
// # Overview
//
// Rendering is a two-step pipeline: a graph or decomposition becomes a
// Graphviz DOT string, and the DOT string becomes an image.
//
//   - [GraphDOT] and [DecompositionDOT] produce DOT
//   - [SVG] renders DOT in-process via Graphviz
//   - [PDF] and [PNG] convert the SVG using the external rsvg-convert tool
//
// # Basic Usage
//
//	dot := render.GraphDOT(g)
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot, 2.0) // 2x scale
//
// Topology graphs are rendered with the neato engine, which spreads
// mesh-like networks evenly. Decompositions use the default ranked engine
// since they are trees.
//
// SVG rendering has no external requirements. PDF and PNG export shell out
// to rsvg-convert and need librsvg installed.
package render

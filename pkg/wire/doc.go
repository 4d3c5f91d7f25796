// Package wire defines the JSON document formats for graphs and tree
// decompositions, used by CLI output files and the HTTP API.
//
// Documents are deterministic: nodes, edges and bags are emitted in sorted
// order, so serializing the same structure twice produces identical bytes.
// Node identities are flattened to strings on the way out; importing a
// document therefore yields string-identified values, which is what the
// API and file-based workflows operate on.
package wire

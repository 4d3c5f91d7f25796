// Package pace implements the text protocol spoken by exact tree
// decomposition solvers, converting between arbitrary node identities and
// the contiguous 1-based integers the wire format requires.
//
// # Input Language
//
// [Encode] writes a graph as a header plus one line per edge:
//
//	p tw 4 3
//	1 2
//	2 3
//	2 4
//
// Node numbering follows the natural order of the identity type, making
// the output deterministic down to the byte: encoding the same graph twice
// always yields identical text, which is what allows a timed-out solver
// run to be retried with the exact same input.
//
// # Output Language
//
// [Decode] reads the solver's answer. After an uninterpreted header line,
// "c" lines are comments, "b <index> <members...>" lines declare bags, and
// two-token lines declare tree edges between declared bags:
//
//	s td 2 2 3
//	c width 1
//	b 1 1 2
//	b 2 2 3
//	1 2
//
// Bag members are translated back to node identities through the [Index]
// produced when the graph was encoded. Anything else on a line is a
// protocol violation and fails the decode; the solver is a collaborating
// process, so unexpected output means something is genuinely wrong.
package pace

// Package model contains the in-memory representation of workers, the line
// protocol and supporting types used by the procio engine.
//
// A worker exchanges newline-delimited text over the `channel` sub-package;
// its commands are parsed by `protocol` and its lifecycle is tracked by
// `worker`.  The root model package simply aggregates those building blocks
// so that they can be referenced from other parts of the code base with a
// single import.
package model

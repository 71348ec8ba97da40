// Package tables implements the table reconstructor: given a cluster
// region pre-classified as tabular, it infers the row/column grid and
// produces a cell matrix with row and column spans.
//
// Two inference paths exist. When ruling (vector) lines are present the
// grid is built directly from their coordinates. Otherwise column
// boundaries are inferred from repeated left-edge alignment of cell runs
// across rows (a whitespace-aligned table) and rows from baseline bands.
// Wrapped lines belonging to one logical cell are merged into a single
// cell with internal line breaks.
//
// Reconstruction is allowed to fail: a region that cannot produce a
// rectangular, invariant-satisfying grid is rejected with ErrNotTabular
// and the caller re-emits it as paragraph blocks. Failure isolation is
// per-region, never per-document.
package tables

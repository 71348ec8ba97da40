// Package assemble implements the block assembler: it folds per-page,
// reading-ordered blocks into a single document tree, handling the
// artifacts that page boundaries introduce.
//
// The assembler is an explicit state machine over the block stream. The
// state at a page boundary decides whether the next page's first block
// continues the previous page's last one: a paragraph with no terminal
// punctuation merges with a lower-case continuation, and a table merges
// with a same-width continuation table. Footnotes are re-attached at
// their in-text anchors, captions are bound to the nearest figure or
// table, and heading levels are assigned at Finalize by rank-ordering
// heading font sizes document-wide.
package assemble

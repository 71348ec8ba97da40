// Package layout implements the column and reading-order resolver: given
// one page's classified clusters, it detects column boundaries from
// vertical whitespace gutters and linearizes the page into a single
// reading-order sequence.
//
// Full-width clusters (a title or abstract spanning the content width
// above a two-column body) are detected first and excluded from gutter
// detection; they split the page into vertical segments that are resolved
// independently. A gutter must be wide enough and must separate content
// for a minimum number of consecutive line bands, which avoids
// false-splitting ragged single-column text. When no consistent gutter is
// found the page falls back to a single top-to-bottom column, favoring
// completeness over perfect ordering.
package layout

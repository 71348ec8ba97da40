// Package model provides the intermediate representation for reconstructed
// document structure.
//
// This package defines the types that flow through the reconstruction
// pipeline: the positioned [Primitive] values delivered by an upstream
// extractor, the semantic [Block] variants produced by assembly, and the
// [Document] tree handed to the serializer.
//
// # Input
//
// A [Page] holds the primitives extracted from one page. Primitives are
// immutable once extracted; the pipeline never modifies them.
//
// # Blocks
//
// All assembled content implements the [Block] interface. The concrete
// variants form a closed set, switched on exhaustively via [BlockKind]:
//
//   - [Paragraph] - body text
//   - [Heading] - headings (levels 1-6, ranked document-wide)
//   - [ListItem] - a single bulleted or numbered item
//   - [Table] - tables with cells and row/column spans
//   - [Figure] - image regions, with optional caption
//   - [Footnote] - footnote text with its anchor marker
//   - [Caption] - a caption attached to a figure or table
//   - [Placeholder] - stand-in for a page that could not be processed
//
// # Tables
//
// The [Table] type stores origin cells only: a cell spanning several rows
// or columns appears once, carrying RowSpan/ColSpan, and Validate enforces
// that spans tile the grid without overlap.
//
// # Geometry
//
// Coordinates follow the PDF convention: origin at the bottom-left corner
// of the page, Y increasing upward, units in points. [BBox] provides
// intersection, union, and overlap calculations.
package model

package model

// BlockKind represents the kind of a semantic block
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockParagraph
	BlockHeading
	BlockListItem
	BlockTable
	BlockFigure
	BlockFootnote
	BlockCaption
	BlockPlaceholder
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "Paragraph"
	case BlockHeading:
		return "Heading"
	case BlockListItem:
		return "ListItem"
	case BlockTable:
		return "Table"
	case BlockFigure:
		return "Figure"
	case BlockFootnote:
		return "Footnote"
	case BlockCaption:
		return "Caption"
	case BlockPlaceholder:
		return "Placeholder"
	default:
		return "Unknown"
	}
}

// Block is the interface for all semantic units in the output tree. The
// set of implementations is closed: consumers switch exhaustively on
// Kind(), and adding a variant means updating every switch.
//
// Every block carries its page number, bounding box, and reading-order
// index. Invariant: the bounding box is non-degenerate and falls within
// its page's bounds.
type Block interface {
	Kind() BlockKind
	BoundingBox() BBox
	PageNumber() int
	OrderIndex() int
}

// TextBlock is implemented by blocks that carry text content
type TextBlock interface {
	Block
	GetText() string
}

// Paragraph represents a paragraph of body text
type Paragraph struct {
	Text     string
	FontSize float64
	BBox     BBox
	Page     int
	Order    int

	// Unclassified marks content that reached assembly with an unknown
	// region type and was preserved as plain text rather than dropped
	Unclassified bool
}

func (p *Paragraph) Kind() BlockKind   { return BlockParagraph }
func (p *Paragraph) BoundingBox() BBox { return p.BBox }
func (p *Paragraph) PageNumber() int   { return p.Page }
func (p *Paragraph) OrderIndex() int   { return p.Order }
func (p *Paragraph) GetText() string   { return p.Text }

// Heading represents a heading. Level is assigned at document
// finalization by rank-ordering heading font sizes document-wide, so a
// zero Level means "not yet ranked".
type Heading struct {
	Text     string
	Level    int // 1-6 after finalization
	FontSize float64
	Bold     bool
	BBox     BBox
	Page     int
	Order    int
}

func (h *Heading) Kind() BlockKind   { return BlockHeading }
func (h *Heading) BoundingBox() BBox { return h.BBox }
func (h *Heading) PageNumber() int   { return h.Page }
func (h *Heading) OrderIndex() int   { return h.Order }
func (h *Heading) GetText() string   { return h.Text }

// ListItem represents a single list item
type ListItem struct {
	Text    string
	Depth   int    // nesting depth, 0 = top level
	Marker  string // original bullet or number prefix
	Ordered bool
	BBox    BBox
	Page    int
	Order   int
}

func (li *ListItem) Kind() BlockKind   { return BlockListItem }
func (li *ListItem) BoundingBox() BBox { return li.BBox }
func (li *ListItem) PageNumber() int   { return li.Page }
func (li *ListItem) OrderIndex() int   { return li.Order }
func (li *ListItem) GetText() string   { return li.Text }

// Figure represents an image or figure region
type Figure struct {
	ID       int    // document-wide figure id
	ImageRef string // reference to the source image primitive
	Caption  string // resolved caption text, if any
	BBox     BBox
	Page     int
	Order    int
}

func (f *Figure) Kind() BlockKind   { return BlockFigure }
func (f *Figure) BoundingBox() BBox { return f.BBox }
func (f *Figure) PageNumber() int   { return f.Page }
func (f *Figure) OrderIndex() int   { return f.Order }

// Footnote represents footnote text hoisted out of the main flow and
// re-attached at its in-text anchor
type Footnote struct {
	ID     int    // document-wide footnote id
	Marker string // leading marker, e.g. "1" or "†"
	Text   string
	BBox   BBox
	Page   int
	Order  int
}

func (fn *Footnote) Kind() BlockKind   { return BlockFootnote }
func (fn *Footnote) BoundingBox() BBox { return fn.BBox }
func (fn *Footnote) PageNumber() int   { return fn.Page }
func (fn *Footnote) OrderIndex() int   { return fn.Order }
func (fn *Footnote) GetText() string   { return fn.Text }

// Caption represents a caption associated with a figure or table
type Caption struct {
	Text   string
	Target BlockKind // BlockFigure or BlockTable, BlockUnknown if unresolved
	BBox   BBox
	Page   int
	Order  int
}

func (c *Caption) Kind() BlockKind   { return BlockCaption }
func (c *Caption) BoundingBox() BBox { return c.BBox }
func (c *Caption) PageNumber() int   { return c.Page }
func (c *Caption) OrderIndex() int   { return c.Order }
func (c *Caption) GetText() string   { return c.Text }

// Placeholder stands in for a page that yielded no usable primitives.
// Processing failure is page-scoped: the rest of the document is emitted
// normally around the placeholder.
type Placeholder struct {
	Reason string
	BBox   BBox
	Page   int
	Order  int
}

func (ph *Placeholder) Kind() BlockKind   { return BlockPlaceholder }
func (ph *Placeholder) BoundingBox() BBox { return ph.BBox }
func (ph *Placeholder) PageNumber() int   { return ph.Page }
func (ph *Placeholder) OrderIndex() int   { return ph.Order }

package model

// PrimitiveKind represents the kind of a positioned primitive
type PrimitiveKind int

const (
	PrimitiveGlyphRun PrimitiveKind = iota
	PrimitiveImage
	PrimitiveVectorLine
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveGlyphRun:
		return "glyph_run"
	case PrimitiveImage:
		return "image"
	case PrimitiveVectorLine:
		return "vector_line"
	default:
		return "unknown"
	}
}

// FontWeight represents the weight of the font a glyph run was set in
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

func (w FontWeight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

// Primitive is a positioned atom delivered by the upstream extractor: a
// glyph run, a raster image region, or a ruling (vector) line. Primitives
// are immutable once extracted and owned by the page they belong to.
type Primitive struct {
	// Text is the run's text content. Empty for images and vector lines.
	Text string

	// BBox is the primitive's bounding box on the page
	BBox BBox

	// Page is the 1-indexed page number this primitive belongs to
	Page int

	// FontSize is the nominal font size in points (glyph runs only)
	FontSize float64

	// Weight is the font weight (glyph runs only)
	Weight FontWeight

	// Kind identifies the primitive variant
	Kind PrimitiveKind

	// ImageRef identifies the source image for image primitives, so
	// figures can be referenced by id rather than by pointer
	ImageRef string
}

// Page holds the primitives extracted from a single page
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in points
	Height float64 // Page height in points

	// Primitives in extraction order. The pipeline never relies on this
	// order; reading order is recovered geometrically.
	Primitives []Primitive
}

// NewPage creates a new page with given dimensions
func NewPage(number int, width, height float64) *Page {
	return &Page{
		Number:     number,
		Width:      width,
		Height:     height,
		Primitives: make([]Primitive, 0),
	}
}

// AddPrimitive appends a primitive to the page, stamping its page number.
func (p *Page) AddPrimitive(prim Primitive) {
	prim.Page = p.Number
	p.Primitives = append(p.Primitives, prim)
}

// GlyphRuns returns the text primitives on the page
func (p *Page) GlyphRuns() []Primitive {
	return p.primitivesOfKind(PrimitiveGlyphRun)
}

// Images returns the image primitives on the page
func (p *Page) Images() []Primitive {
	return p.primitivesOfKind(PrimitiveImage)
}

// VectorLines returns the ruling-line primitives on the page
func (p *Page) VectorLines() []Primitive {
	return p.primitivesOfKind(PrimitiveVectorLine)
}

func (p *Page) primitivesOfKind(kind PrimitiveKind) []Primitive {
	var out []Primitive
	for _, prim := range p.Primitives {
		if prim.Kind == kind {
			out = append(out, prim)
		}
	}
	return out
}

// PageStats holds per-page statistics computed once before classification
// and passed by value into each component call. There is no process-wide
// state; different pages may have different base font sizes.
type PageStats struct {
	// PageNumber is the 1-indexed page this was computed for
	PageNumber int

	// Width and Height are the page dimensions in points
	Width  float64
	Height float64

	// BodyFontSize is the dominant body text size on the page, weighted
	// by run text length so that one large title does not skew it
	BodyFontSize float64

	// MedianLineHeight is the median glyph-run height on the page
	MedianLineHeight float64

	// GlyphRunCount is the number of text primitives on the page
	GlyphRunCount int
}

// DocumentStats holds document-wide statistics derived from the per-page
// stats, passed by value where needed.
type DocumentStats struct {
	PageCount    int
	BodyFontSize float64 // median of per-page body sizes
}

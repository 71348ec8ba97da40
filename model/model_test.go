package model

import (
	"strings"
	"testing"
)

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)
	if b.Left() != 10 || b.Right() != 110 || b.Bottom() != 20 || b.Top() != 70 {
		t.Errorf("edges wrong: %+v", b)
	}
	c := b.Center()
	if c.X != 60 || c.Y != 45 {
		t.Errorf("center wrong: %+v", c)
	}
}

func TestBBoxFromCorners(t *testing.T) {
	b := NewBBoxFromCorners(110, 70, 10, 20)
	if b.X != 10 || b.Y != 20 || b.Width != 100 || b.Height != 50 {
		t.Errorf("corner constructor wrong: %+v", b)
	}
}

func TestBBoxUnionIntersection(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 10, 10)

	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.Width != 15 || u.Height != 15 {
		t.Errorf("union wrong: %+v", u)
	}

	i := a.Intersection(b)
	if i.X != 5 || i.Y != 5 || i.Width != 5 || i.Height != 5 {
		t.Errorf("intersection wrong: %+v", i)
	}

	if a.Intersects(NewBBox(20, 20, 5, 5)) {
		t.Error("disjoint boxes should not intersect")
	}
}

func TestVerticalOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want float64
	}{
		{"full overlap", NewBBox(0, 10, 5, 10), NewBBox(50, 10, 5, 10), 10},
		{"partial", NewBBox(0, 10, 5, 10), NewBBox(50, 15, 5, 10), 5},
		{"disjoint", NewBBox(0, 0, 5, 5), NewBBox(50, 10, 5, 5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.VerticalOverlap(tt.b); got != tt.want {
				t.Errorf("VerticalOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPagePrimitiveAccessors(t *testing.T) {
	page := NewPage(3, 612, 792)
	page.AddPrimitive(Primitive{Kind: PrimitiveGlyphRun, Text: "hello"})
	page.AddPrimitive(Primitive{Kind: PrimitiveImage, ImageRef: "img-1"})
	page.AddPrimitive(Primitive{Kind: PrimitiveVectorLine})

	if len(page.GlyphRuns()) != 1 || len(page.Images()) != 1 || len(page.VectorLines()) != 1 {
		t.Errorf("accessor counts wrong")
	}
	if page.GlyphRuns()[0].Page != 3 {
		t.Error("AddPrimitive should stamp the page number")
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Table
		wantErr bool
	}{
		{
			name:  "uniform grid",
			build: func() *Table { return NewTable(3, 3) },
		},
		{
			name: "colspan tiles exactly",
			build: func() *Table {
				tb := NewTable(2, 3)
				tb.Rows[0] = []Cell{
					{Text: "wide", RowSpan: 1, ColSpan: 2},
					{Text: "c", RowSpan: 1, ColSpan: 1},
				}
				return tb
			},
		},
		{
			name: "rowspan carries into next row",
			build: func() *Table {
				tb := NewTable(2, 2)
				tb.Rows[0] = []Cell{
					{Text: "tall", RowSpan: 2, ColSpan: 1},
					{Text: "b", RowSpan: 1, ColSpan: 1},
				}
				tb.Rows[1] = []Cell{
					{Text: "d", RowSpan: 1, ColSpan: 1},
				}
				return tb
			},
		},
		{
			name: "row overflows columns",
			build: func() *Table {
				tb := NewTable(2, 2)
				tb.Rows[1] = append(tb.Rows[1], Cell{RowSpan: 1, ColSpan: 1})
				return tb
			},
			wantErr: true,
		},
		{
			name: "row underfills columns",
			build: func() *Table {
				tb := NewTable(2, 2)
				tb.Rows[1] = tb.Rows[1][:1]
				return tb
			},
			wantErr: true,
		},
		{
			name: "zero span",
			build: func() *Table {
				tb := NewTable(2, 2)
				tb.Rows[0][0].ColSpan = 0
				return tb
			},
			wantErr: true,
		},
		{
			name:    "empty table",
			build:   func() *Table { return &Table{} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTableExpandDuplicatesSpans(t *testing.T) {
	tb := NewTable(2, 2)
	tb.Rows[0] = []Cell{
		{Text: "tall", RowSpan: 2, ColSpan: 1},
		{Text: "b", RowSpan: 1, ColSpan: 1},
	}
	tb.Rows[1] = []Cell{
		{Text: "d", RowSpan: 1, ColSpan: 1},
	}

	grid := tb.Expand()
	if grid == nil {
		t.Fatal("Expand returned nil for valid table")
	}
	if grid[0][0].Text != "tall" || grid[1][0].Text != "tall" {
		t.Errorf("rowspan text should appear in both rows: %+v", grid)
	}
	if grid[1][1].Text != "d" {
		t.Errorf("cell after carried column wrong: %+v", grid[1])
	}
}

func TestTableAppendRows(t *testing.T) {
	a := NewTable(2, 2)
	a.Confidence = 0.9
	b := NewTable(1, 2)
	b.Confidence = 0.7

	a.AppendRows(b)
	if a.RowCount() != 3 {
		t.Errorf("RowCount = %d, want 3", a.RowCount())
	}
	if a.Confidence != 0.7 {
		t.Errorf("merged confidence should take the minimum, got %v", a.Confidence)
	}
}

func TestTableToCSVEscapes(t *testing.T) {
	tb := NewTable(1, 2)
	tb.Rows[0][0].Text = `say "hi", ok`
	tb.Rows[0][1].Text = "plain"

	csv := tb.ToCSV()
	if !strings.Contains(csv, `"say ""hi"", ok",plain`) {
		t.Errorf("CSV escaping wrong: %q", csv)
	}
}

func TestDocumentAccessors(t *testing.T) {
	doc := NewDocument()
	doc.AddBlock(&Heading{Text: "Top", Level: 1, Page: 1})
	doc.AddBlock(&Paragraph{Text: "Body.", Page: 1})
	doc.AddBlock(&Footnote{ID: 1, Marker: "1", Text: "Note.", Page: 1})
	table := NewTable(1, 1)
	doc.AddBlock(table)

	if doc.BlockCount() != 4 {
		t.Errorf("BlockCount = %d", doc.BlockCount())
	}
	if len(doc.Headings()) != 1 || len(doc.Footnotes()) != 1 || len(doc.Tables()) != 1 {
		t.Error("typed accessors wrong")
	}

	toc := doc.TableOfContents()
	if len(toc) != 1 || toc[0].Text != "Top" || toc[0].Level != 1 {
		t.Errorf("TOC wrong: %+v", toc)
	}

	text := doc.ExtractText()
	if !strings.Contains(text, "Top") || !strings.Contains(text, "Body.") {
		t.Errorf("ExtractText missing content: %q", text)
	}
}

func TestBlockKindStrings(t *testing.T) {
	kinds := map[BlockKind]string{
		BlockParagraph:   "Paragraph",
		BlockHeading:     "Heading",
		BlockListItem:    "ListItem",
		BlockTable:       "Table",
		BlockFigure:      "Figure",
		BlockFootnote:    "Footnote",
		BlockCaption:     "Caption",
		BlockPlaceholder: "Placeholder",
		BlockUnknown:     "Unknown",
	}
	for kind, want := range kinds {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), want)
		}
	}
}

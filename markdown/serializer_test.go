package markdown

import (
	"strings"
	"testing"

	"github.com/docstrata/strata/model"
)

func docOf(blocks ...model.Block) *model.Document {
	doc := model.NewDocument()
	for _, b := range blocks {
		doc.AddBlock(b)
	}
	return doc
}

func TestSerializeHeadingsAndParagraphs(t *testing.T) {
	doc := docOf(
		&model.Heading{Text: "Introduction", Level: 1},
		&model.Paragraph{Text: "Opening paragraph."},
		&model.Heading{Text: "Method", Level: 2},
		&model.Paragraph{Text: "Second paragraph."},
	)

	md := NewSerializer().Serialize(doc)

	want := "# Introduction\n\nOpening paragraph.\n\n## Method\n\nSecond paragraph.\n"
	if md != want {
		t.Errorf("Serialize() = %q, want %q", md, want)
	}
}

func TestSerializeTable(t *testing.T) {
	table := model.NewTable(2, 2)
	table.Rows[0][0].Text = "Name"
	table.Rows[0][1].Text = "Value"
	table.Rows[1][0].Text = "alpha"
	table.Rows[1][1].Text = "1"

	md := NewSerializer().Serialize(docOf(table))

	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 table lines, got %d: %q", len(lines), md)
	}
	if !strings.Contains(lines[0], "Name") || !strings.Contains(lines[0], "Value") {
		t.Errorf("header line wrong: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "|-") {
		t.Errorf("separator line wrong: %q", lines[1])
	}
	if !strings.Contains(lines[2], "alpha") {
		t.Errorf("data line wrong: %q", lines[2])
	}
}

func TestSerializeTableDuplicatesMergedCells(t *testing.T) {
	table := model.NewTable(2, 2)
	table.Rows[0] = []model.Cell{{Text: "Total", RowSpan: 1, ColSpan: 2}}
	table.Rows[1][0].Text = "a"
	table.Rows[1][1].Text = "b"

	md := NewSerializer().Serialize(docOf(table))

	header := strings.Split(strings.TrimSpace(md), "\n")[0]
	if strings.Count(header, "Total") != 2 {
		t.Errorf("merged cell should repeat at every covered position: %q", header)
	}
}

func TestSerializeTableWideRunes(t *testing.T) {
	table := model.NewTable(2, 1)
	table.Rows[0][0].Text = "値段"
	table.Rows[1][0].Text = "abcd"

	md := NewSerializer().Serialize(docOf(table))
	lines := strings.Split(strings.TrimSpace(md), "\n")

	// Both content rows should render at the same display width: the
	// two wide runes pad to match the four narrow ones
	if displayWidth(lines[0]) != displayWidth(lines[2]) {
		t.Errorf("rows not aligned by display width:\n%q\n%q", lines[0], lines[2])
	}
}

func TestSerializeList(t *testing.T) {
	doc := docOf(
		&model.ListItem{Text: "first", Depth: 0},
		&model.ListItem{Text: "nested", Depth: 1},
		&model.ListItem{Text: "second", Depth: 0},
		&model.Paragraph{Text: "After the list."},
	)

	md := NewSerializer().Serialize(doc)

	want := "- first\n  - nested\n- second\n\nAfter the list.\n"
	if md != want {
		t.Errorf("Serialize() = %q, want %q", md, want)
	}
}

func TestSerializeOrderedList(t *testing.T) {
	md := NewSerializer().Serialize(docOf(
		&model.ListItem{Text: "step one", Ordered: true},
		&model.ListItem{Text: "step two", Ordered: true},
	))

	if !strings.HasPrefix(md, "1. step one\n1. step two") {
		t.Errorf("ordered list rendering wrong: %q", md)
	}
}

func TestSerializeFigure(t *testing.T) {
	tests := []struct {
		name   string
		figure *model.Figure
		want   string
	}{
		{"captioned", &model.Figure{ImageRef: "img-1", Caption: "A chart"}, "![A chart](img-1)"},
		{"bare", &model.Figure{ImageRef: "img-2"}, "<!-- image -->"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewSerializer().Serialize(docOf(tt.figure))
			if strings.TrimSpace(md) != tt.want {
				t.Errorf("Serialize() = %q, want %q", md, tt.want)
			}
		})
	}
}

func TestSerializeFootnoteAndPlaceholder(t *testing.T) {
	md := NewSerializer().Serialize(docOf(
		&model.Paragraph{Text: "Anchoring text."},
		&model.Footnote{ID: 2, Marker: "2", Text: "The note."},
		&model.Placeholder{Page: 4, Reason: "no extractable content"},
	))

	if !strings.Contains(md, "Anchoring text.\n\n2 The note.") {
		t.Errorf("footnote should render inline after its anchor: %q", md)
	}
	if !strings.Contains(md, "<!-- page 4: no extractable content -->") {
		t.Errorf("placeholder rendering missing: %q", md)
	}
}

func TestSerializeEscapesPipes(t *testing.T) {
	table := model.NewTable(2, 1)
	table.Rows[0][0].Text = "H"
	table.Rows[1][0].Text = "a|b"

	md := NewSerializer().Serialize(docOf(table))
	if !strings.Contains(md, `a\|b`) {
		t.Errorf("pipe in cell should be escaped: %q", md)
	}
}

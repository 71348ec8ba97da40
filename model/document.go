package model

import "strings"

// Document is the root of the assembled output: an ordered sequence of
// blocks in reading order. The document owns its blocks (strict tree, no
// sharing); figures and footnotes are referenced by id from their anchor
// points, not by pointer. Once finalized and handed to the serializer the
// tree is treated as immutable.
type Document struct {
	Blocks []Block
	Stats  DocumentStats
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Blocks: make([]Block, 0),
	}
}

// AddBlock appends a block to the document
func (d *Document) AddBlock(block Block) {
	d.Blocks = append(d.Blocks, block)
}

// BlockCount returns the total number of blocks
func (d *Document) BlockCount() int {
	return len(d.Blocks)
}

// ExtractText returns all text content concatenated in reading order
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, block := range d.Blocks {
		if tb, ok := block.(TextBlock); ok {
			sb.WriteString(tb.GetText())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Tables returns all table blocks in reading order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, block := range d.Blocks {
		if table, ok := block.(*Table); ok {
			tables = append(tables, table)
		}
	}
	return tables
}

// Headings returns all heading blocks in reading order
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, block := range d.Blocks {
		if h, ok := block.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Footnotes returns all footnote blocks in reading order
func (d *Document) Footnotes() []*Footnote {
	var notes []*Footnote
	for _, block := range d.Blocks {
		if fn, ok := block.(*Footnote); ok {
			notes = append(notes, fn)
		}
	}
	return notes
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Level    int     // Heading level (1-6)
	Text     string  // Heading text
	Page     int     // Page number (1-indexed)
	FontSize float64 // Font size of heading
}

// TableOfContents returns headings organized as a document outline
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for _, h := range d.Headings() {
		toc = append(toc, TOCEntry{
			Level:    h.Level,
			Text:     h.Text,
			Page:     h.Page,
			FontSize: h.FontSize,
		})
	}
	return toc
}

package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/docstrata/strata/model"
)

// Config holds configuration for markdown serialization
type Config struct {
	// AlignTables pads table cells to a common display width per column
	// Default: true
	AlignTables bool

	// ListIndent is the indentation per list nesting level
	// Default: "  "
	ListIndent string

	// ImagePlaceholder is emitted for figures with no caption or text
	// Default: "<!-- image -->"
	ImagePlaceholder string
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		AlignTables:      true,
		ListIndent:       "  ",
		ImagePlaceholder: "<!-- image -->",
	}
}

// Serializer converts a document tree to Markdown
type Serializer struct {
	config Config
}

// NewSerializer creates a serializer with default configuration
func NewSerializer() *Serializer {
	return &Serializer{config: DefaultConfig()}
}

// NewSerializerWithConfig creates a serializer with custom configuration
func NewSerializerWithConfig(config Config) *Serializer {
	return &Serializer{config: config}
}

// Serialize renders the document as Markdown. Blocks are separated by
// blank lines; consecutive list items stay in one list.
func (s *Serializer) Serialize(doc *model.Document) string {
	var parts []string
	var list []string

	flushList := func() {
		if len(list) > 0 {
			parts = append(parts, strings.Join(list, "\n"))
			list = nil
		}
	}

	for _, block := range doc.Blocks {
		if block.Kind() == model.BlockListItem {
			list = append(list, s.listItem(block.(*model.ListItem)))
			continue
		}
		flushList()

		if rendered := s.renderBlock(block); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	flushList()

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// renderBlock renders a single non-list block. The switch is exhaustive
// over BlockKind.
func (s *Serializer) renderBlock(block model.Block) string {
	switch b := block.(type) {
	case *model.Paragraph:
		return escapeText(b.Text)
	case *model.Heading:
		return s.heading(b)
	case *model.Table:
		return s.table(b)
	case *model.Figure:
		return s.figure(b)
	case *model.Footnote:
		return s.footnote(b)
	case *model.Caption:
		return "*" + escapeText(b.Text) + "*"
	case *model.Placeholder:
		return fmt.Sprintf("<!-- page %d: %s -->", b.Page, b.Reason)
	case *model.ListItem:
		return s.listItem(b)
	default:
		return ""
	}
}

func (s *Serializer) heading(h *model.Heading) string {
	level := h.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + escapeText(h.Text)
}

func (s *Serializer) listItem(li *model.ListItem) string {
	indent := strings.Repeat(s.config.ListIndent, li.Depth)
	marker := "-"
	if li.Ordered {
		marker = "1."
	}
	return indent + marker + " " + escapeText(li.Text)
}

// footnote renders the note text inline at its anchor position, marker
// first. Footnote reference syntax is deliberately not used; the note
// reads as part of the flow where it was anchored.
func (s *Serializer) footnote(fn *model.Footnote) string {
	if fn.Marker != "" {
		return escapeText(fn.Marker + " " + fn.Text)
	}
	return escapeText(fn.Text)
}

func (s *Serializer) figure(f *model.Figure) string {
	if f.Caption != "" {
		return fmt.Sprintf("![%s](%s)", escapeText(f.Caption), f.ImageRef)
	}
	return s.config.ImagePlaceholder
}

// table renders a pipe table from the expanded grid, so merged cells
// repeat their text at every position they cover. A table whose first
// row is not a header still gets a separator line after row one, as pipe
// tables require one.
func (s *Serializer) table(t *model.Table) string {
	grid := t.Expand()
	if grid == nil || len(grid) == 0 {
		return ""
	}
	cols := len(grid[0])

	cells := make([][]string, len(grid))
	widths := make([]int, cols)
	for i, row := range grid {
		cells[i] = make([]string, cols)
		for j, cell := range row {
			text := escapeCell(cell.Text)
			cells[i][j] = text
			if w := displayWidth(text); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for j, text := range row {
			sb.WriteString("| ")
			sb.WriteString(text)
			if s.config.AlignTables {
				sb.WriteString(strings.Repeat(" ", widths[j]-displayWidth(text)))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(cells[0])
	for j := 0; j < cols; j++ {
		sb.WriteString("|")
		dashes := 3
		if s.config.AlignTables && widths[j] > 1 {
			dashes = widths[j] + 2
		}
		sb.WriteString(strings.Repeat("-", dashes))
	}
	sb.WriteString("|\n")
	for _, row := range cells[1:] {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// displayWidth returns the terminal display width of a string, counting
// East Asian wide and fullwidth runes as two columns
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// escapeCell flattens cell text onto one line and escapes pipes
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// escapeText escapes characters that would change document structure
func escapeText(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

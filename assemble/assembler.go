package assemble

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/docstrata/strata/model"
)

// Config holds configuration for document assembly
type Config struct {
	// MergeAcrossPages enables merging of paragraphs split by a page
	// boundary
	// Default: true
	MergeAcrossPages bool

	// MergeTables enables merging of tables split by a page boundary
	// Default: true
	MergeTables bool

	// MaxCaptionGap is the maximum vertical gap between a caption and
	// the figure or table it belongs to, in points
	// Default: 30
	MaxCaptionGap float64

	// HeadingSizeCluster is the font-size difference under which two
	// headings are treated as the same level, in points
	// Default: 0.5
	HeadingSizeCluster float64

	// MaxHeadingLevel caps assigned heading levels
	// Default: 6
	MaxHeadingLevel int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MergeAcrossPages:   true,
		MergeTables:        true,
		MaxCaptionGap:      30.0,
		HeadingSizeCluster: 0.5,
		MaxHeadingLevel:    6,
	}
}

// PageInput is one page's blocks in reading order, ready for assembly
type PageInput struct {
	Number int
	Width  float64
	Height float64
	Blocks []model.Block
}

// state tracks what kind of block the assembler is inside at a page
// boundary. It decides whether the next page's first block continues the
// previous page's last one.
type state int

const (
	stateIdle state = iota
	stateInParagraph
	stateInTable
	stateInList
)

// Assembler folds per-page block streams into one document
type Assembler struct {
	config Config

	blocks   []model.Block
	warnings []model.Warning
	state    state

	pageStats    []model.PageStats
	footnoteID   int
	figureID     int
	lastPage     int
	lastPageSeen bool
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{config: DefaultConfig()}
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config Config) *Assembler {
	return &Assembler{config: config}
}

// AddPageStats records per-page statistics used during finalization
func (a *Assembler) AddPageStats(stats model.PageStats) {
	a.pageStats = append(a.pageStats, stats)
}

// AddPage feeds one page of blocks into the assembler. Pages must arrive
// in document order.
func (a *Assembler) AddPage(page PageInput) {
	blocks := a.bindCaptions(page.Blocks)
	blocks = a.anchorFootnotes(blocks, page)

	for i, block := range blocks {
		if i == 0 && a.tryContinuation(block, page) {
			continue
		}
		a.feed(block)
	}

	a.lastPage = page.Number
	a.lastPageSeen = true
}

// feed appends one block and advances the state machine
func (a *Assembler) feed(block model.Block) {
	a.blocks = append(a.blocks, block)

	switch block.Kind() {
	case model.BlockParagraph:
		a.state = stateInParagraph
	case model.BlockTable:
		a.state = stateInTable
	case model.BlockListItem:
		a.state = stateInList
	default:
		a.state = stateIdle
	}
}

// tryContinuation checks whether the first block of a new page continues
// the last block of the previous page, and merges it if so. Reports true
// when the block was consumed by a merge.
func (a *Assembler) tryContinuation(block model.Block, page PageInput) bool {
	if !a.lastPageSeen || page.Number != a.lastPage+1 || len(a.blocks) == 0 {
		return false
	}
	last := a.blocks[len(a.blocks)-1]

	switch a.state {
	case stateInParagraph:
		if !a.config.MergeAcrossPages {
			return false
		}
		prev, ok := last.(*model.Paragraph)
		if !ok {
			return false
		}
		next, ok := block.(*model.Paragraph)
		if !ok {
			return false
		}
		if paragraphContinues(prev.Text, next.Text) {
			prev.Text = prev.Text + " " + next.Text
			return true
		}

	case stateInTable:
		if !a.config.MergeTables {
			return false
		}
		prev, ok := last.(*model.Table)
		if !ok {
			return false
		}
		next, ok := block.(*model.Table)
		if !ok {
			return false
		}
		if prev.ColumnCount() == next.ColumnCount() && !next.HeaderRow() {
			rows, bbox, conf := len(prev.Rows), prev.BBox, prev.Confidence
			prev.AppendRows(next)
			if err := prev.Validate(); err != nil {
				// Roll the merge back rather than emit a broken table
				prev.Rows = prev.Rows[:rows]
				prev.BBox = bbox
				prev.Confidence = conf
				a.warn(page.Number, "table continuation rejected: "+err.Error())
				return false
			}
			return true
		}
	}
	return false
}

// paragraphContinues reports whether text starting a new page reads as
// the continuation of the previous page's trailing paragraph: the first
// part does not end a sentence and the second starts in lower case.
func paragraphContinues(prev, next string) bool {
	prev = strings.TrimSpace(prev)
	next = strings.TrimSpace(next)
	if prev == "" || next == "" {
		return false
	}

	runes := []rune(prev)
	switch runes[len(runes)-1] {
	case '.', '!', '?', ':', ';', '"', '”':
		return false
	}

	first := []rune(next)[0]
	return unicode.IsLower(first)
}

// bindCaptions associates caption blocks with the nearest figure or
// table on the page, setting the caption's target kind and copying
// caption text onto figures.
func (a *Assembler) bindCaptions(blocks []model.Block) []model.Block {
	for _, block := range blocks {
		caption, ok := block.(*model.Caption)
		if !ok {
			continue
		}

		bestIdx := -1
		bestGap := a.config.MaxCaptionGap + 1
		for j, other := range blocks {
			kind := other.Kind()
			if kind != model.BlockFigure && kind != model.BlockTable {
				continue
			}
			gap := verticalGap(caption.BBox, other.BoundingBox())
			if gap < bestGap {
				bestGap = gap
				bestIdx = j
			}
		}

		if bestIdx < 0 {
			continue
		}
		target := blocks[bestIdx]
		caption.Target = target.Kind()
		if fig, ok := target.(*model.Figure); ok && fig.Caption == "" {
			fig.Caption = caption.Text
		}
	}
	return blocks
}

// verticalGap returns the vertical distance between two boxes, zero when
// they overlap vertically
func verticalGap(a, b model.BBox) float64 {
	if a.Bottom() > b.Top() {
		return a.Bottom() - b.Top()
	}
	if b.Bottom() > a.Top() {
		return b.Bottom() - a.Top()
	}
	return 0
}

var digitMarkerPattern = regexp.MustCompile(`[a-zA-Z,;)\]]([0-9]{1,3})(\s|$|[.,;])`)

// superscriptForms maps ASCII digits to their superscript forms. Body
// text keeps superscript anchors verbatim while footnote markers arrive
// digit-normalized, so anchor search must try both spellings.
var superscriptForms = strings.NewReplacer(
	"0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
)

// anchorFootnotes moves footnote blocks from their physical position at
// the bottom of the page to directly after the block containing their
// in-text anchor. A footnote whose anchor cannot be found stays at the
// end of the page.
func (a *Assembler) anchorFootnotes(blocks []model.Block, page PageInput) []model.Block {
	var flow []model.Block
	var footnotes []*model.Footnote

	for _, block := range blocks {
		if fn, ok := block.(*model.Footnote); ok {
			a.footnoteID++
			fn.ID = a.footnoteID
			footnotes = append(footnotes, fn)
			continue
		}
		if fig, ok := block.(*model.Figure); ok && fig.ID == 0 {
			a.figureID++
			fig.ID = a.figureID
		}
		flow = append(flow, block)
	}
	if len(footnotes) == 0 {
		return flow
	}

	var unanchored []*model.Footnote
	for _, fn := range footnotes {
		idx := findAnchor(flow, fn.Marker)
		if idx < 0 {
			unanchored = append(unanchored, fn)
			continue
		}
		flow = append(flow[:idx+1], append([]model.Block{fn}, flow[idx+1:]...)...)
	}
	for _, fn := range unanchored {
		flow = append(flow, fn)
	}
	return flow
}

// findAnchor returns the index of the first text block referencing the
// given footnote marker, or -1. Symbol markers match by substring; digit
// markers require a word-edge context so that ordinary numbers in the
// text do not anchor footnotes.
func findAnchor(blocks []model.Block, marker string) int {
	if marker == "" {
		return -1
	}
	isDigit := true
	for _, r := range marker {
		if !unicode.IsDigit(r) {
			isDigit = false
			break
		}
	}
	superscript := ""
	if isDigit {
		superscript = superscriptForms.Replace(marker)
	}

	for i, block := range blocks {
		tb, ok := block.(model.TextBlock)
		if !ok {
			continue
		}
		text := tb.GetText()
		if isDigit {
			if strings.Contains(text, superscript) {
				return i
			}
			for _, m := range digitMarkerPattern.FindAllStringSubmatch(text, -1) {
				if m[1] == marker {
					return i
				}
			}
		} else if strings.Contains(text, marker) {
			return i
		}
	}
	return -1
}

func (a *Assembler) warn(page int, message string) {
	a.warnings = append(a.warnings, model.Warning{Page: page, Message: message})
}

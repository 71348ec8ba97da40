package assemble

import (
	"fmt"
	"sort"

	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/model"
)

// Finalize completes assembly and returns the document. Heading levels
// are assigned here because they depend on the full set of heading font
// sizes: larger sizes map to smaller level numbers, sizes within
// HeadingSizeCluster of each other share a level, and two headings with
// the same size always get the same level.
func (a *Assembler) Finalize() (*model.Document, []model.Warning) {
	a.assignHeadingLevels()
	a.assignOrder()
	a.checkBounds()

	doc := model.NewDocument()
	doc.Blocks = a.blocks
	doc.Stats = classify.ComputeDocumentStats(a.pageStats)

	return doc, a.warnings
}

// assignHeadingLevels ranks heading font sizes document-wide and maps
// each rank to a level, capped at MaxHeadingLevel.
func (a *Assembler) assignHeadingLevels() {
	var sizes []float64
	for _, block := range a.blocks {
		if h, ok := block.(*model.Heading); ok {
			sizes = append(sizes, h.FontSize)
		}
	}
	if len(sizes) == 0 {
		return
	}

	// Cluster sizes, largest first
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	var levels []float64
	for _, size := range sizes {
		if len(levels) == 0 || levels[len(levels)-1]-size > a.config.HeadingSizeCluster {
			levels = append(levels, size)
		}
	}

	for _, block := range a.blocks {
		h, ok := block.(*model.Heading)
		if !ok {
			continue
		}
		level := len(levels)
		for i, size := range levels {
			if h.FontSize >= size-a.config.HeadingSizeCluster {
				level = i + 1
				break
			}
		}
		if level > a.config.MaxHeadingLevel {
			level = a.config.MaxHeadingLevel
		}
		h.Level = level
	}
}

// assignOrder writes the final reading-order index onto every block
func (a *Assembler) assignOrder() {
	for i, block := range a.blocks {
		switch b := block.(type) {
		case *model.Paragraph:
			b.Order = i
		case *model.Heading:
			b.Order = i
		case *model.ListItem:
			b.Order = i
		case *model.Table:
			b.Order = i
		case *model.Figure:
			b.Order = i
		case *model.Footnote:
			b.Order = i
		case *model.Caption:
			b.Order = i
		case *model.Placeholder:
			b.Order = i
		}
	}
}

// checkBounds warns about blocks whose bounding boxes are degenerate or
// fall outside their page. The blocks are kept; the warning lets callers
// audit extraction quality.
func (a *Assembler) checkBounds() {
	dims := make(map[int]model.PageStats, len(a.pageStats))
	for _, ps := range a.pageStats {
		dims[ps.PageNumber] = ps
	}

	for _, block := range a.blocks {
		if block.Kind() == model.BlockPlaceholder {
			continue
		}
		bbox := block.BoundingBox()
		if !bbox.IsValid() || bbox.IsEmpty() {
			a.warn(block.PageNumber(), fmt.Sprintf("%s block has a degenerate bounding box", block.Kind()))
			continue
		}
		ps, ok := dims[block.PageNumber()]
		if !ok || ps.Width == 0 || ps.Height == 0 {
			continue
		}
		page := model.BBox{X: 0, Y: 0, Width: ps.Width, Height: ps.Height}
		if !page.Expand(1.0).ContainsBox(bbox) {
			a.warn(block.PageNumber(), fmt.Sprintf("%s block extends outside the page bounds", block.Kind()))
		}
	}
}

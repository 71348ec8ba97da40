package classify

import (
	"math"
	"sort"

	"github.com/docstrata/strata/model"
)

// ComputePageStats derives per-page typographic statistics from the raw
// primitives. The dominant body size is the text-length-weighted mode of
// font sizes rounded to half points, so a single oversized title cannot
// skew it the way a mean would.
func ComputePageStats(page *model.Page) model.PageStats {
	stats := model.PageStats{
		PageNumber: page.Number,
		Width:      page.Width,
		Height:     page.Height,
	}

	weights := make(map[float64]int)
	var heights []float64

	for _, prim := range page.Primitives {
		if prim.Kind != model.PrimitiveGlyphRun {
			continue
		}
		stats.GlyphRunCount++

		size := math.Round(prim.FontSize*2) / 2
		weight := len(prim.Text)
		if weight == 0 {
			weight = 1
		}
		weights[size] += weight
		heights = append(heights, prim.BBox.Height)
	}

	bestWeight := 0
	for size, weight := range weights {
		if weight > bestWeight || (weight == bestWeight && size < stats.BodyFontSize) {
			stats.BodyFontSize = size
			bestWeight = weight
		}
	}

	if len(heights) > 0 {
		sort.Float64s(heights)
		stats.MedianLineHeight = heights[len(heights)/2]
	}

	return stats
}

// ComputeDocumentStats folds per-page stats into document-wide figures.
// The document body size is the median of per-page body sizes.
func ComputeDocumentStats(pages []model.PageStats) model.DocumentStats {
	stats := model.DocumentStats{PageCount: len(pages)}

	var sizes []float64
	for _, p := range pages {
		if p.BodyFontSize > 0 {
			sizes = append(sizes, p.BodyFontSize)
		}
	}
	if len(sizes) > 0 {
		sort.Float64s(sizes)
		stats.BodyFontSize = sizes[len(sizes)/2]
	}

	return stats
}

package layout

import (
	"sort"

	"github.com/docstrata/strata/classify"
)

// ReadingLess is the reading-order comparator for two clusters. Clusters
// whose vertical ranges overlap are ordered by left edge (left column
// first); otherwise the higher cluster comes first. This tie-break is
// what makes multi-column reading order a pure function of x-position
// rather than extraction order.
func ReadingLess(a, b classify.Cluster) bool {
	overlap := a.BBox.VerticalOverlap(b.BBox)
	minHeight := a.BBox.Height
	if b.BBox.Height < minHeight {
		minHeight = b.BBox.Height
	}
	if minHeight > 0 && overlap/minHeight > 0.5 {
		return a.BBox.Left() < b.BBox.Left()
	}
	return a.BBox.Top() > b.BBox.Top()
}

// SortReadingOrder sorts clusters in place using ReadingLess
func SortReadingOrder(clusters []classify.Cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		return ReadingLess(clusters[i], clusters[j])
	})
}

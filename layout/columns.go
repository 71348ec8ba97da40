package layout

import (
	"sort"

	"github.com/docstrata/strata/classify"
)

// Config holds configuration for column detection and reading-order
// resolution
type Config struct {
	// MinGapWidth is the minimum whitespace gap width to consider as a
	// column gutter, in points
	// Default: 18
	MinGapWidth float64

	// MinGutterLines is the minimum number of consecutive line bands a
	// gutter must separate before it splits the flow into columns. Tuned
	// to avoid false-splitting justified-but-ragged single-column text.
	// Default: 4
	MinGutterLines int

	// FullWidthRatio is the fraction of the content width at or above
	// which a cluster is treated as full-width and excluded from gutter
	// detection
	// Default: 0.85
	FullWidthRatio float64

	// MaxColumns is the maximum number of columns to detect
	// Default: 4
	MaxColumns int

	// MinColumnWidth is the minimum width for a detected column, in points
	// Default: 40
	MinColumnWidth float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		MinGapWidth:    18.0,
		MinGutterLines: 4,
		FullWidthRatio: 0.85,
		MaxColumns:     4,
		MinColumnWidth: 40.0,
	}
}

// Result holds one page's clusters linearized into reading order.
// Page-header and page-footer clusters are routed out of the main flow;
// they attach to the document at page-transition points rather than
// inline.
type Result struct {
	// Ordered is the main-flow clusters in reading order
	Ordered []classify.Cluster

	// Headers are page-header clusters removed from the flow
	Headers []classify.Cluster

	// Footers are page-footer clusters removed from the flow
	Footers []classify.Cluster

	// ColumnCount is the maximum number of columns detected in any
	// vertical segment of the page (1 for single-column pages)
	ColumnCount int
}

// Resolver linearizes classified clusters into reading order
type Resolver struct {
	config Config
}

// NewResolver creates a resolver with default configuration
func NewResolver() *Resolver {
	return &Resolver{config: DefaultConfig()}
}

// NewResolverWithConfig creates a resolver with custom configuration
func NewResolverWithConfig(config Config) *Resolver {
	return &Resolver{config: config}
}

// Resolve orders a page's clusters for reading. Full-width clusters
// split the page into vertical segments; each segment is resolved into
// columns independently, columns are read left to right, and segments
// top to bottom.
func (r *Resolver) Resolve(clusters []classify.Cluster, pageWidth, pageHeight float64) *Result {
	result := &Result{ColumnCount: 1}

	var flow []classify.Cluster
	for _, cluster := range clusters {
		switch cluster.Kind {
		case classify.RegionPageHeader:
			result.Headers = append(result.Headers, cluster)
		case classify.RegionPageFooter:
			result.Footers = append(result.Footers, cluster)
		default:
			flow = append(flow, cluster)
		}
	}
	if len(flow) == 0 {
		return result
	}

	contentLeft, contentRight := contentExtent(flow)
	contentWidth := contentRight - contentLeft

	var fullWidth, narrow []classify.Cluster
	for _, cluster := range flow {
		if contentWidth > 0 && cluster.BBox.Width >= r.config.FullWidthRatio*contentWidth {
			fullWidth = append(fullWidth, cluster)
		} else {
			narrow = append(narrow, cluster)
		}
	}

	// Full-width clusters define segment boundaries, top to bottom
	sort.SliceStable(fullWidth, func(i, j int) bool {
		return fullWidth[i].BBox.Top() > fullWidth[j].BBox.Top()
	})

	segments := r.segment(fullWidth, narrow)

	for _, seg := range segments {
		if seg.boundary != nil {
			result.Ordered = append(result.Ordered, *seg.boundary)
			continue
		}
		ordered, columnCount := r.resolveSegment(seg.clusters, pageHeight)
		result.Ordered = append(result.Ordered, ordered...)
		if columnCount > result.ColumnCount {
			result.ColumnCount = columnCount
		}
	}

	return result
}

// segment is either a single full-width boundary cluster or a group of
// narrow clusters between two boundaries
type segment struct {
	boundary *classify.Cluster
	clusters []classify.Cluster
	top      float64
}

// segment partitions narrow clusters into vertical segments separated by
// the full-width clusters, and interleaves both in top-to-bottom order.
func (r *Resolver) segment(fullWidth, narrow []classify.Cluster) []segment {
	var segments []segment

	// Assign each narrow cluster to the gap below the nearest full-width
	// cluster above it
	groups := make(map[int][]classify.Cluster)
	for _, cluster := range narrow {
		idx := 0
		for i, fw := range fullWidth {
			if fw.BBox.Bottom() >= cluster.BBox.Center().Y {
				idx = i + 1
			}
		}
		groups[idx] = append(groups[idx], cluster)
	}

	if group, ok := groups[0]; ok {
		segments = append(segments, segment{clusters: group, top: groupTop(group)})
	}
	for i := range fullWidth {
		fw := fullWidth[i]
		segments = append(segments, segment{boundary: &fw, top: fw.BBox.Top()})
		if group, ok := groups[i+1]; ok {
			segments = append(segments, segment{clusters: group, top: groupTop(group)})
		}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].top > segments[j].top
	})
	return segments
}

// resolveSegment detects columns within one vertical segment and returns
// its clusters in reading order along with the column count.
func (r *Resolver) resolveSegment(clusters []classify.Cluster, pageHeight float64) ([]classify.Cluster, int) {
	gutters := r.findGutters(clusters)
	if len(gutters) == 0 {
		// Safe fallback: single column, top to bottom
		ordered := make([]classify.Cluster, len(clusters))
		copy(ordered, clusters)
		SortReadingOrder(ordered)
		return ordered, 1
	}

	// Column boundaries are the gutter centers
	boundaries := make([]float64, 0, len(gutters))
	for _, g := range gutters {
		boundaries = append(boundaries, (g.left+g.right)/2)
	}
	sort.Float64s(boundaries)

	columns := make([][]classify.Cluster, len(boundaries)+1)
	for _, cluster := range clusters {
		center := cluster.BBox.Center().X
		idx := 0
		for idx < len(boundaries) && center >= boundaries[idx] {
			idx++
		}
		columns[idx] = append(columns[idx], cluster)
	}

	var ordered []classify.Cluster
	columnCount := 0
	for _, column := range columns {
		if len(column) == 0 {
			continue
		}
		columnCount++
		sort.SliceStable(column, func(i, j int) bool {
			return ReadingLess(column[i], column[j])
		})
		ordered = append(ordered, column...)
	}
	return ordered, columnCount
}

// gutter represents a vertical whitespace band between two columns
type gutter struct {
	left, right float64
}

// findGutters locates vertical whitespace gaps that are wide enough and
// separate content for at least MinGutterLines consecutive line bands.
func (r *Resolver) findGutters(clusters []classify.Cluster) []gutter {
	if len(clusters) < r.config.MinGutterLines*2 {
		return nil
	}

	// Merge cluster X ranges into covered slabs
	type slab struct{ left, right float64 }
	slabs := make([]slab, 0, len(clusters))
	for _, cluster := range clusters {
		slabs = append(slabs, slab{cluster.BBox.Left(), cluster.BBox.Right()})
	}
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].left < slabs[j].left })

	merged := []slab{slabs[0]}
	for _, s := range slabs[1:] {
		last := &merged[len(merged)-1]
		if s.left <= last.right+r.config.MinGapWidth*0.25 {
			if s.right > last.right {
				last.right = s.right
			}
		} else {
			merged = append(merged, s)
		}
	}

	var candidates []gutter
	for i := 0; i < len(merged)-1; i++ {
		g := gutter{left: merged[i].right, right: merged[i+1].left}
		if g.right-g.left >= r.config.MinGapWidth {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Sort clusters into line bands, top to bottom, to verify each
	// candidate separates content for enough consecutive lines
	byTop := make([]classify.Cluster, len(clusters))
	copy(byTop, clusters)
	sort.SliceStable(byTop, func(i, j int) bool {
		return byTop[i].BBox.Top() > byTop[j].BBox.Top()
	})

	var gutters []gutter
	for _, g := range candidates {
		if r.gutterRunLength(byTop, g) >= r.config.MinGutterLines {
			gutters = append(gutters, g)
		}
		if len(gutters) >= r.config.MaxColumns-1 {
			break
		}
	}
	return gutters
}

// gutterRunLength returns the longest run of consecutive line bands in
// which the gutter separates content on both sides and is crossed by
// nothing. A cluster crossing the gap breaks the run; a band with
// content on one side only neither extends nor breaks it.
func (r *Resolver) gutterRunLength(byTop []classify.Cluster, g gutter) int {
	run, best := 0, 0
	i := 0
	for i < len(byTop) {
		// Collect one line band: clusters whose tops are within half a
		// line height of each other
		bandTop := byTop[i].BBox.Top()
		j := i
		crossed, leftSide, rightSide := false, false, false
		for j < len(byTop) && bandTop-byTop[j].BBox.Top() <= byTop[j].BBox.Height*0.8 {
			b := byTop[j].BBox
			if b.Left() < g.right && b.Right() > g.left {
				crossed = true
			} else if b.Right() <= g.left {
				leftSide = true
			} else if b.Left() >= g.right {
				rightSide = true
			}
			j++
		}

		if crossed || (!leftSide && !rightSide) {
			run = 0
		} else if leftSide && rightSide {
			run++
			if run > best {
				best = run
			}
		}
		i = j
	}
	return best
}

// groupTop returns the highest top edge in a group of clusters, the
// sort key that orders vertical segments top to bottom
func groupTop(clusters []classify.Cluster) float64 {
	top := clusters[0].BBox.Top()
	for _, cluster := range clusters[1:] {
		if cluster.BBox.Top() > top {
			top = cluster.BBox.Top()
		}
	}
	return top
}

// contentExtent returns the leftmost and rightmost content coordinates
func contentExtent(clusters []classify.Cluster) (left, right float64) {
	left = clusters[0].BBox.Left()
	right = clusters[0].BBox.Right()
	for _, cluster := range clusters[1:] {
		if cluster.BBox.Left() < left {
			left = cluster.BBox.Left()
		}
		if cluster.BBox.Right() > right {
			right = cluster.BBox.Right()
		}
	}
	return left, right
}

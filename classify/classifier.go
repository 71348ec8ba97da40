package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/docstrata/strata/model"
)

// Config holds configuration for region classification
type Config struct {
	// HeadingSizeRatio is the minimum font size relative to the page's
	// body size for a line to be considered a heading
	// Default: 1.15
	HeadingSizeRatio float64

	// MaxHeadingLines is the maximum number of wrapped lines merged into
	// one heading. A long wrapped title must not be split at font-size
	// boundaries.
	// Default: 3
	MaxHeadingLines int

	// FootnoteSizeRatio is the maximum font size relative to body size
	// for footnote candidates
	// Default: 0.92
	FootnoteSizeRatio float64

	// FootnoteBandRatio is the bottom fraction of the page searched for
	// footnotes
	// Default: 0.3
	FootnoteBandRatio float64

	// HeaderBandRatio is the top fraction of the page marked as the
	// header band
	// Default: 0.07
	HeaderBandRatio float64

	// FooterBandRatio is the bottom fraction of the page marked as the
	// footer band
	// Default: 0.07
	FooterBandRatio float64

	// MinTableLines is the minimum number of consecutive multi-run lines
	// required for a whitespace-aligned table candidate
	// Default: 3
	MinTableLines int

	// MinTableColumns is the minimum number of aligned column starts for
	// a table candidate
	// Default: 2
	MinTableColumns int

	// AlignmentTolerance is the maximum X difference for two edges to be
	// considered aligned, in points
	// Default: 3.0
	AlignmentTolerance float64

	// CellGapFactor scales the body font size to the minimum horizontal
	// gap that separates two cell runs on one line
	// Default: 1.8
	CellGapFactor float64

	// MaxCellCoverage is the fraction of a line's width covered by ink
	// above which a multi-run line reads as flowing text in columns
	// rather than table cells. Table rows are sparse; two-column body
	// text is not.
	// Default: 0.65
	MaxCellCoverage float64

	// IndentStep is the horizontal distance corresponding to one list
	// nesting level, in points
	// Default: 18.0
	IndentStep float64

	// MinConfidence is the confidence below which a cluster is tagged
	// RegionUnknown and passed through as plain text
	// Default: 0.35
	MinConfidence float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		HeadingSizeRatio:   1.15,
		MaxHeadingLines:    3,
		FootnoteSizeRatio:  0.92,
		FootnoteBandRatio:  0.3,
		HeaderBandRatio:    0.07,
		FooterBandRatio:    0.07,
		MinTableLines:      3,
		MinTableColumns:    2,
		AlignmentTolerance: 3.0,
		CellGapFactor:      1.8,
		MaxCellCoverage:    0.65,
		IndentStep:         18.0,
		MinConfidence:      0.35,
	}
}

var (
	footnoteMarkerPattern = regexp.MustCompile(`^([0-9]{1,2}|[¹²³⁴⁵⁶⁷⁸⁹⁰]+|[*†‡§¶])\s*(\S.*)$`)
	captionPattern        = regexp.MustCompile(`^(Figure|Fig\.?|FIGURE|Table|TABLE|Exhibit|Chart)\s*([0-9]+|[IVXLC]+)?\s*[.:–-]?\s+\S`)
	bulletPattern         = regexp.MustCompile(`^([•◦▪‣·∙–—*-])\s+(\S.*)$`)
	numberedPattern       = regexp.MustCompile(`^\(?([0-9]{1,3}|[a-z]|[ivxlc]{1,6})[.)]\s+(\S.*)$`)
)

// superscriptDigits maps superscript forms to their ASCII digits for
// footnote marker normalization
var superscriptDigits = strings.NewReplacer(
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
)

// Classifier assigns semantic region types to clusters on a page
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// ClassifyPage groups a page's primitives into typed clusters. The
// returned clusters are in top-to-bottom line order; reading order across
// columns is resolved later. Band membership is marked but clusters are
// not removed from the flow here; the recurring-text rule across pages
// decides that (see HeaderFooterDetector).
func (c *Classifier) ClassifyPage(page *model.Page, stats model.PageStats) []Cluster {
	lines := BuildLines(page.GlyphRuns())

	var clusters []Cluster

	// Image primitives become figure clusters directly
	for _, img := range page.Images() {
		clusters = append(clusters, Cluster{
			Kind:       RegionFigure,
			Confidence: 1.0,
			BBox:       img.BBox,
			Page:       page.Number,
			ImageRef:   img.ImageRef,
			Primitives: []model.Primitive{img},
		})
	}

	// Table candidate regions come out first so their member lines are
	// not classified as body text
	tableRegions, rest := c.findTableRegions(lines, page.VectorLines(), stats)
	clusters = append(clusters, tableRegions...)

	// Remaining lines split at wide gaps, so that side-by-side columns
	// sharing a baseline do not fuse into one line; the layout resolver
	// needs them apart to find the gutter
	clusters = append(clusters, c.classifyLines(c.splitWideGaps(rest, stats), stats)...)

	for i := range clusters {
		clusters[i].Band = c.band(clusters[i].BBox, stats)
	}

	sortTopToBottom(clusters)
	return clusters
}

// classifyLines assigns a region kind to each remaining line, merging
// wrapped headings, footnote continuations, and list continuations.
func (c *Classifier) classifyLines(lines []Cluster, stats model.PageStats) []Cluster {
	leftMargin := math.MaxFloat64
	for _, line := range lines {
		if line.BBox.Left() < leftMargin {
			leftMargin = line.BBox.Left()
		}
	}

	var clusters []Cluster
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.TrimSpace(line.Text) == "" {
			line.Kind = RegionUnknown
			line.Confidence = 0.2
			clusters = append(clusters, line)
			continue
		}

		if fn, ok := c.classifyFootnote(line, stats); ok {
			// Merge continuation lines: small font, bottom band, no
			// marker of their own
			j := i + 1
			for j < len(lines) && c.isFootnoteContinuation(lines[j], fn, stats) {
				fn = mergeContinuation(fn, lines[j])
				j++
			}
			i = j - 1
			clusters = append(clusters, fn)
			continue
		}

		if caption, ok := c.classifyCaption(line); ok {
			clusters = append(clusters, caption)
			continue
		}

		if item, ok := c.classifyListItem(line, leftMargin); ok {
			j := i + 1
			for j < len(lines) && c.isListContinuation(lines[j], item) {
				item = mergeContinuation(item, lines[j])
				j++
			}
			i = j - 1
			clusters = append(clusters, item)
			continue
		}

		if h, ok := c.classifyHeading(line, stats); ok {
			// A wrapped title spans several lines of the same size; merge
			// them rather than splitting at the line break
			group := []Cluster{h}
			j := i + 1
			for j < len(lines) && len(group) < c.config.MaxHeadingLines {
				next, nextOK := c.classifyHeading(lines[j], stats)
				if !nextOK || !sameFontSize(h.FontSize, next.FontSize) ||
					!adjacentLines(group[len(group)-1], next) {
					break
				}
				group = append(group, next)
				j++
			}
			i = j - 1
			merged := MergeClusters(group, " ")
			merged.Kind = RegionHeading
			clusters = append(clusters, merged)
			continue
		}

		line.Kind = RegionBody
		line.Confidence = 0.8
		clusters = append(clusters, line)
	}

	// Downgrade low-confidence classifications to Unknown; they are
	// preserved as plain text downstream, never dropped
	for i := range clusters {
		if clusters[i].Confidence < c.config.MinConfidence {
			clusters[i].Kind = RegionUnknown
		}
	}

	return clusters
}

// classifyHeading reports whether a line looks like a heading: a
// font-size outlier relative to the page's body size, or bold text at
// body size that is short and unterminated.
func (c *Classifier) classifyHeading(line Cluster, stats model.PageStats) (Cluster, bool) {
	if stats.BodyFontSize <= 0 {
		return line, false
	}

	ratio := line.FontSize / stats.BodyFontSize
	sizeOutlier := ratio >= c.config.HeadingSizeRatio
	boldAtBody := line.Bold && ratio >= 0.98 &&
		len(line.Text) <= 90 && !strings.HasSuffix(line.Text, ".")

	if !sizeOutlier && !boldAtBody {
		return line, false
	}

	line.Kind = RegionHeading
	line.Confidence = 0.6
	if sizeOutlier {
		line.Confidence = math.Min(0.6+(ratio-c.config.HeadingSizeRatio), 0.95)
	}
	return line, true
}

// classifyFootnote matches small-font lines in the bottom band that lead
// with a footnote marker.
func (c *Classifier) classifyFootnote(line Cluster, stats model.PageStats) (Cluster, bool) {
	if stats.Height <= 0 || stats.BodyFontSize <= 0 {
		return line, false
	}
	if line.BBox.Top() > stats.Height*c.config.FootnoteBandRatio {
		return line, false
	}
	if line.FontSize >= stats.BodyFontSize*c.config.FootnoteSizeRatio {
		return line, false
	}

	m := footnoteMarkerPattern.FindStringSubmatch(line.Text)
	if m == nil {
		return line, false
	}

	line.Kind = RegionFootnote
	line.Confidence = 0.85
	line.Marker = superscriptDigits.Replace(m[1])
	line.Text = m[2]
	return line, true
}

// isFootnoteContinuation reports whether a line continues the previous
// footnote: same band, similar size, no marker of its own.
func (c *Classifier) isFootnoteContinuation(line Cluster, fn Cluster, stats model.PageStats) bool {
	if line.BBox.Top() > stats.Height*c.config.FootnoteBandRatio {
		return false
	}
	if !sameFontSize(line.FontSize, fn.FontSize) {
		return false
	}
	if footnoteMarkerPattern.MatchString(line.Text) &&
		line.FontSize < stats.BodyFontSize*c.config.FootnoteSizeRatio {
		return false
	}
	return adjacentLines(fn, line)
}

// classifyCaption matches "Figure N" / "Table N" style lines
func (c *Classifier) classifyCaption(line Cluster) (Cluster, bool) {
	if !captionPattern.MatchString(line.Text) {
		return line, false
	}

	line.Kind = RegionCaption
	line.Confidence = 0.8
	if strings.HasPrefix(strings.ToUpper(line.Text), "TABLE") {
		line.Target = model.BlockTable
	} else {
		line.Target = model.BlockFigure
	}
	return line, true
}

// classifyListItem matches bulleted and numbered list lines, deriving
// nesting depth from indentation relative to the page's left margin.
func (c *Classifier) classifyListItem(line Cluster, leftMargin float64) (Cluster, bool) {
	var marker, text string
	ordered := false

	if m := bulletPattern.FindStringSubmatch(line.Text); m != nil {
		marker, text = m[1], m[2]
	} else if m := numberedPattern.FindStringSubmatch(line.Text); m != nil {
		marker, text = m[1], m[2]
		ordered = true
	} else {
		return line, false
	}

	line.Kind = RegionListItem
	line.Confidence = 0.75
	line.Marker = marker
	line.Text = text
	line.Ordered = ordered
	if c.config.IndentStep > 0 {
		line.Depth = int((line.BBox.Left() - leftMargin) / c.config.IndentStep)
		if line.Depth < 0 {
			line.Depth = 0
		}
	}
	return line, true
}

// isListContinuation reports whether a line continues a list item: no
// marker of its own, indented past the item's marker, vertically adjacent.
func (c *Classifier) isListContinuation(line Cluster, item Cluster) bool {
	if bulletPattern.MatchString(line.Text) || numberedPattern.MatchString(line.Text) {
		return false
	}
	if line.BBox.Left() < item.BBox.Left()-c.config.AlignmentTolerance {
		return false
	}
	return adjacentLines(item, line)
}

// band returns the vertical band a bbox center falls in
func (c *Classifier) band(bbox model.BBox, stats model.PageStats) Band {
	if stats.Height <= 0 {
		return BandNone
	}
	center := bbox.Center().Y
	if center >= stats.Height*(1-c.config.HeaderBandRatio) {
		return BandHeader
	}
	if center <= stats.Height*c.config.FooterBandRatio {
		return BandFooter
	}
	return BandNone
}

// findTableRegions pulls table candidate regions out of the line list.
// A region qualifies either because ruling lines form a grid around it,
// or because at least MinTableLines consecutive lines split into cell
// runs whose left edges align across at least MinTableColumns columns.
func (c *Classifier) findTableRegions(lines []Cluster, rules []model.Primitive, stats model.PageStats) (regions []Cluster, rest []Cluster) {
	taken := make([]bool, len(lines))

	// Ruled regions first: a grid of vector lines is the strongest signal
	for _, gridBBox := range ruledGridRegions(rules) {
		var members []int
		for i, line := range lines {
			if taken[i] {
				continue
			}
			if gridBBox.Expand(c.config.AlignmentTolerance).ContainsBox(line.BBox) {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}
		regions = append(regions, c.buildTableRegion(lines, members, taken, 0.9))
	}

	// Whitespace-aligned regions: consecutive multi-run lines with a
	// shared left-edge signature
	cellGap := c.config.CellGapFactor * stats.BodyFontSize
	if cellGap < 6 {
		cellGap = 6
	}

	runCounts := make([]int, len(lines))
	leftEdges := make([][]float64, len(lines))
	for i, line := range lines {
		if taken[i] {
			continue
		}
		runs := SplitCellRuns(line, cellGap)
		for _, run := range runs {
			leftEdges[i] = append(leftEdges[i], run.BBox.Left())
		}

		// Dense multi-run lines are flowing text in columns, not cells
		if lineCoverage(runs, line) > c.config.MaxCellCoverage {
			runCounts[i] = 1
			continue
		}
		runCounts[i] = len(runs)
	}

	start := -1
	for i := 0; i <= len(lines); i++ {
		multi := i < len(lines) && !taken[i] && runCounts[i] >= c.config.MinTableColumns
		if multi && start < 0 {
			start = i
		}
		if (!multi || i == len(lines)) && start >= 0 {
			if i-start >= c.config.MinTableLines && c.edgesAlign(leftEdges[start:i]) {
				var members []int
				for j := start; j < i; j++ {
					members = append(members, j)
				}
				regions = append(regions, c.buildTableRegion(lines, members, taken, 0.7))
			}
			start = -1
		}
	}

	for i, line := range lines {
		if !taken[i] {
			rest = append(rest, line)
		}
	}
	return regions, rest
}

// splitWideGaps splits each line at horizontal gaps wide enough to be a
// column gutter. Lines with no wide gap pass through unchanged.
func (c *Classifier) splitWideGaps(lines []Cluster, stats model.PageStats) []Cluster {
	gap := c.config.CellGapFactor * stats.BodyFontSize
	if gap < 6 {
		gap = 6
	}

	var out []Cluster
	for _, line := range lines {
		segments := SplitCellRuns(line, gap)
		if len(segments) <= 1 {
			out = append(out, line)
			continue
		}
		out = append(out, segments...)
	}
	return out
}

// lineCoverage returns the fraction of a line's width covered by its runs
func lineCoverage(runs []Cluster, line Cluster) float64 {
	if line.BBox.Width <= 0 {
		return 1
	}
	ink := 0.0
	for _, run := range runs {
		ink += run.BBox.Width
	}
	return ink / line.BBox.Width
}

// edgesAlign checks that at least MinTableColumns left-edge positions
// recur across at least MinTableLines of the given rows.
func (c *Classifier) edgesAlign(rows [][]float64) bool {
	var all []float64
	for _, row := range rows {
		all = append(all, row...)
	}
	sort.Float64s(all)

	aligned := 0
	i := 0
	for i < len(all) {
		j := i + 1
		for j < len(all) && all[j]-all[i] <= c.config.AlignmentTolerance {
			j++
		}
		if j-i >= c.config.MinTableLines {
			aligned++
		}
		i = j
	}
	return aligned >= c.config.MinTableColumns
}

// buildTableRegion merges member lines into one candidate cluster and
// marks them consumed.
func (c *Classifier) buildTableRegion(lines []Cluster, members []int, taken []bool, confidence float64) Cluster {
	group := make([]Cluster, 0, len(members))
	for _, idx := range members {
		group = append(group, lines[idx])
		taken[idx] = true
	}
	region := MergeClusters(group, "\n")
	region.Kind = RegionTableCandidate
	region.Confidence = confidence
	region.LineCount = len(members)
	return region
}

// ruledGridRegions groups vector lines into candidate grid areas: a
// group with at least two horizontal and two vertical rules is a grid.
func ruledGridRegions(rules []model.Primitive) []model.BBox {
	if len(rules) == 0 {
		return nil
	}

	type group struct {
		bbox model.BBox
		h, v int
	}

	var groups []group
	for _, rule := range rules {
		g := group{bbox: rule.BBox}
		if rule.BBox.Width >= rule.BBox.Height {
			g.h = 1
		} else {
			g.v = 1
		}

		// Absorb every existing group the rule touches: a single rule
		// can bridge groups that were disjoint until now, as a vertical
		// rule does for the separately spaced horizontals of a grid
		remaining := groups[:0]
		for _, existing := range groups {
			if existing.bbox.Expand(5.0).Intersects(g.bbox) {
				g.bbox = g.bbox.Union(existing.bbox)
				g.h += existing.h
				g.v += existing.v
			} else {
				remaining = append(remaining, existing)
			}
		}
		groups = append(remaining, g)
	}

	var grids []model.BBox
	for _, g := range groups {
		if g.h >= 2 && g.v >= 2 {
			grids = append(grids, g.bbox)
		}
	}
	return grids
}

// mergeContinuation folds a continuation line into an existing cluster
func mergeContinuation(cluster, line Cluster) Cluster {
	merged := MergeClusters([]Cluster{cluster, line}, " ")
	return merged
}

// sameFontSize compares sizes with a half-point tolerance
func sameFontSize(a, b float64) bool {
	return absFloat(a-b) <= 0.5
}

// adjacentLines reports whether b directly follows a vertically, within
// 1.6x the line height
func adjacentLines(a, b Cluster) bool {
	gap := a.BBox.Bottom() - b.BBox.Top()
	limit := b.BBox.Height * 1.6
	if limit < 4 {
		limit = 4
	}
	return gap > -b.BBox.Height*0.5 && gap < limit
}

// sortTopToBottom orders clusters by top edge descending (top of page
// first), breaking ties by left edge
func sortTopToBottom(clusters []Cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		if absFloat(clusters[i].BBox.Top()-clusters[j].BBox.Top()) > 2.0 {
			return clusters[i].BBox.Top() > clusters[j].BBox.Top()
		}
		return clusters[i].BBox.Left() < clusters[j].BBox.Left()
	})
}

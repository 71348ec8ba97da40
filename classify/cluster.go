package classify

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docstrata/strata/model"
)

// RegionKind represents the semantic type assigned to a cluster
type RegionKind int

const (
	RegionUnknown RegionKind = iota
	RegionBody
	RegionHeading
	RegionListItem
	RegionTableCandidate
	RegionFigure
	RegionCaption
	RegionFootnote
	RegionPageHeader
	RegionPageFooter
)

func (k RegionKind) String() string {
	switch k {
	case RegionBody:
		return "body"
	case RegionHeading:
		return "heading"
	case RegionListItem:
		return "list_item"
	case RegionTableCandidate:
		return "table_candidate"
	case RegionFigure:
		return "figure"
	case RegionCaption:
		return "caption"
	case RegionFootnote:
		return "footnote"
	case RegionPageHeader:
		return "page_header"
	case RegionPageFooter:
		return "page_footer"
	default:
		return "unknown"
	}
}

// Band marks which vertical band of the page a cluster falls in. Band
// membership alone never removes a cluster from the main flow; the
// recurring-text rule does (see HeaderFooterDetector).
type Band int

const (
	BandNone Band = iota
	BandHeader
	BandFooter
)

// Cluster is a group of primitives spatially and stylistically coherent
// enough to act as one line, region, or cell candidate. Clusters are
// ephemeral: created here, consumed by the resolver and reconstructor,
// and discarded after assembly.
type Cluster struct {
	// Kind is the assigned region type
	Kind RegionKind

	// Band marks header/footer band membership
	Band Band

	// Confidence is the classification confidence (0-1)
	Confidence float64

	// BBox is the cluster's bounding box
	BBox model.BBox

	// Baseline is the Y coordinate of the first line's baseline
	Baseline float64

	// Primitives are the member primitives in reading order
	Primitives []model.Primitive

	// Text is the assembled, NFC-normalized text content
	Text string

	// FontSize is the dominant font size, weighted by text length
	FontSize float64

	// Bold reports whether the majority of the text is bold
	Bold bool

	// LineCount is the number of source line bands merged into this cluster
	LineCount int

	// Page is the 1-indexed page number
	Page int

	// ImageRef identifies the source image for figure clusters
	ImageRef string

	// Marker is the leading marker for footnote and list clusters
	Marker string

	// Depth is the nesting depth for list clusters
	Depth int

	// Ordered reports whether a list cluster uses a numbered marker
	Ordered bool

	// Target is the caption target kind for caption clusters
	Target model.BlockKind
}

// BuildLines groups glyph-run primitives into line clusters: runs sharing
// a baseline band are merged left to right, with a space inserted across
// word gaps, and the joined text NFC-normalized. Lines are returned top
// to bottom.
func BuildLines(runs []model.Primitive) []Cluster {
	if len(runs) == 0 {
		return nil
	}

	type lineBand struct {
		y    float64
		runs []model.Primitive
	}

	var bands []lineBand
	for _, run := range runs {
		tolerance := run.BBox.Height * 0.5
		if tolerance < 1.0 {
			tolerance = 1.0
		}
		found := false
		for i := range bands {
			if absFloat(run.BBox.Y-bands[i].y) <= tolerance {
				bands[i].runs = append(bands[i].runs, run)
				found = true
				break
			}
		}
		if !found {
			bands = append(bands, lineBand{y: run.BBox.Y, runs: []model.Primitive{run}})
		}
	}

	// Top of page first
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].y > bands[j].y
	})

	lines := make([]Cluster, 0, len(bands))
	for _, band := range bands {
		lines = append(lines, assembleLine(band.runs))
	}
	return lines
}

// assembleLine builds a single line cluster from runs on one baseline
func assembleLine(runs []model.Primitive) Cluster {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].BBox.X < runs[j].BBox.X
	})

	var sb strings.Builder
	bbox := model.BBox{}
	var weightedSize, boldWeight, totalWeight float64

	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := run.BBox.Left() - prev.BBox.Right()
			if gap > wordGapThreshold(run) {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(run.Text)
		bbox = bbox.Union(run.BBox)

		weight := float64(len(run.Text))
		if weight == 0 {
			weight = 1
		}
		weightedSize += run.FontSize * weight
		if run.Weight == model.WeightBold {
			boldWeight += weight
		}
		totalWeight += weight
	}

	cluster := Cluster{
		Kind:       RegionUnknown,
		BBox:       bbox,
		Baseline:   bbox.Bottom(),
		Primitives: runs,
		Text:       norm.NFC.String(strings.TrimSpace(sb.String())),
		LineCount:  1,
	}
	if len(runs) > 0 {
		cluster.Page = runs[0].Page
	}
	if totalWeight > 0 {
		cluster.FontSize = weightedSize / totalWeight
		cluster.Bold = boldWeight/totalWeight > 0.5
	}
	return cluster
}

// wordGapThreshold returns the horizontal gap above which two runs on the
// same line are separated by a space.
func wordGapThreshold(run model.Primitive) float64 {
	if run.FontSize > 0 {
		return run.FontSize * 0.18
	}
	return run.BBox.Height * 0.18
}

// SplitCellRuns splits a line cluster into cell-run sub-clusters at wide
// horizontal gaps. A gap wider than minGap starts a new run. Used for
// whitespace-aligned table detection and reconstruction.
func SplitCellRuns(line Cluster, minGap float64) []Cluster {
	if len(line.Primitives) == 0 {
		return nil
	}

	sorted := make([]model.Primitive, len(line.Primitives))
	copy(sorted, line.Primitives)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.X < sorted[j].BBox.X
	})

	var groups [][]model.Primitive
	current := []model.Primitive{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].BBox.Left() - current[len(current)-1].BBox.Right()
		if gap > minGap {
			groups = append(groups, current)
			current = []model.Primitive{sorted[i]}
		} else {
			current = append(current, sorted[i])
		}
	}
	groups = append(groups, current)

	runs := make([]Cluster, 0, len(groups))
	for _, group := range groups {
		runs = append(runs, assembleLine(group))
	}
	return runs
}

// MergeClusters combines several clusters into one, concatenating text
// with the given separator and unioning bounding boxes. The first
// cluster's classification fields are kept.
func MergeClusters(clusters []Cluster, sep string) Cluster {
	if len(clusters) == 0 {
		return Cluster{}
	}

	merged := clusters[0]
	for _, c := range clusters[1:] {
		merged.BBox = merged.BBox.Union(c.BBox)
		if c.Text != "" {
			if merged.Text != "" {
				merged.Text += sep
			}
			merged.Text += c.Text
		}
		merged.Primitives = append(merged.Primitives, c.Primitives...)
		merged.LineCount += c.LineCount
	}
	return merged
}

// absFloat returns the absolute value of a float64
func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

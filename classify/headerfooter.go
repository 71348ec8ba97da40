package classify

import (
	"regexp"
	"strings"
)

// PageClusters holds the classified clusters of a single page, the unit
// of input for cross-page header/footer resolution.
type PageClusters struct {
	PageNumber int
	Width      float64
	Height     float64
	Clusters   []Cluster
}

// HeaderFooterConfig holds configuration for recurring header/footer
// detection
type HeaderFooterConfig struct {
	// MinConsecutive is the number of consecutive pages identical band
	// text must recur on before it is demoted out of the main flow
	// Default: 2
	MinConsecutive int

	// MinPages is the minimum document length for detection to run at
	// all; shorter documents keep all band text inline
	// Default: 2
	MinPages int
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		MinConsecutive: 2,
		MinPages:       2,
	}
}

// HeaderFooterDetector resolves band clusters across pages. A cluster in
// the header or footer band stays in the main flow (body classification
// is preferred) unless its normalized text recurs on MinConsecutive
// consecutive pages, in which case it becomes a page header or footer.
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{config: DefaultHeaderFooterConfig()}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom
// configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{config: config}
}

var pageNumberDigits = regexp.MustCompile(`[0-9]+`)

// normalizeBandText canonicalizes band text for recurrence comparison:
// digits collapse to a placeholder so "Page 3" and "Page 4" match, and
// whitespace is squeezed.
func normalizeBandText(text string) string {
	text = pageNumberDigits.ReplaceAllString(text, "#")
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Resolve marks recurring band clusters as page headers/footers in
// place. Footnote clusters are exempt: a recurring footnote marker is
// still a footnote.
func (d *HeaderFooterDetector) Resolve(pages []PageClusters) {
	if len(pages) < d.config.MinPages {
		return
	}

	// Map normalized band text -> sorted list of page indices it occurs on
	type occurrence struct {
		pages map[int]bool
	}
	headerTexts := make(map[string]*occurrence)
	footerTexts := make(map[string]*occurrence)

	record := func(m map[string]*occurrence, text string, pageIdx int) {
		key := normalizeBandText(text)
		if key == "" {
			return
		}
		occ := m[key]
		if occ == nil {
			occ = &occurrence{pages: make(map[int]bool)}
			m[key] = occ
		}
		occ.pages[pageIdx] = true
	}

	for i, page := range pages {
		for _, cluster := range page.Clusters {
			if cluster.Kind == RegionFootnote {
				continue
			}
			switch cluster.Band {
			case BandHeader:
				record(headerTexts, cluster.Text, i)
			case BandFooter:
				record(footerTexts, cluster.Text, i)
			}
		}
	}

	recurring := func(m map[string]*occurrence, text string, pageIdx int) bool {
		occ := m[normalizeBandText(text)]
		if occ == nil {
			return false
		}
		// Require a run of MinConsecutive consecutive pages including
		// this one
		for start := pageIdx - d.config.MinConsecutive + 1; start <= pageIdx; start++ {
			run := true
			for p := start; p < start+d.config.MinConsecutive; p++ {
				if !occ.pages[p] {
					run = false
					break
				}
			}
			if run {
				return true
			}
		}
		return false
	}

	for i := range pages {
		for j := range pages[i].Clusters {
			cluster := &pages[i].Clusters[j]
			if cluster.Kind == RegionFootnote {
				continue
			}
			switch cluster.Band {
			case BandHeader:
				if recurring(headerTexts, cluster.Text, i) {
					cluster.Kind = RegionPageHeader
					cluster.Confidence = 0.9
				}
			case BandFooter:
				if recurring(footerTexts, cluster.Text, i) {
					cluster.Kind = RegionPageFooter
					cluster.Confidence = 0.9
				}
			}
		}
	}
}

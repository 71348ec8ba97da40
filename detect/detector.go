// Package detect provides pluggable region detection: an external
// detector proposes labeled candidate regions for a rasterized page, and
// those proposals are merged into the geometric classification as hints.
//
// The built-in detector wraps the Tesseract layout analyzer via
// gosseract and is compiled in only with the "detector" build tag; the
// default build ships a stub so the module has no hard dependency on a
// system Tesseract install. Any other detector can be plugged in by
// implementing RegionDetector.
package detect

import (
	"context"

	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/model"
)

// RegionLabel is the label vocabulary external detectors map into
type RegionLabel int

const (
	LabelUnknown RegionLabel = iota
	LabelText
	LabelTable
	LabelFigure
)

func (l RegionLabel) String() string {
	switch l {
	case LabelText:
		return "text"
	case LabelTable:
		return "table"
	case LabelFigure:
		return "figure"
	default:
		return "unknown"
	}
}

// CandidateRegion is one region proposed by an external detector, in
// page coordinates
type CandidateRegion struct {
	Label      RegionLabel
	BBox       model.BBox
	Confidence float64
}

// RegionDetector proposes candidate regions for a page. Implementations
// must be safe for concurrent use by multiple goroutines; the pipeline
// calls DetectRegions from one worker per page.
type RegionDetector interface {
	DetectRegions(ctx context.Context, page *model.Page) ([]CandidateRegion, error)
}

// ApplyHints merges detector proposals into geometrically classified
// clusters. A hint only upgrades: a cluster already classified with
// higher confidence than the overlapping hint keeps its kind. Hints
// never move header/footer clusters back into the flow.
func ApplyHints(clusters []classify.Cluster, hints []CandidateRegion) []classify.Cluster {
	for i := range clusters {
		c := &clusters[i]
		if c.Kind == classify.RegionPageHeader || c.Kind == classify.RegionPageFooter {
			continue
		}
		for _, hint := range hints {
			if hint.BBox.OverlapRatio(c.BBox) < 0.5 {
				continue
			}
			if hint.Confidence <= c.Confidence {
				continue
			}
			switch hint.Label {
			case LabelTable:
				c.Kind = classify.RegionTableCandidate
				c.Confidence = hint.Confidence
			case LabelFigure:
				c.Kind = classify.RegionFigure
				c.Confidence = hint.Confidence
			case LabelText:
				if c.Kind == classify.RegionUnknown {
					c.Kind = classify.RegionBody
					c.Confidence = hint.Confidence
				}
			}
		}
	}
	return clusters
}

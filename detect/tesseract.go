//go:build detector

package detect

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/docstrata/strata/model"
)

// TesseractDetector proposes regions using Tesseract's page layout
// analysis. Only block-level bounding boxes are used; no character
// recognition output is consumed.
type TesseractDetector struct {
	dpi float64
}

// NewTesseractDetector creates a detector backed by the system Tesseract
// install. Requires building with the "detector" tag.
func NewTesseractDetector() (*TesseractDetector, error) {
	return &TesseractDetector{dpi: DefaultDPI}, nil
}

// Close releases detector resources
func (d *TesseractDetector) Close() error {
	return nil
}

// DetectRegions rasterizes the page and returns Tesseract's layout
// blocks as candidate text regions. A fresh client per call keeps the
// detector safe for concurrent use.
func (d *TesseractDetector) DetectRegions(ctx context.Context, page *model.Page) ([]CandidateRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := Rasterize(page, d.dpi)
	data, err := EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page raster: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("layout analysis failed: %w", err)
	}

	regions := make([]CandidateRegion, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, CandidateRegion{
			Label:      LabelText,
			BBox:       pixelToPage(box.Box, page.Height, d.dpi),
			Confidence: box.Confidence / 100.0,
		})
	}
	return regions, nil
}

//go:build !detector

package detect

import (
	"context"
	"errors"

	"github.com/docstrata/strata/model"
)

// ErrDetectorNotEnabled is returned when the Tesseract detector is used
// but was not compiled in. Rebuild with -tags detector to enable it.
var ErrDetectorNotEnabled = errors.New("region detector not enabled; rebuild with -tags detector")

// TesseractDetector is the stub detector used when the "detector" build
// tag is not set
type TesseractDetector struct{}

// NewTesseractDetector returns an error indicating detector support is
// not enabled
func NewTesseractDetector() (*TesseractDetector, error) {
	return nil, ErrDetectorNotEnabled
}

// Close is a no-op for the stub detector. Safe to call on nil.
func (d *TesseractDetector) Close() error {
	return nil
}

// DetectRegions returns an error indicating detector support is not
// enabled
func (d *TesseractDetector) DetectRegions(ctx context.Context, page *model.Page) ([]CandidateRegion, error) {
	return nil, ErrDetectorNotEnabled
}

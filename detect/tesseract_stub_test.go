//go:build !detector

package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/docstrata/strata/model"
)

func TestNewTesseractDetectorReturnsError(t *testing.T) {
	detector, err := NewTesseractDetector()
	if err == nil {
		t.Error("Expected error from NewTesseractDetector when detector is disabled")
	}
	if !errors.Is(err, ErrDetectorNotEnabled) {
		t.Errorf("Expected ErrDetectorNotEnabled, got: %v", err)
	}
	if detector != nil {
		t.Error("Expected nil detector when detector is disabled")
	}
}

func TestStubDetectRegions(t *testing.T) {
	var detector *TesseractDetector
	if err := detector.Close(); err != nil {
		t.Errorf("Close on nil detector should not error: %v", err)
	}

	d := &TesseractDetector{}
	_, err := d.DetectRegions(context.Background(), model.NewPage(1, 612, 792))
	if !errors.Is(err, ErrDetectorNotEnabled) {
		t.Errorf("Expected ErrDetectorNotEnabled, got: %v", err)
	}
}

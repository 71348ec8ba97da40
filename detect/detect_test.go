package detect

import (
	"image"
	"testing"

	"github.com/docstrata/strata/classify"
	"github.com/docstrata/strata/model"
)

func TestRasterizeDimensions(t *testing.T) {
	page := model.NewPage(1, 612, 792)
	img := Rasterize(page, 72)

	if img.Bounds().Dx() != 612 || img.Bounds().Dy() != 792 {
		t.Errorf("72 DPI raster should match point dimensions, got %v", img.Bounds())
	}

	img = Rasterize(page, 144)
	if img.Bounds().Dx() != 1224 || img.Bounds().Dy() != 1584 {
		t.Errorf("144 DPI raster should double dimensions, got %v", img.Bounds())
	}
}

func TestRasterizeInksPrimitives(t *testing.T) {
	page := model.NewPage(1, 100, 100)
	page.AddPrimitive(model.Primitive{
		Kind: model.PrimitiveGlyphRun,
		Text: "x",
		BBox: model.BBox{X: 10, Y: 80, Width: 20, Height: 10},
		Page: 1,
	})

	img := Rasterize(page, 72)

	// Page box (10..30, 80..90) maps to image rows 10..20
	r, g, b, _ := img.At(15, 15).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("primitive box should be inked black")
	}
	r, g, b, _ = img.At(50, 50).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("empty area should stay white")
	}
}

func TestPixelToPageRoundTrip(t *testing.T) {
	page := model.NewPage(1, 612, 792)
	box := model.BBox{X: 72, Y: 700, Width: 100, Height: 20}
	page.AddPrimitive(model.Primitive{Kind: model.PrimitiveGlyphRun, Text: "x", BBox: box, Page: 1})

	scale := DefaultDPI / 72.0
	pixels := image.Rect(
		int(box.Left()*scale+0.5),
		int((page.Height-box.Top())*scale+0.5),
		int(box.Right()*scale+0.5),
		int((page.Height-box.Bottom())*scale+0.5),
	)
	rect := pixelToPage(pixels, page.Height, DefaultDPI)

	if absDiff(rect.X, box.X) > 1 || absDiff(rect.Y, box.Y) > 1 ||
		absDiff(rect.Width, box.Width) > 1 || absDiff(rect.Height, box.Height) > 1 {
		t.Errorf("round trip drifted: %+v vs %+v", rect, box)
	}
}

func TestApplyHintsUpgradesLowConfidence(t *testing.T) {
	clusters := []classify.Cluster{
		{
			Kind:       classify.RegionBody,
			Confidence: 0.4,
			BBox:       model.BBox{X: 72, Y: 400, Width: 300, Height: 100},
		},
		{
			Kind:       classify.RegionBody,
			Confidence: 0.95,
			BBox:       model.BBox{X: 72, Y: 200, Width: 300, Height: 100},
		},
	}
	hints := []CandidateRegion{
		{Label: LabelTable, Confidence: 0.8, BBox: model.BBox{X: 70, Y: 395, Width: 310, Height: 110}},
		{Label: LabelTable, Confidence: 0.8, BBox: model.BBox{X: 70, Y: 195, Width: 310, Height: 110}},
	}

	out := ApplyHints(clusters, hints)

	if out[0].Kind != classify.RegionTableCandidate {
		t.Errorf("low-confidence cluster should take the hint, got %s", out[0].Kind)
	}
	if out[1].Kind != classify.RegionBody {
		t.Errorf("high-confidence cluster should keep its kind, got %s", out[1].Kind)
	}
}

func TestApplyHintsIgnoresDisjointRegions(t *testing.T) {
	clusters := []classify.Cluster{{
		Kind:       classify.RegionBody,
		Confidence: 0.4,
		BBox:       model.BBox{X: 72, Y: 600, Width: 300, Height: 50},
	}}
	hints := []CandidateRegion{{
		Label:      LabelFigure,
		Confidence: 0.9,
		BBox:       model.BBox{X: 72, Y: 100, Width: 300, Height: 50},
	}}

	out := ApplyHints(clusters, hints)
	if out[0].Kind != classify.RegionBody {
		t.Errorf("disjoint hint should not apply, got %s", out[0].Kind)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

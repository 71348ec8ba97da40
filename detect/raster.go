package detect

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/docstrata/strata/model"
)

// DefaultDPI is the rasterization resolution handed to detectors
const DefaultDPI = 150.0

// Rasterize renders a coarse binary image of the page at the given DPI:
// white background with every primitive's bounding box filled black.
// Detectors that analyze layout geometry (rather than glyph shapes) only
// need the ink distribution, not a faithful render.
func Rasterize(page *model.Page, dpi float64) *image.RGBA {
	scale := dpi / 72.0
	w := int(page.Width*scale + 0.5)
	h := int(page.Height*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	ink := image.NewUniform(color.Black)
	for _, prim := range page.Primitives {
		// Page Y grows upward, image Y grows downward
		x0 := int(prim.BBox.Left()*scale + 0.5)
		x1 := int(prim.BBox.Right()*scale + 0.5)
		y0 := int((page.Height-prim.BBox.Top())*scale + 0.5)
		y1 := int((page.Height-prim.BBox.Bottom())*scale + 0.5)
		rect := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
		draw.Draw(img, rect, ink, image.Point{}, draw.Src)
	}
	return img
}

// ScaleImage resizes an image to the given width, preserving the aspect
// ratio
func ScaleImage(src image.Image, width int) *image.RGBA {
	bounds := src.Bounds()
	if bounds.Dx() == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	height := bounds.Dy() * width / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// EncodePNG encodes an image as PNG bytes for detectors that consume
// encoded images
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pixelToPage converts an image-space rectangle back to page coordinates
func pixelToPage(rect image.Rectangle, pageHeight, dpi float64) model.BBox {
	scale := 72.0 / dpi
	x := float64(rect.Min.X) * scale
	top := pageHeight - float64(rect.Min.Y)*scale
	bottom := pageHeight - float64(rect.Max.Y)*scale
	return model.NewBBoxFromCorners(x, bottom, float64(rect.Max.X)*scale, top)
}

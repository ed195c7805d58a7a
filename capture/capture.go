// Package capture acquires frames from the screen or from disk and
// reduces them to the flat 8-bit greyscale buffers the fiducial pipeline
// scans. Color conversion and display are the only image concerns this
// package owns; the pipeline itself never touches image.Image.
package capture

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GrabSelection captures only the given rectangle of the screen.
func GrabSelection(selectionArea image.Rectangle) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(selectionArea)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadImageFile decodes an image file from disk (PNG/JPEG/etc, whatever
// imaging's underlying decoders support), for feeding recorded frames or
// generated marker fixtures through the pipeline outside of a live
// capture session.
func LoadImageFile(path string) (image.Image, error) {
	return imaging.Open(path)
}

// Greyscale flattens img to a row-major 8-bit luma buffer plus its
// dimensions, the shape the fiducial pipeline's scanline pass consumes.
func Greyscale(img image.Image) (buf []uint8, width, height int) {
	return GreyscaleScaled(img, 1.0)
}

// GreyscaleScaled behaves like Greyscale but first resizes img by scale
// (1.0 leaves it at native resolution), for callers trading marker-size
// precision for throughput on large capture regions.
func GreyscaleScaled(img image.Image, scale float64) (buf []uint8, width, height int) {
	if scale > 0 && scale != 1.0 {
		bounds := img.Bounds()
		w := int(float64(bounds.Dx()) * scale)
		h := int(float64(bounds.Dy()) * scale)
		if w > 0 && h > 0 {
			img = imaging.Resize(img, w, h, imaging.Lanczos)
		}
	}
	grey := imaging.Grayscale(img)
	bounds := grey.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	buf = make([]uint8, width*height)
	for y := 0; y < height; y++ {
		rowStart := y * grey.Stride
		for x := 0; x < width; x++ {
			// imaging.Grayscale returns NRGBA with R==G==B; the luma
			// value is already computed, so any channel carries it.
			buf[y*width+x] = grey.Pix[rowStart+x*4]
		}
	}
	return buf, width, height
}

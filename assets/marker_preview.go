// Package assets provides the small set of static images the UI shows
// outside of live capture, such as the marker preview swatch on the
// config panel.
package assets

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/soocke/fiducial-go/internal/markergen"
)

const previewSize = 160

// pattern is the reference bullseye stamped into the preview image. Its
// dimensions are unrelated to any marker actually being scanned; it
// only illustrates the ring grammar the detector looks for.
var pattern = markergen.Pattern{CenterX: previewSize / 2, CenterY: previewSize / 2, Order: 4, RingWidth: 8}

var (
	previewOnce sync.Once
	previewImg  *image.Gray
)

// MarkerPreviewImage renders a true circular bullseye disc matching the
// ring grammar the pipeline looks for, for display in the UI.
func MarkerPreviewImage() image.Image {
	previewOnce.Do(func() {
		previewImg = image.NewGray(image.Rect(0, 0, previewSize, previewSize))
		cx, cy := float64(pattern.CenterX), float64(pattern.CenterY)
		for y := 0; y < previewSize; y++ {
			for x := 0; x < previewSize; x++ {
				dx, dy := float64(x)-cx, float64(y)-cy
				r := int(math.Round(math.Hypot(dx, dy)))
				previewImg.SetGray(x, y, color.Gray{Y: pattern.MagnitudeAt(r)})
			}
		}
	})
	return previewImg
}

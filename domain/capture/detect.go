package capture

import (
	"errors"
	"image"

	"github.com/soocke/fiducial-go/capture"
	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/fiducial"
	"github.com/soocke/fiducial-go/pnp"
)

// DetectMarkers greyscale-converts frame and runs it through a fresh
// fiducial.Detector built from cfg, scanline by scanline. It is the
// capture-layer glue between a captured frame (live or loaded from
// disk) and the pipeline, which only ever sees flat 8-bit magnitude
// values.
func DetectMarkers(frame image.Image, cfg *config.Config) (fiducial.FrameResult, error) {
	if frame == nil {
		return fiducial.FrameResult{}, errors.New("detect markers: nil frame")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	buf, width, height := capture.GreyscaleScaled(frame, cfg.AnalysisScale)
	if width == 0 || height == 0 {
		return fiducial.FrameResult{}, errors.New("detect markers: empty frame")
	}

	fcfg := fiducial.Config{
		FrameWidth:  width,
		FrameHeight: height,
		Homer:       cfg.Homer,
		Hoparser:    cfg.Hoparser,
		MCParser:    cfg.MCParser,
	}
	d := fiducial.New[uint8, int32](fcfg, pnp.NopSolver{}, nil)
	stride := cfg.Stride
	if stride <= 0 {
		stride = 1
	}
	for y := 0; y < height; y += stride {
		row := buf[y*width : (y+1)*width]
		for _, mag := range row {
			d.Next(mag)
		}
		d.EndLine()
	}
	return d.EndImageFrame(), nil
}

package session

import (
	"log/slog"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/fiducial"
	"github.com/soocke/fiducial-go/internal/mcparser"
	"github.com/soocke/fiducial-go/pnp"
)

// pipelineDetector adapts a fiducial.Detector to the FrameDetector
// interface the session FSM depends on, discarding the pose half of
// fiducial.FrameResult: pose solving needs a world-point mapping this
// package has no opinion about, so it is left to callers that construct
// their own DetectorFactory when they need it.
type pipelineDetector struct {
	d *fiducial.Detector[uint8, int32]
}

// NewPipelineDetectorFactory returns a DetectorFactory backed by the
// real fiducial pipeline, sized to width x height frames.
func NewPipelineDetectorFactory(width, height int) DetectorFactory {
	return func(cfg *config.Config, logger *slog.Logger) FrameDetector {
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		fcfg := fiducial.Config{
			FrameWidth:  width,
			FrameHeight: height,
			Homer:       cfg.Homer,
			Hoparser:    cfg.Hoparser,
			MCParser:    cfg.MCParser,
		}
		return &pipelineDetector{d: fiducial.New[uint8, int32](fcfg, pnp.NopSolver{}, nil)}
	}
}

func (p *pipelineDetector) Next(mag uint8) (bool, bool)          { return p.d.Next(mag) }
func (p *pipelineDetector) EndLine()                             { p.d.EndLine() }
func (p *pipelineDetector) EndImageFrame() mcparser.ImageFrameResult {
	return p.d.EndImageFrame().Markers
}

var _ FrameDetector = (*pipelineDetector)(nil)

// Package fiducial wires the 2-D marker assembler together with a pose
// solver, mirroring the source's Fast3DPoser: a thin pass-through that
// forwards pixels down to MCParser and, once a frame closes, arranges a
// single call into the injected pose collaborator with that frame's
// marker set.
package fiducial

import (
	"github.com/soocke/fiducial-go/internal/homer"
	"github.com/soocke/fiducial-go/internal/hoparser"
	"github.com/soocke/fiducial-go/internal/mcparser"
	"github.com/soocke/fiducial-go/internal/numeric"
	"github.com/soocke/fiducial-go/pnp"
)

// WorldPoint is a caller-supplied 3-D reference position, keyed by
// marker order, used to build point correspondences for the pose solver.
// A physical rig using this system plants markers of known order at
// known world coordinates; the detector does not know or guess this
// layout on its own (out of scope, see the source's own comment that the
// 2D->3D calculation is not part of online detection).
type WorldPoint struct{ X, Y, Z float64 }

// Config bundles the frame dimensions (needed to normalise pixel
// coordinates for the pose solver) with the three pipeline configs.
type Config struct {
	FrameWidth, FrameHeight int
	Homer                   homer.Setup
	Hoparser                hoparser.Setup
	MCParser                mcparser.Config
}

// DefaultConfig returns the pipeline's stock tuning for a given frame
// size.
func DefaultConfig(width, height int) Config {
	return Config{
		FrameWidth:  width,
		FrameHeight: height,
		Homer:       homer.DefaultSetup(),
		Hoparser:    hoparser.DefaultSetup(),
		MCParser:    mcparser.DefaultConfig(),
	}
}

// FrameResult bundles the 2-D detections for a frame with the pose
// solved from them, when a world-point mapping and solver were supplied.
type FrameResult struct {
	Markers mcparser.ImageFrameResult
	Pose    pnp.Pose
	Posed   bool
}

// Detector is the top-level online pipeline: pixel stream in, 2-D
// markers (and optionally a solved pose) out. MT is the magnitude type,
// CT the accumulator type.
type Detector[MT numeric.Magnitude, CT numeric.Accumulator] struct {
	cfg Config
	mcp *mcparser.MCParser[MT, CT]

	solver     pnp.Solver
	worldByOrd map[int]WorldPoint
}

// New returns a Detector using solver to resolve poses and worldByOrder
// to map a detected marker's order to its known world position. Pass
// pnp.NopSolver{} and a nil map to run detection only, with no pose
// solving attempted.
func New[MT numeric.Magnitude, CT numeric.Accumulator](cfg Config, solver pnp.Solver, worldByOrder map[int]WorldPoint) *Detector[MT, CT] {
	return &Detector[MT, CT]{
		cfg:        cfg,
		mcp:        mcparser.New[MT, CT](cfg.MCParser, cfg.Hoparser, cfg.Homer),
		solver:     solver,
		worldByOrd: worldByOrder,
	}
}

// Next feeds the next pixel magnitude into the pipeline, returning
// Hoparser's raw {foundMarker, isToken} pair for debug/visualisation.
func (d *Detector[MT, CT]) Next(mag MT) (foundMarker bool, isToken bool) {
	return d.mcp.Next(mag)
}

// EndLine signals a scanline boundary.
func (d *Detector[MT, CT]) EndLine() { d.mcp.EndLine() }

// EndImageFrame closes the frame, collects its 2-D markers, and — if a
// world-point mapping was supplied and enough correspondences resolve —
// makes exactly one call into the pose solver with that frame's marker
// set, per the source's single-call-per-frame contract.
func (d *Detector[MT, CT]) EndImageFrame() FrameResult {
	markers := d.mcp.EndImageFrame()

	if d.worldByOrd == nil || len(d.worldByOrd) == 0 {
		return FrameResult{Markers: markers}
	}

	screenXY := make([]float64, 0, len(markers.Markers)*2)
	worldXYZ := make([]float64, 0, len(markers.Markers)*3)
	n := 0
	for _, m := range markers.Markers {
		if m.Order == 0 {
			continue
		}
		wp, ok := d.worldByOrd[m.Order]
		if !ok {
			continue
		}
		screenXY = append(screenXY, d.normalizeX(m.X), d.normalizeY(m.Y))
		worldXYZ = append(worldXYZ, wp.X, wp.Y, wp.Z)
		n++
	}
	if n == 0 {
		return FrameResult{Markers: markers}
	}

	pose := d.solver.Calculate(n, screenXY, worldXYZ)
	return FrameResult{Markers: markers, Pose: pose, Posed: true}
}

func (d *Detector[MT, CT]) normalizeX(x int) float64 {
	if d.cfg.FrameWidth <= 0 {
		return 0
	}
	return 2*float64(x)/float64(d.cfg.FrameWidth) - 1
}

func (d *Detector[MT, CT]) normalizeY(y int) float64 {
	if d.cfg.FrameHeight <= 0 {
		return 0
	}
	return 2*float64(y)/float64(d.cfg.FrameHeight) - 1
}

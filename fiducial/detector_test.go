package fiducial

import (
	"testing"

	"github.com/soocke/fiducial-go/internal/hoparser"
	"github.com/soocke/fiducial-go/internal/markergen"
	"github.com/soocke/fiducial-go/pnp"
)

func permissiveHoparserSetup() hoparser.Setup {
	s := hoparser.DefaultSetup()
	s.MarkStartPrefixHomoLenMin = 30
	s.MarkStartSuspectionMagDeltaMin = 50
	s.MarkContinueStripeSizeMaxDelta = 20
	s.MarkContinueTooBigWidthDelta = 20
	return s
}

func buildThreeMarkerFrame(width, height int) []uint8 {
	buf := make([]uint8, width*height)
	for i := range buf {
		buf[i] = markergen.Bright
	}
	// Order must be even: markergen's alternating-ring model only keeps
	// the outermost ring distinct from the bright background when the
	// per-side stripe count is even (see markergen.Pattern.classify).
	patterns := []markergen.Pattern{
		{CenterX: 100, CenterY: 100, Order: 4, RingWidth: 10},
		{CenterX: 300, CenterY: 200, Order: 4, RingWidth: 10},
		{CenterX: 100, CenterY: 300, Order: 4, RingWidth: 10},
	}
	for _, p := range patterns {
		markergen.Stamp(buf, width, height, p)
	}
	return buf
}

func runFrame(d *Detector[uint8, int32], buf []uint8, width, height int) FrameResult {
	for y := 0; y < height; y++ {
		row := buf[y*width : (y+1)*width]
		for _, mag := range row {
			d.Next(mag)
		}
		d.EndLine()
	}
	return d.EndImageFrame()
}

func TestThreeMarkerFrameYieldsThreeDetections(t *testing.T) {
	const width, height = 400, 400
	cfg := DefaultConfig(width, height)
	cfg.Hoparser = permissiveHoparserSetup()
	cfg.MCParser.IgnoreOrderSmallerThan = 2
	cfg.MCParser.IgnoreWhenSignalCountLessThan = 4

	d := New[uint8, int32](cfg, pnp.NopSolver{}, nil)
	buf := buildThreeMarkerFrame(width, height)
	result := runFrame(d, buf, width, height)

	if result.Posed {
		t.Fatal("expected no pose without a world-point mapping")
	}

	var real []mcparser1Marker
	for _, m := range result.Markers.Markers {
		if m.Order != 0 {
			real = append(real, mcparser1Marker{x: m.X, y: m.Y, order: m.Order})
		}
	}
	if len(real) != 3 {
		t.Fatalf("markers = %d want 3: %+v", len(real), real)
	}

	want := []struct{ x, y int }{{100, 100}, {300, 200}, {100, 300}}
	for _, w := range want {
		found := false
		for _, m := range real {
			if absInt(m.x-w.x) <= 3 && absInt(m.y-w.y) <= 3 {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no detection within 3px of planted center %+v; got %+v", w, real)
		}
	}
}

type mcparser1Marker struct{ x, y, order int }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestPoseSolvedWhenWorldPointsSupplied(t *testing.T) {
	const width, height = 400, 400
	cfg := DefaultConfig(width, height)
	cfg.Hoparser = permissiveHoparserSetup()
	cfg.MCParser.IgnoreOrderSmallerThan = 2
	cfg.MCParser.IgnoreWhenSignalCountLessThan = 4

	world := map[int]WorldPoint{4: {X: 0, Y: 0, Z: 1}}
	d := New[uint8, int32](cfg, pnp.NopSolver{}, world)
	buf := buildThreeMarkerFrame(width, height)
	result := runFrame(d, buf, width, height)

	if !result.Posed {
		t.Fatal("expected a pose to be solved once a world-point mapping resolves")
	}
	x, y, z := result.Pose.Position()
	if x != 0 || y != 0 || z != 0 {
		t.Fatalf("NopSolver should report zero translation, got (%v,%v,%v)", x, y, z)
	}
}

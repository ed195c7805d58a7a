package mcparser

import (
	"testing"

	"github.com/soocke/fiducial-go/internal/homer"
	"github.com/soocke/fiducial-go/internal/hoparser"
)

func defaultHoparserSetup() hoparser.Setup {
	s := hoparser.DefaultSetup()
	s.MarkStartPrefixHomoLenMin = 30
	s.MarkStartSuspectionMagDeltaMin = 50
	s.MarkContinueStripeSizeMaxDelta = 20
	s.MarkContinueTooBigWidthDelta = 20
	return s
}

func defaultHomerSetup() homer.Setup {
	return homer.DefaultSetup()
}

func TestMarkerCenterTryExtendAndSkip(t *testing.T) {
	m := newMarkerCenter(100, 0, 3)
	if !m.tryExtend(102, 1, 3, 6, 20) {
		t.Fatal("expected extend within deltaDiffMax to succeed")
	}
	if m.lastX != 102 || m.maxY != 1 {
		t.Fatalf("unexpected state after extend: %+v", m)
	}
	before := m.confidenceTemp
	if m.tryExtend(200, 2, 3, 6, 20) {
		t.Fatal("expected extend far outside deltaDiffMax to fail")
	}
	if m.confidenceTemp != before-1 {
		t.Fatalf("skipUpd did not decrement confidenceTemp: got %d want %d", m.confidenceTemp, before-1)
	}
	// confidence itself is only touched by successful extends.
	if m.confidence != before {
		t.Fatalf("confidence changed on a rejected extend: %d want %d", m.confidence, before)
	}
}

func TestShouldCloseUsesMaxY(t *testing.T) {
	m := newMarkerCenter(10, 5, 3)
	if m.shouldClose(6, 2) {
		t.Fatal("gap of 1 should not exceed closeDiffY=2")
	}
	if !m.shouldClose(8, 2) {
		t.Fatal("gap of 3 should exceed closeDiffY=2")
	}
}

func TestConstructMarkerRejectsLowSignalCount(t *testing.T) {
	m := newMarkerCenter(10, 0, 3)
	mk := m.constructMarker(4)
	if mk.Order != 0 {
		t.Fatalf("order = %d want 0 (rejected)", mk.Order)
	}
}

func TestConstructMarkerPicksModalOrder(t *testing.T) {
	m := newMarkerCenter(10, 0, 3)
	for i := 0; i < 3; i++ {
		m.tryExtend(10, i+1, 3, 6, 20)
	}
	m.tryExtend(10, 4, 2, 6, 20)
	mk := m.constructMarker(2)
	if mk.Order != 3 {
		t.Fatalf("order = %d want 3 (modal)", mk.Order)
	}
}

func vgaConfig() Config {
	c := DefaultConfig()
	c.IgnoreWhenSignalCountLessThan = 3
	c.IgnoreOrderSmallerThan = 2
	c.DeltaDiffMax = 4
	c.WidthDiffMax = 8
	c.CloseDiffY = 2
	c.MaxCenters = 16
	return c
}

func feedBullseyeRow(p *MCParser[uint8, int32], stripe, leadOffset int) {
	feedRow(p, 240, 40+leadOffset)
	feedRow(p, 20, stripe)
	feedRow(p, 240, stripe)
	feedRow(p, 20, 2*stripe)
	feedRow(p, 240, stripe)
	feedRow(p, 20, stripe)
	feedRow(p, 240, 40)
	p.EndLine()
}

func feedRow(p *MCParser[uint8, int32], v uint8, n int) {
	for i := 0; i < n; i++ {
		p.Next(v)
	}
}

func newTestParser() *MCParser[uint8, int32] {
	hoSetup := defaultHoparserSetup()
	return New[uint8, int32](vgaConfig(), hoSetup, defaultHomerSetup())
}

func TestIdempotentEndLine(t *testing.T) {
	p := newTestParser()
	p.EndLine()
	firstY := p.y
	p.EndLine()
	if p.y != firstY {
		t.Fatalf("y = %d want %d", p.y, firstY)
	}
	if !p.listPos.IsNil() || !p.lastPos.IsNil() {
		t.Fatal("expected cursors reset to nil after repeated EndLine")
	}
}

func TestVerticalStitchProducesOneMarker(t *testing.T) {
	p := newTestParser()
	for row := 0; row < 6; row++ {
		feedBullseyeRow(p, 10, 0)
	}
	result := p.EndImageFrame()
	if len(result.Markers) != 1 {
		t.Fatalf("markers = %d want 1: %+v", len(result.Markers), result.Markers)
	}
	if result.Markers[0].Order == 0 {
		t.Fatal("expected a non-rejected order")
	}
}

func TestVerticalSplitOnLargeGapProducesTwoMarkers(t *testing.T) {
	p := newTestParser()
	for row := 0; row < 4; row++ {
		feedBullseyeRow(p, 10, 0)
	}
	// A gap of several blank scanlines larger than CloseDiffY.
	for i := 0; i < 5; i++ {
		feedRow(p, 240, 300)
		p.EndLine()
	}
	// Shift the second group's x-position well past what the first
	// candidate could still absorb, so the stale (long-closed) candidate
	// is finalized inside the placement loop instead of the new hit being
	// inserted ahead of it.
	for row := 0; row < 4; row++ {
		feedBullseyeRow(p, 10, 50)
	}
	result := p.EndImageFrame()
	if len(result.Markers) != 2 {
		t.Fatalf("markers = %d want 2: %+v", len(result.Markers), result.Markers)
	}
}

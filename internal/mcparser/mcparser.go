// Package mcparser implements the 2-D frame assembler: it stitches
// per-scanline center hits from Hoparser into vertical marker-center
// candidates, held in a left-to-right ordered, arena-backed list, and
// emits closed candidates as finished Marker2D detections.
package mcparser

import (
	"github.com/soocke/fiducial-go/internal/arena"
	"github.com/soocke/fiducial-go/internal/homer"
	"github.com/soocke/fiducial-go/internal/hoparser"
	"github.com/soocke/fiducial-go/internal/numeric"
)

// MinOrder and MaxOrder bound the stripe-count histogram kept by every
// MarkerCenter.
const (
	MinOrder = 1
	MaxOrder = 8
)

// Config holds MCParser's immutable-after-construction configuration.
type Config struct {
	// IgnoreWhenSignalCountLessThan drops a candidate (order=0 sentinel)
	// at finalize time if it never accumulated enough scanline hits.
	IgnoreWhenSignalCountLessThan int
	// IgnoreOrderSmallerThan discards Hoparser hits below this order
	// before they ever reach the placement loop.
	IgnoreOrderSmallerThan int
	// DeltaDiffMax bounds how far a candidate's x may drift between
	// consecutive contributing scanlines.
	DeltaDiffMax int
	// WidthDiffMax bounds a candidate's total horizontal spread
	// (maxX-minX).
	WidthDiffMax int
	// CloseDiffY is the number of scanlines a candidate may go without a
	// new hit before it is considered finished.
	CloseDiffY int
	// MaxCenters bounds the arena's fixed capacity for live candidates.
	MaxCenters int
}

// DefaultConfig returns reasonable defaults for a VGA-scale frame.
func DefaultConfig() Config {
	return Config{
		IgnoreWhenSignalCountLessThan: 4,
		IgnoreOrderSmallerThan:        2,
		DeltaDiffMax:                  6,
		WidthDiffMax:                  20,
		CloseDiffY:                    2,
		MaxCenters:                    64,
	}
}

// MarkerCenter is the live record of one vertical candidate as it is
// being stitched together across scanlines.
type MarkerCenter struct {
	lastX, minX, maxX int
	minY, maxY        int
	signalCount       int
	confidence        int
	confidenceTemp    int
	ord               [MaxOrder + 1]int
}

func newMarkerCenter(x, y, order int) MarkerCenter {
	m := MarkerCenter{
		lastX: x, minX: x, maxX: x,
		minY: y, maxY: y,
		signalCount:    1,
		confidence:     1,
		confidenceTemp: 1,
	}
	if order >= MinOrder && order <= MaxOrder {
		m.ord[order] = 1
	}
	return m
}

// tryExtend attempts to fold hit (x, y, order) into m. It returns false
// (and applies skipUpd) when x has drifted too far or would blow the
// width budget.
func (m *MarkerCenter) tryExtend(x, y, order, deltaDiffMax, widthDiffMax int) bool {
	if absInt(m.lastX-x) > deltaDiffMax {
		m.skipUpd()
		return false
	}
	newMin, newMax := m.minX, m.maxX
	if x < newMin {
		newMin = x
	}
	if x > newMax {
		newMax = x
	}
	if newMax-newMin > widthDiffMax {
		m.skipUpd()
		return false
	}

	m.lastX = x
	m.minX, m.maxX = newMin, newMax
	if y > m.maxY {
		m.maxY = y
	}
	if order >= MinOrder && order <= MaxOrder {
		m.ord[order]++
	}
	m.signalCount++
	m.confidenceTemp++
	m.confidence = m.confidenceTemp
	return true
}

func (m *MarkerCenter) skipUpd() { m.confidenceTemp-- }

func (m *MarkerCenter) shouldClose(y, closeDiffY int) bool {
	return y-m.maxY > closeDiffY
}

// getRightMostCurrentAcceptableX is the greatest x this candidate could
// still absorb without violating either the per-step drift bound or the
// total width bound; it doubles as the arena list's left-to-right sort
// key.
func (m *MarkerCenter) getRightMostCurrentAcceptableX(deltaDiffMax, widthDiffMax int) int {
	a := m.lastX + deltaDiffMax
	b := m.minX + widthDiffMax
	if a > b {
		return a
	}
	return b
}

// constructMarker finalizes m into a Marker2D. Order is the histogram's
// mode; a candidate with too few signals is emitted with order==0.
func (m *MarkerCenter) constructMarker(minSignals int) Marker2D {
	mk := Marker2D{
		X:          (m.maxX + m.minX) / 2,
		Y:          (m.maxY + m.minY) / 2,
		Confidence: m.confidence,
	}
	if m.signalCount < minSignals {
		mk.Order = 0
		return mk
	}
	best, bestCount := 0, -1
	for order := MinOrder; order <= MaxOrder; order++ {
		if m.ord[order] > bestCount {
			bestCount = m.ord[order]
			best = order
		}
	}
	mk.Order = best
	return mk
}

// Marker2D is one emitted, finalized detection. Order==0 marks a
// candidate that was constructed but rejected on signal count.
type Marker2D struct {
	X, Y       int
	Confidence int
	Order      int
}

// ImageFrameResult is the ordered set of markers emitted by one
// EndImageFrame call.
type ImageFrameResult struct {
	Markers []Marker2D
}

// MCParser stitches per-scanline Hoparser hits into 2-D markers. MT is the
// magnitude type, CT the accumulator type, both forwarded to the owned
// Hoparser.
type MCParser[MT numeric.Magnitude, CT numeric.Accumulator] struct {
	cfg Config
	hp  *hoparser.Hoparser[MT, CT]
	arn *arena.List[MarkerCenter]

	x, y int

	lastPos, listPos arena.Position
	afterNewLine     bool
	lineEnded        bool

	finalized []Marker2D
}

// New returns an MCParser wired to a freshly constructed Hoparser and
// Homer, with the arena list sized to cfg.MaxCenters.
func New[MT numeric.Magnitude, CT numeric.Accumulator](cfg Config, hoSetup hoparser.Setup, hoSetupHomer homer.Setup) *MCParser[MT, CT] {
	return &MCParser[MT, CT]{
		cfg:          cfg,
		hp:           hoparser.New[MT, CT](hoSetup, hoSetupHomer),
		arn:          arena.New[MarkerCenter](cfg.MaxCenters),
		lastPos:      arena.NilPos,
		listPos:      arena.NilPos,
		afterNewLine: true,
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Next feeds the next magnitude into the pipeline. It returns Hoparser's
// own {foundMarker, isToken} pair, forwarded for debugging/visualisation.
func (p *MCParser[T, CT]) Next(mag T) (foundMarker bool, isToken bool) {
	found, tok := p.hp.Next(mag)
	x := p.x
	p.x++
	p.lineEnded = false
	if !found {
		return found, tok
	}

	order := p.hp.GetOrder()
	if order < p.cfg.IgnoreOrderSmallerThan {
		return found, tok
	}
	centerX := p.hp.GetMarkerX()
	if centerX < 0 {
		centerX = x
	}
	p.place(centerX, p.y, order)
	return found, tok
}

func (p *MCParser[T, CT]) place(centerX, y, order int) {
	if p.afterNewLine {
		p.lastPos = arena.NilPos
		p.listPos = p.arn.Head()
		p.afterNewLine = false
	}

	for {
		if p.listPos.IsNil() {
			if newPos, ok := p.arn.InsertAfter(newMarkerCenter(centerX, y, order), p.lastPos); ok {
				p.lastPos = newPos
			}
			return
		}

		c := p.arn.Value(p.listPos)

		var extended bool
		if !c.shouldClose(y, p.cfg.CloseDiffY) {
			extended = c.tryExtend(centerX, y, order, p.cfg.DeltaDiffMax, p.cfg.WidthDiffMax)
			p.arn.SetValue(p.listPos, c)
		}
		if extended {
			p.lastPos = p.listPos
			p.listPos = p.arn.Next(p.listPos)
			return
		}

		if c.getRightMostCurrentAcceptableX(p.cfg.DeltaDiffMax, p.cfg.WidthDiffMax) > centerX {
			newPos, ok := p.arn.InsertAfter(newMarkerCenter(centerX, y, order), p.lastPos)
			if ok {
				p.lastPos = newPos
			}
			return
		}

		if c.shouldClose(y, p.cfg.CloseDiffY) {
			p.finalize(c)
			p.listPos = p.arn.UnlinkAfter(p.lastPos)
			continue
		}

		p.lastPos = p.listPos
		p.listPos = p.arn.Next(p.listPos)
	}
}

func (p *MCParser[T, CT]) finalize(c MarkerCenter) {
	mk := c.constructMarker(p.cfg.IgnoreWhenSignalCountLessThan)
	if mk.Order == 0 {
		return
	}
	p.finalized = append(p.finalized, mk)
}

// EndLine advances the y cursor, resets the x cursor and per-scanline
// walk cursors, and propagates the reset down into Hoparser. Calling it
// again with no intervening Next() is a no-op: the line has already ended.
func (p *MCParser[T, CT]) EndLine() {
	if p.lineEnded {
		return
	}
	p.y++
	p.x = 0
	p.lastPos = arena.NilPos
	p.listPos = arena.NilPos
	p.afterNewLine = true
	p.lineEnded = true
	p.hp.NewLine()
}

// EndImageFrame closes out every live candidate (regardless of
// shouldClose), collects the frame's markers, and resets all state ready
// for the next frame.
func (p *MCParser[T, CT]) EndImageFrame() ImageFrameResult {
	for pos := p.arn.Head(); !pos.IsNil(); pos = p.arn.Next(pos) {
		c := p.arn.Value(pos)
		mk := c.constructMarker(p.cfg.IgnoreWhenSignalCountLessThan)
		if mk.Order != 0 {
			p.finalized = append(p.finalized, mk)
		}
	}

	result := ImageFrameResult{Markers: p.finalized}
	p.finalized = nil
	p.arn.Reset()
	p.x, p.y = 0, 0
	p.lastPos = arena.NilPos
	p.listPos = arena.NilPos
	p.afterNewLine = true
	p.lineEnded = false
	return result
}

// Package hoparser implements the per-scanline grammar parser that turns a
// stream of Homer tokens into bullseye cross-section detections: a bright
// preamble, alternating dark/light stripes, a double-width center stripe,
// then the same stripes symmetrically back out.
package hoparser

import (
	"github.com/soocke/fiducial-go/internal/homer"
	"github.com/soocke/fiducial-go/internal/numeric"
)

// Phase names the parser's position within the bullseye grammar.
type Phase int

const (
	PreMarker Phase = iota
	PreCenter
	PosCenterStart
	PosCenterFinishing
)

func (p Phase) String() string {
	switch p {
	case PreMarker:
		return "PRE_MARKER"
	case PreCenter:
		return "PRE_CENTER"
	case PosCenterStart:
		return "POS_CENTER_START"
	case PosCenterFinishing:
		return "POS_CENTER_FINISHING"
	default:
		return "UNKNOWN"
	}
}

// Setup holds Hoparser's immutable-after-construction configuration.
type Setup struct {
	// MarkStartPrefixHomoLenMin is the required length of the bright
	// preamble before a suspected marker.
	MarkStartPrefixHomoLenMin int
	// MarkStartTransitionLenMax bounds the gap between the preamble's
	// end and the first stripe's start.
	MarkStartTransitionLenMax int
	// MarkStartSuspectionMagDeltaMin is the required drop in average
	// magnitude between the preamble and the first dark stripe.
	MarkStartSuspectionMagDeltaMin int
	// MarkContinueTooBigWidthDelta bounds the inter-stripe gap while
	// tracking stripes.
	MarkContinueTooBigWidthDelta int
	// MarkContinueStripeSizeMaxDelta bounds the stripe-length delta
	// between neighbouring stripes (doubled around the center).
	MarkContinueStripeSizeMaxDelta int
	// IgnoreSmallHotokenDeltaLen is the minimum token length; shorter
	// tokens are discarded outright.
	//
	// Per the source's own ambiguity: the length actually compared here
	// is read after Homer has already reset for the *next* candidate
	// area, not the area that just closed. We decided to honor the
	// closing area's own length (the token being built), which is the
	// only reading that makes the filter do anything useful -- reading
	// the brand-new area's length (always small, just-opened) would
	// discard almost every token regardless of its true width.
	IgnoreSmallHotokenDeltaLen int
}

// DefaultSetup returns permissive defaults suitable for a first pass.
func DefaultSetup() Setup {
	return Setup{
		MarkStartPrefixHomoLenMin:      30,
		MarkStartTransitionLenMax:      6,
		MarkStartSuspectionMagDeltaMin: 50,
		MarkContinueTooBigWidthDelta:   6,
		MarkContinueStripeSizeMaxDelta: 20,
		IgnoreSmallHotokenDeltaLen:     2,
	}
}

const noBound = -1

// token is a closed homogeneous area, as reported by Homer, positioned on
// the scanline's x-axis.
type token[MT numeric.Magnitude] struct {
	length int
	magAvg MT
	startX int
	endX   int
}

// State is Hoparser's live parsing state, exported so callers (MCParser,
// tests, debug UI) can inspect it without reaching into private fields.
type State struct {
	Phase Phase
	X     int

	MarkerStart       int
	MarkerCenterStart int
	MarkerCenterEnd   int
	MarkerEnd         int

	Openp, Closep int
}

// Hoparser recognises the bullseye cross-section grammar over a single
// scanline. MT is the magnitude type, CT the accumulator type; both are
// forwarded to the owned Homer.
type Hoparser[MT numeric.Magnitude, CT numeric.Accumulator] struct {
	setup Setup
	h     *homer.Homer[MT, CT]

	x        int
	prevHo   bool
	prevTok  token[MT]
	havePrev bool

	state State

	foundMarker bool
}

// New returns a Hoparser wired to a freshly constructed Homer.
func New[MT numeric.Magnitude, CT numeric.Accumulator](setup Setup, homerSetup homer.Setup) *Hoparser[MT, CT] {
	p := &Hoparser[MT, CT]{
		setup: setup,
		h:     homer.New[MT, CT](homerSetup),
	}
	p.resetToPreMarker()
	return p
}

func (p *Hoparser[MT, CT]) resetToPreMarker() {
	p.state = State{
		Phase:             PreMarker,
		X:                 p.x,
		MarkerStart:       noBound,
		MarkerCenterStart: noBound,
		MarkerCenterEnd:   noBound,
		MarkerEnd:         noBound,
	}
	p.havePrev = false
}

// NewLine performs a full reset, including the underlying Homer.
func (p *Hoparser[MT, CT]) NewLine() {
	p.x = 0
	p.prevHo = false
	p.h.Reset()
	p.resetToPreMarker()
	p.foundMarker = false
}

// GetMarkerX returns the midpoint of the last found center stripe.
func (p *Hoparser[MT, CT]) GetMarkerX() int {
	if p.state.MarkerCenterStart == noBound || p.state.MarkerCenterEnd == noBound {
		return noBound
	}
	return (p.state.MarkerCenterEnd + p.state.MarkerCenterStart) / 2
}

// GetOrder returns the stripe count per side of the last found marker.
func (p *Hoparser[MT, CT]) GetOrder() int { return p.state.Openp }

// Next feeds the next magnitude into the parser, returning whether a
// token boundary closed on this call and whether a marker was found.
func (p *Hoparser[MT, CT]) Next(mag MT) (foundMarker bool, isToken bool) {
	p.foundMarker = false
	isHo := p.h.Next(mag)
	x := p.x
	p.x++

	length, magAvg, closed := p.h.ClosedThisStep()
	if !closed {
		p.prevHo = isHo
		return false, false
	}
	if length < p.setup.IgnoreSmallHotokenDeltaLen {
		p.prevHo = isHo
		return false, true
	}

	endX := x
	startX := endX - length + 1
	if startX < 0 {
		startX = 0
	}
	cur := token[MT]{length: length, magAvg: magAvg, startX: startX, endX: endX}

	p.step(cur)
	p.prevHo = isHo
	return p.foundMarker, true
}

func (p *Hoparser[MT, CT]) gap(cur token[MT]) int {
	if !p.havePrev {
		return 0
	}
	g := cur.startX - p.prevTok.endX
	if g < 0 {
		g = 0
	}
	return g
}

// stripeDelta returns (delta, doubleWins): delta is the parenthesis gate
// value min(|len-prevLen|, |len-k*prevLen|); doubleWins reports whether
// the doubled/halved branch was the closer match, i.e. whether cur looks
// like the width-doubled center (doubleCurrent=true) or cur looks like a
// normal single-width stripe following the width-doubled center
// (doubleCurrent=false).
func (p *Hoparser[MT, CT]) stripeDelta(cur token[MT], doubleCurrent bool) (delta int, doubleWins bool) {
	prevLen := p.prevTok.length
	a := absInt(cur.length - prevLen)
	var b int
	if doubleCurrent {
		b = absInt(cur.length - 2*prevLen)
	} else {
		b = absInt(cur.length - prevLen/2)
	}
	if b < a {
		return b, true
	}
	return a, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Hoparser[MT, CT]) step(cur token[MT]) {
	switch p.state.Phase {
	case PreMarker:
		p.stepPreMarker(cur)
	case PreCenter:
		p.stepPreCenter(cur)
	case PosCenterStart:
		p.stepPosCenterStart(cur)
	case PosCenterFinishing:
		p.stepPosCenterFinishing(cur)
	}
	p.prevTok = cur
	p.havePrev = true
}

func (p *Hoparser[MT, CT]) fail() {
	p.resetToPreMarker()
}

func (p *Hoparser[MT, CT]) stepPreMarker(cur token[MT]) {
	if !p.havePrev {
		return
	}
	drop := int(p.prevTok.magAvg) - int(cur.magAvg)
	if drop <= p.setup.MarkStartSuspectionMagDeltaMin {
		p.fail()
		return
	}
	if p.prevTok.length < p.setup.MarkStartPrefixHomoLenMin {
		p.fail()
		return
	}
	if p.gap(cur) > p.setup.MarkStartTransitionLenMax {
		p.fail()
		return
	}
	p.state.MarkerStart = cur.startX
	p.state.Phase = PreCenter
	p.state.Openp = 0
	p.state.Closep = 0
}

// stepPreCenter walks the stripes between the preamble and the center.
// Per the source's own open question about polarity, we do not gate on
// rising/falling direction here: a bullseye's stripe colors alternate in
// both directions depending on order's parity, so direction alone cannot
// tell an ordinary stripe from the center. The center is identified
// structurally instead, by being roughly double the previous stripe's
// width; everything else that passes the gate is an ordinary stripe.
func (p *Hoparser[MT, CT]) stepPreCenter(cur token[MT]) {
	delta, isCenter := p.stripeDelta(cur, true)
	if delta > p.setup.MarkContinueStripeSizeMaxDelta {
		p.fail()
		return
	}
	if p.gap(cur) > p.setup.MarkContinueTooBigWidthDelta {
		p.fail()
		return
	}
	if !isCenter {
		p.state.Openp++
		return
	}
	p.state.MarkerCenterStart = cur.startX
	p.state.Phase = PosCenterStart
	p.state.Openp++ // balance the initial opening that was never counted
}

// stepPosCenterStart consumes exactly the first stripe after the center,
// using the halved-width gate to confirm we are back to ordinary stripe
// widths.
func (p *Hoparser[MT, CT]) stepPosCenterStart(cur token[MT]) {
	delta, _ := p.stripeDelta(cur, false)
	if delta > p.setup.MarkContinueStripeSizeMaxDelta {
		p.fail()
		return
	}
	if p.gap(cur) > p.setup.MarkContinueTooBigWidthDelta {
		p.fail()
		return
	}
	p.state.MarkerCenterEnd = cur.startX
	p.state.Phase = PosCenterFinishing
	p.state.Closep++
	p.checkClosed(cur)
}

// stepPosCenterFinishing counts the remaining stripes symmetric to the
// ones counted in stepPreCenter, until closep matches openp.
func (p *Hoparser[MT, CT]) stepPosCenterFinishing(cur token[MT]) {
	delta, _ := p.stripeDelta(cur, false)
	if delta > p.setup.MarkContinueStripeSizeMaxDelta {
		p.fail()
		return
	}
	if p.gap(cur) > p.setup.MarkContinueTooBigWidthDelta {
		p.fail()
		return
	}
	p.state.Closep++
	p.checkClosed(cur)
}

func (p *Hoparser[MT, CT]) checkClosed(cur token[MT]) {
	if p.state.Openp == p.state.Closep {
		p.state.MarkerEnd = cur.startX
		p.foundMarker = true
	}
}

// Package homer implements the 1-D scanline homogeneity segmenter: given a
// stream of pixel magnitudes, it classifies each run as belonging to a
// "homogeneous area" or not, adaptively relaxing its thresholds as an area
// grows longer. It never allocates and never divides on the Next() hot
// path (magAvg is computed only lazily, when an area closes).
package homer

import "github.com/soocke/fiducial-go/internal/numeric"

// Setup holds Homer's immutable-after-construction configuration.
// Invariant: MinMaxDeltaMax must be greater than HodeltaMinMaxAvgDiff.
type Setup struct {
	// HodeltaLen is the minimum run length to open a homogeneous area.
	HodeltaLen int
	// HodeltaDiff is the max |delta| between consecutive pixels to
	// suspect entering a homogeneous area.
	HodeltaDiff int
	// HodeltaAvgDiff is the max deviation of a pixel from the running
	// average inside an area. Only checked when SlowPrecise is set.
	HodeltaAvgDiff int
	// HodeltaMinMaxAvgDiff is the max deviation of a pixel from the
	// mid-range of the area.
	HodeltaMinMaxAvgDiff int
	// MinMaxDeltaMax is the max allowed spread (max-min) within an area.
	MinMaxDeltaMax int
	// SlowPrecise enables the second, division-free but multiply-heavy
	// check against HodeltaAvgDiff. Off by default; the tuned defaults
	// below were derived without it enabled.
	SlowPrecise bool
	// LenAffect configures the depth-tapered threshold relaxation
	// applied while an area is open. Zero value (AffectNone) disables it.
	LenAffect LenAffectParams
}

// DefaultSetup returns the source's tuned defaults.
func DefaultSetup() Setup {
	return Setup{
		HodeltaLen:            6,
		HodeltaDiff:           13,
		HodeltaAvgDiff:        27,
		HodeltaMinMaxAvgDiff:  10,
		MinMaxDeltaMax:        25,
		SlowPrecise:           false,
		LenAffect: LenAffectParams{
			Mode:                   AffectStepped,
			FullAffectLenUpCons:    24,
			LeastAffectLenBottCons: 96,
			StepPointExponential:   3,
			AttrExp:                2,
		},
	}
}

// area holds the live state of a (suspected) homogeneous area.
type area[MT numeric.Magnitude, CT numeric.Accumulator] struct {
	length int
	magSum CT
	magMin MT
	magMax MT
	isHo   bool
	last   MT
}

func newArea[MT numeric.Magnitude, CT numeric.Accumulator]() area[MT, CT] {
	return area[MT, CT]{magMin: numeric.MaxOf[MT](), magMax: 0}
}

func (a *area[MT, CT]) magAvg() MT {
	if a.length == 0 {
		return 0
	}
	return MT(a.magSum / CT(a.length))
}

func (a *area[MT, CT]) magMinMaxAvg() MT {
	if a.length == 0 {
		return 0
	}
	return a.magMin + (a.magMax-a.magMin)/2
}

func (a *area[MT, CT]) isMinMaxDeltaMaxOk(minMaxDeltaMax int) bool {
	return a.length == 0 || int(a.magMax-a.magMin) < minMaxDeltaMax
}

func (a *area[MT, CT]) isLenOK(hodeltaLen int) bool {
	return a.length >= hodeltaLen
}

// tryOpenOrKeepWith accumulates mag into the area and re-evaluates isHo.
func (a *area[MT, CT]) tryOpenOrKeepWith(mag MT, hodeltaLen, minMaxDeltaMax int) bool {
	a.length++
	a.magSum += CT(mag)
	a.last = mag
	if mag > a.magMax {
		a.magMax = mag
	}
	if mag < a.magMin {
		a.magMin = mag
	}
	a.isHo = a.isLenOK(hodeltaLen) && a.isMinMaxDeltaMaxOk(minMaxDeltaMax)
	return a.isHo
}

// Homer is a driver for instantly analysing 1-D scanlines, in place, for
// homogeneous runs of pixel magnitude. MT is the magnitude type, CT the
// accumulator type used for sums.
type Homer[MT numeric.Magnitude, CT numeric.Accumulator] struct {
	setup Setup
	a     area[MT, CT]

	// closedNow/closedLen/closedMagAvg snapshot the area that just closed
	// on the most recent Next() call, i.e. one that had isHo==true before
	// this call and isHo==false after it. Hoparser reads these to build
	// its lexical tokens without Homer ever exposing its live area.
	closedNow    bool
	closedLen    int
	closedMagAvg MT

	// seeded is false from Reset until the first sample arrives: with no
	// previous sample to compare against, that first sample always starts
	// accumulating instead of being checked against HodeltaDiff.
	seeded bool
}

// New returns a Homer configured with setup, in its default reset state.
func New[MT numeric.Magnitude, CT numeric.Accumulator](setup Setup) *Homer[MT, CT] {
	h := &Homer[MT, CT]{setup: setup}
	h.Reset()
	return h
}

// Reset clears all state about the current area, keeping configuration.
func (h *Homer[MT, CT]) Reset() {
	h.a = newArea[MT, CT]()
	h.seeded = false
}

// ResetWith clears state then seeds "last" as if mag had just been seen,
// matching the source's reset(last) overload used on every closing edge.
func (h *Homer[MT, CT]) ResetWith(mag MT) {
	h.Reset()
	h.a.last = mag
	h.seeded = true
}

// affectedMinMaxAvgDiff and affectedAvgDiff apply the length-affect helper
// to the two open-regime thresholds using the area's current length.
func (h *Homer[MT, CT]) affectedMinMaxAvgDiff() int {
	return int(lenAffect(intT(h.setup.HodeltaMinMaxAvgDiff), h.a.length, h.setup.LenAffect))
}

func (h *Homer[MT, CT]) affectedAvgDiff() int {
	return int(lenAffect(intT(h.setup.HodeltaAvgDiff), h.a.length, h.setup.LenAffect))
}

// intT is a local named int type so lenAffect's ~int constraint is satisfied
// without exposing the constraint requirement on Setup's plain int fields.
type intT int

// Next feeds the next magnitude into the segmenter. It returns the
// post-update isHo state.
func (h *Homer[MT, CT]) Next(mag MT) bool {
	h.closedNow = false

	if h.seeded && !h.a.isHo && absDiff[MT, CT](h.a.last, mag) > CT(h.setup.HodeltaDiff) {
		// Searching regime, difference too big to even suspect an area.
		h.ResetWith(mag)
		return false
	}
	h.seeded = true

	if h.a.isHo {
		tooMuchFromMinMaxAvg := absSigned(int(h.a.magMinMaxAvg())-int(mag)) > h.affectedMinMaxAvgDiff()
		tooMuchFromAvg := false
		if h.setup.SlowPrecise {
			sum := int64(h.a.magSum)
			target := int64(mag) * int64(h.a.length)
			diff := sum - target
			if diff < 0 {
				diff = -diff
			}
			tooMuchFromAvg = diff > int64(h.affectedAvgDiff())*int64(h.a.length)
		}
		if tooMuchFromMinMaxAvg || tooMuchFromAvg {
			h.closeCurrent()
			h.ResetWith(mag)
			return false
		}
		stillOpen := h.a.tryOpenOrKeepWith(mag, h.setup.HodeltaLen, h.setup.MinMaxDeltaMax)
		if !stillOpen {
			h.closeCurrent()
			h.ResetWith(mag)
		}
		return stillOpen
	}

	// Suspecting regime: waiting for length to be enough.
	opened := h.a.tryOpenOrKeepWith(mag, h.setup.HodeltaLen, h.setup.MinMaxDeltaMax)
	if !h.a.isMinMaxDeltaMaxOk(h.setup.MinMaxDeltaMax) {
		h.ResetWith(mag)
	}
	return opened
}

// closeCurrent snapshots the area about to be discarded so ClosedThisStep
// can hand it to a caller (Hoparser) as a lexical token. Only called from
// paths where the area was actually isHo==true before this call.
func (h *Homer[MT, CT]) closeCurrent() {
	h.closedNow = true
	h.closedLen = h.a.length
	h.closedMagAvg = h.a.magAvg()
}

// ClosedThisStep reports whether the most recent Next() call closed a
// homogeneous area (transitioned isHo true -> false), along with a
// snapshot of that area's length and average magnitude.
func (h *Homer[MT, CT]) ClosedThisStep() (length int, magAvg MT, ok bool) {
	return h.closedLen, h.closedMagAvg, h.closedNow
}

// IsHo reports whether the last Next() call left us inside a homogeneous
// area.
func (h *Homer[MT, CT]) IsHo() bool { return h.a.isHo }

// MagAvg returns the average magnitude of the current area; 0 at length 0.
func (h *Homer[MT, CT]) MagAvg() MT { return h.a.magAvg() }

// MagSum returns the raw magnitude sum of the current area.
func (h *Homer[MT, CT]) MagSum() CT { return h.a.magSum }

// Len returns the current area's length (suspected or confirmed).
func (h *Homer[MT, CT]) Len() int { return h.a.length }

func absDiff[MT numeric.Magnitude, CT numeric.Accumulator](a, b MT) CT {
	if a > b {
		return CT(a) - CT(b)
	}
	return CT(b) - CT(a)
}

func absSigned(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

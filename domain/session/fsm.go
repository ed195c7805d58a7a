package session

import (
	"image"
	"log/slog"
	"runtime/debug"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/internal/mcparser"
)

// lockLostTimeout is how long a session stays StateLocked without a
// fresh sighting before it falls back to scanning.
const lockLostTimeout = 2 * time.Second

// dedupCacheSize bounds the recent-sighting cache used to avoid
// replaying the same marker sighting on every frame while it sits still
// under the camera.
const dedupCacheSize = 256

// dedupWindow: sightings of the same marker within this window of each
// other are treated as one continuous detection, not a fresh one.
const dedupWindow = 500 * time.Millisecond

// FSM runs a scanning session: feed it frames while StateScanning, and
// it drives itself into StateLocked once a frame yields recognised
// markers, back down to StateScanning once locks go stale.
type FSM struct {
	id     string
	state  State
	logger *slog.Logger
	cfg    *config.Config

	detector    FrameDetector
	detectorCtor DetectorFactory

	seen    *lru.Cache[string, time.Time]
	history []Detection

	lastLockAt time.Time
	closed     bool
	events     chan interface{}
	listeners  []StateListener
}

// New constructs a session FSM and starts its event loop. detectorCtor
// builds the pixel pipeline lazily, once scanning starts, so a session
// sitting idle holds no Homer/Hoparser/MCParser state.
func New(logger *slog.Logger, cfg *config.Config, detectorCtor DetectorFactory) *FSM {
	cache, _ := lru.New[string, time.Time](dedupCacheSize)
	f := &FSM{
		id:           uuid.NewString(),
		state:        StateIdle,
		logger:       logger,
		cfg:          cfg,
		detectorCtor: detectorCtor,
		seen:         cache,
		events:       make(chan interface{}, 64),
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Error("session fsm panic", "error", r, "stack", string(debug.Stack()))
				}
			}
		}()
		f.loop()
	}()
	return f
}

type (
	evtStart        struct{}
	evtStop         struct{}
	evtTick         struct{ now time.Time }
	evtFrame        struct {
		img *image.RGBA
		at  time.Time
	}
	evtAddListener struct{ l StateListener }
)

func (f *FSM) loop() {
	for ev := range f.events {
		switch e := ev.(type) {
		case evtAddListener:
			f.listeners = append(f.listeners, e.l)
		case evtStart:
			if f.state == StateIdle {
				f.transition(StateScanning)
			}
		case evtStop:
			f.detector = nil
			f.transition(StateIdle)
		case evtTick:
			f.handleTick(e.now)
		case evtFrame:
			f.handleFrame(e.img, e.at)
		}
	}
	f.closed = true
}

func (f *FSM) transition(next State) {
	prev := f.state
	if prev == next {
		return
	}
	switch next {
	case StateScanning:
		if f.detector == nil && f.detectorCtor != nil {
			f.detector = f.detectorCtor(f.cfg, f.logger)
		}
	case StateIdle:
		f.seen.Purge()
	}
	f.state = next
	if f.logger != nil {
		f.logger.Debug("session state transition", "session", f.id, "from", prev.String(), "to", next.String())
	}
	for _, l := range f.listeners {
		l(prev, next)
	}
}

func (f *FSM) handleTick(now time.Time) {
	if f.state == StateLocked && !f.lastLockAt.IsZero() && now.Sub(f.lastLockAt) > lockLostTimeout {
		f.transition(StateScanning)
	}
}

func (f *FSM) handleFrame(img *image.RGBA, at time.Time) {
	if f.state != StateScanning && f.state != StateLocked {
		return
	}
	if f.detector == nil {
		if f.detectorCtor == nil {
			return
		}
		f.detector = f.detectorCtor(f.cfg, f.logger)
	}

	result := f.runFrame(img)
	fresh := false
	for _, m := range result.Markers {
		if m.Order == 0 {
			continue
		}
		if f.recordSighting(m, at) {
			fresh = true
		}
	}
	if fresh {
		f.lastLockAt = at
		if f.state != StateLocked {
			f.transition(StateLocked)
		}
	}
}

func (f *FSM) runFrame(img *image.RGBA) mcparser.ImageFrameResult {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Rec. 601 luma, matching capture.Greyscale's use of a
			// standard greyscale conversion for the online path too.
			mag := uint8((299*r + 587*g + 114*b) / 1000 >> 8)
			f.detector.Next(mag)
		}
		f.detector.EndLine()
	}
	return f.detector.EndImageFrame()
}

// recordSighting reports whether m is a fresh sighting (not a repeat of
// one already recorded within dedupWindow), and appends it to history if
// so.
func (f *FSM) recordSighting(m mcparser.Marker2D, at time.Time) bool {
	key := sightingKey(m)
	if last, ok := f.seen.Get(key); ok && at.Sub(last) < dedupWindow {
		f.seen.Add(key, at)
		return false
	}
	f.seen.Add(key, at)
	f.history = append(f.history, Detection{Marker: m, At: at})
	if len(f.history) > dedupCacheSize {
		f.history = f.history[len(f.history)-dedupCacheSize:]
	}
	return true
}

func sightingKey(m mcparser.Marker2D) string {
	// Quantize position coarsely so a marker sitting nearly still under
	// noisy detection doesn't count as a new sighting every frame.
	const bucket = 8
	return itoa(m.Order) + ":" + itoa(m.X/bucket) + ":" + itoa(m.Y/bucket)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Public API implementing Contract.
func (f *FSM) Current() State            { return f.state }
func (f *FSM) SessionID() string         { return f.id }
func (f *FSM) Start()                    { f.events <- evtStart{} }
func (f *FSM) Stop()                     { f.events <- evtStop{} }
func (f *FSM) Tick(now time.Time)        { f.events <- evtTick{now: now} }
func (f *FSM) AddListener(l StateListener) { f.events <- evtAddListener{l: l} }
func (f *FSM) ProcessFrame(img *image.RGBA, at time.Time) {
	if img != nil {
		f.events <- evtFrame{img: img, at: at}
	}
}
func (f *FSM) LastDetections() []Detection {
	out := make([]Detection, len(f.history))
	copy(out, f.history)
	return out
}
func (f *FSM) Close() {
	if f.closed {
		return
	}
	close(f.events)
}

var _ Contract = (*FSM)(nil)

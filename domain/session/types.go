// Package session runs the fiducial pipeline over a stream of captured
// frames as a finite state machine, mirroring the event-loop FSM shape
// used elsewhere in this codebase (a buffered channel of typed events
// drained by a single goroutine, with transition listeners for the UI).
package session

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/internal/mcparser"
)

// State enumerates the scanning session's finite states.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateLocked
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateLocked:
		return "locked"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// StateListener is called on each successful state transition.
type StateListener func(prev, next State)

// Detection is a single marker sighting, timestamped for dedup and UI
// history purposes.
type Detection struct {
	Marker mcparser.Marker2D
	At     time.Time
}

// FrameSource minimally describes what the session needs from a capture
// service: the latest greyscale-convertible frame.
type FrameSource interface {
	LatestFrame() (*image.RGBA, time.Time, bool)
}

// DetectorFactory constructs the pixel pipeline; tests substitute a fake
// to avoid needing a real fiducial.Detector.
type DetectorFactory func(cfg *config.Config, logger *slog.Logger) FrameDetector

// FrameDetector is the subset of fiducial.Detector's surface the session
// FSM depends on, so it can run against a *image.RGBA with a plain
// greyscale-conversion adapter without importing image codecs itself.
type FrameDetector interface {
	Next(mag uint8) (foundMarker bool, isToken bool)
	EndLine()
	EndImageFrame() mcparser.ImageFrameResult
}

// StateSource exposes the current state for read-only observers.
type StateSource interface{ Current() State }

// Lifecycle starts and stops the session's event loop.
type Lifecycle interface {
	Start()
	Stop()
	Close()
}

// FrameFeed accepts frames for processing while scanning.
type FrameFeed interface {
	ProcessFrame(img *image.RGBA, at time.Time)
}

// Contract aggregates the session FSM's public surface, for DI in the UI
// presenter layer.
type Contract interface {
	StateSource
	Lifecycle
	FrameFeed
	AddListener(StateListener)
	LastDetections() []Detection
	SessionID() string
}

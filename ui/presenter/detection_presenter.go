package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/domain/capture"
	"github.com/soocke/fiducial-go/domain/session"
)

// FrameSource supplies the most recent frame from the capture service.
type FrameSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// DetectionFSM is the subset of the session FSM the presenter feeds
// captured frames into.
type DetectionFSM interface {
	ProcessFrame(img *image.RGBA, at time.Time)
	LastDetections() []session.Detection
}

// DetectionView describes the UI surface updated by the presenter.
type DetectionView interface {
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
}

// DetectionPresenter forwards captured frames into the session FSM and,
// once the FSM has recorded any marker sighting, shows the frame in the
// view's detection pane. Sighting positions are only logged; nothing is
// drawn onto the frame.
//
// Unlike the old template-match presenter this needs no worker pool:
// one scanline pass over a frame is cheap enough to run inline, and
// the session FSM already owns its own goroutine.
type DetectionPresenter struct {
	Enabled func() bool
	Source  FrameSource
	FSM     DetectionFSM
	View    DetectionView
	Config  *config.Config
	logger  *slog.Logger

	lastSeq uint64
}

// NewDetectionPresenter constructs a detection presenter.
func NewDetectionPresenter(enabled func() bool, source FrameSource, fsm DetectionFSM, view DetectionView, cfg *config.Config, logger *slog.Logger) *DetectionPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &DetectionPresenter{Enabled: enabled, Source: source, FSM: fsm, View: view, Config: cfg, logger: logger}
}

// ProcessFrame pulls the latest captured frame, forwards it into the
// session FSM if it hasn't been seen yet, and reflects the current
// marker sightings onto the view.
func (p *DetectionPresenter) ProcessFrame() {
	if p == nil || p.Enabled == nil || p.Source == nil || p.FSM == nil || p.View == nil {
		return
	}
	if !p.Enabled() || !p.Source.Running() {
		return
	}

	snapshot := p.Source.LatestFrame()
	frame := snapshot.Image
	if frame == nil || snapshot.Sequence == p.lastSeq {
		return
	}
	p.lastSeq = snapshot.Sequence

	p.View.UpdateCapture(frame)
	p.FSM.ProcessFrame(frame, snapshot.CapturedAt)

	if detections := p.FSM.LastDetections(); len(detections) > 0 {
		latest := detections[len(detections)-1]
		if p.logger != nil {
			p.logger.Debug("marker detected", "order", latest.Marker.Order, "x", latest.Marker.X, "y", latest.Marker.Y)
		}
		p.View.UpdateDetection(frame)
	}
}

// FormatDetections renders a short human-readable summary of the most
// recent sightings, suitable for a status label.
func FormatDetections(detections []session.Detection) string {
	if len(detections) == 0 {
		return "no markers"
	}
	start := 0
	if len(detections) > 3 {
		start = len(detections) - 3
	}
	var b strings.Builder
	for i, d := range detections[start:] {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "#%d@(%d,%d)", d.Marker.Order, d.Marker.X, d.Marker.Y)
	}
	return b.String()
}

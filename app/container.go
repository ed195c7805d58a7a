package app

import (
	"log/slog"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/domain/capture"
	"github.com/soocke/fiducial-go/domain/session"
	"github.com/soocke/fiducial-go/ui/model"
	"github.com/soocke/fiducial-go/ui/presenter"
	"github.com/soocke/fiducial-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	Logger     *slog.Logger
	Capture    *model.CaptureModel
	Session    *model.SessionModel
	CaptureSvc capture.CaptureService
	FSM        session.Contract
	Selection  view.SelectionOverlay
	RootView   *view.RootView
	UI         view.UI

	SessionPresenter   *presenter.SessionPresenter
	FSMPresenter       *presenter.FSMPresenter
	DetectionPresenter *presenter.DetectionPresenter
	CapturePresenter   *presenter.CapturePresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs and wires every component. width/height size
// the pipeline's normalized coordinate space; when a selection rectangle
// is configured its dimensions take precedence, since that's what the
// capture service will actually hand the detector frame by frame.
func BuildContainer(cfg *config.Config, logger *slog.Logger, width, height int, cfgPath string) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Selection = view.NewSelectionOverlay(cfg, cfgPath, logger)

	c.CaptureSvc = capture.NewCaptureService(logger, c.Selection.ActiveRect)

	detWidth, detHeight := width, height
	if cfg.SelectionW > 0 && cfg.SelectionH > 0 {
		detWidth, detHeight = cfg.SelectionW, cfg.SelectionH
	}
	c.FSM = session.New(logger, cfg, session.NewPipelineDetectorFactory(detWidth, detHeight))

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Capture, c.RootView)
	c.FSMPresenter = presenter.NewFSMPresenter(c.FSM, c.RootView)
	c.FSM.AddListener(func(prev, next session.State) { c.FSMPresenter.OnState(next) })
	c.DetectionPresenter = presenter.NewDetectionPresenter(c.Capture.Enabled, c.CaptureSvc, c.FSM, c.RootView, cfg, logger)
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.FSM, c.RootView)
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.FSMPresenter, c.DetectionPresenter, nil)

	return c
}

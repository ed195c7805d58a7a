package presenter

import (
	"github.com/soocke/fiducial-go/domain/capture"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// LifecycleContract narrows what presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// SessionFSM exposes the session lifecycle events the presenter drives.
type SessionFSM interface {
	Start()
	Stop()
}

// CaptureView updates UI elements affected by capture toggling.
// State label updates are now owned solely by FSMPresenter; this presenter
// no longer mutates it directly to preserve single responsibility.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for toggling capture state.
type CapturePresenter struct {
	model   CaptureModel
	service LifecycleContract // narrowed from full capture.CaptureService
	fsm     SessionFSM
	view    CaptureView
}

func NewCapturePresenter(model CaptureModel, service capture.CaptureService, fsm SessionFSM, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, fsm: fsm, view: view}
}

// Enable flips the model on, coordinating the capture service, session
// FSM, and view. Idempotent.
func (c *CapturePresenter) Enable() {
	if c == nil || c.model == nil || c.service == nil || c.view == nil || c.fsm == nil {
		return
	}
	if c.model.Enabled() { // already enabled
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	c.fsm.Start()
	c.view.ConfigEditable(false)
}

// Disable stops the capture service and session, resetting the preview.
// Idempotent.
func (c *CapturePresenter) Disable() {
	if c == nil || c.model == nil || c.service == nil || c.view == nil || c.fsm == nil {
		return
	}
	if !c.model.Enabled() { // already disabled
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.PreviewReset()
	c.fsm.Stop()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if c == nil || c.model == nil || c.service == nil || c.view == nil || c.fsm == nil {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

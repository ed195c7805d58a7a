package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/ui/theme"
)

const tick = 100 * time.Millisecond

// app wires the Tk window lifecycle to an AppContainer's presenter loop.
type app struct {
	container *AppContainer
	afterID   string
}

// NewApp builds the window and wires the full presenter/view stack.
// cfgPath is where edits made in the config panel are persisted.
func NewApp(title string, width, height int, cfg *config.Config, logger *slog.Logger, cfgPath string) *app {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &app{}
	a.container = BuildContainer(cfg, logger, width, height, cfgPath)

	App.WmTitle(title)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	theme.InitStyles()

	a.container.RootView.Build(a.toggleCapture, a.openSelectionGrid, a.exitHandler)
	a.container.Loop.Schedule = a.scheduleTick

	return a
}

// Start enters the Tk event loop after kicking off the first tick.
func (a *app) Start() {
	a.scheduleTick()
	App.Wait()
}

func (a *app) scheduleTick() {
	a.afterID = TclAfter(tick, a.container.Loop.Tick)
}

func (a *app) toggleCapture() {
	a.container.CapturePresenter.Toggle()
}

func (a *app) openSelectionGrid() {
	if a.container == nil || a.container.Selection == nil {
		return
	}
	a.container.Selection.OpenOrFocus()
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.container != nil && a.container.FSM != nil {
		a.container.FSM.Close()
	}
	Destroy(App)
}

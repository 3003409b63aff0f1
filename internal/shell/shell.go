// Package shell wires desktop chrome input (icons, start menu, taskbar,
// window controls, document clicks) to the window manager, and runs the
// taskbar clock and the shutdown overlay.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/retrodesk/internal/drag"
	"github.com/1broseidon/retrodesk/internal/wm"
)

const (
	DefaultClockFormat  = "15:04"
	DefaultOverlayDelay = 300 * time.Millisecond
	clockInterval       = time.Second

	// ActionShutdown is the start menu action that shuts the desktop down.
	ActionShutdown = "shutdown"
)

var (
	// ErrMissingElement aborts startup when a required chrome element is absent.
	ErrMissingElement = errors.New("required shell element missing")
	// ErrShutDown is returned for requests that arrive while the desktop is shut down.
	ErrShutDown = errors.New("desktop is shut down")
)

// Desktop highlights at most one icon. An empty id clears the selection.
type Desktop interface {
	SetSelectedIcon(id string)
}

type Menu interface {
	SetOpen(open bool)
	IsOpen() bool
}

type StartButton interface {
	SetPressed(pressed bool)
}

type Clock interface {
	SetText(text string)
}

type Overlay interface {
	SetVisible(visible bool)
}

// Elements are the chrome parts the shell needs before it can start.
type Elements struct {
	Desktop     Desktop
	Menu        Menu
	StartButton StartButton
	Taskbar     wm.Taskbar
	Clock       Clock
	Overlay     Overlay
}

func (e Elements) validate() error {
	missing := func(name string) error { return fmt.Errorf("%w: %s", ErrMissingElement, name) }
	switch {
	case e.Desktop == nil:
		return missing("desktop")
	case e.Menu == nil:
		return missing("start menu")
	case e.StartButton == nil:
		return missing("start button")
	case e.Taskbar == nil:
		return missing("taskbar")
	case e.Clock == nil:
		return missing("clock")
	case e.Overlay == nil:
		return missing("shutdown overlay")
	}
	return nil
}

// MenuItem is one start menu entry: either an application or an action.
type MenuItem struct {
	AppID  string
	Action string
}

// HitKind says what a document click landed on.
type HitKind int

const (
	HitDesktop HitKind = iota
	HitIcon
	HitWindow
	HitTaskbar
	HitStartButton
	HitMenu
	HitOverlay
)

// Options configures a Shell.
type Options struct {
	ClockFormat  string
	OverlayDelay time.Duration
	Now          func() time.Time

	// Pointer and Frames enable title-bar dragging. Leave nil to disable it.
	Pointer  drag.PointerEvents
	Frames   drag.FrameScheduler
	Viewport func() drag.Viewport

	Logger *slog.Logger
}

// Status summarizes the shell for remote callers.
type Status struct {
	ShutDown bool   `json:"shut_down"`
	Focused  string `json:"focused,omitempty"`
	OpenApps int    `json:"open_apps"`
	Clock    string `json:"clock"`
	MenuOpen bool   `json:"menu_open"`
	Selected string `json:"selected_icon,omitempty"`
	Restarts int    `json:"restarts"`
}

// Shell owns the window manager for the lifetime of one boot. Restart
// replaces it with a fresh one.
type Shell struct {
	el         Elements
	newManager func() *wm.Manager
	sched      wm.Scheduler
	opts       Options
	logger     *slog.Logger

	manager  *wm.Manager
	drag     *drag.Controller
	selected string
	clock    string
	shutDown bool
	restarts int
	// gen invalidates clock ticks and overlay timers from a previous boot.
	gen uint64
}

// New validates the chrome elements and creates the first manager.
func New(el Elements, newManager func() *wm.Manager, sched wm.Scheduler, opts Options) (*Shell, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := el.validate(); err != nil {
		logger.Error("critical UI element missing", "error", err)
		return nil, err
	}
	if newManager == nil {
		return nil, fmt.Errorf("shell: manager factory is nil")
	}
	if opts.ClockFormat == "" {
		opts.ClockFormat = DefaultClockFormat
	}
	if opts.OverlayDelay <= 0 {
		opts.OverlayDelay = DefaultOverlayDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Shell{
		el:         el,
		newManager: newManager,
		sched:      sched,
		opts:       opts,
		logger:     logger,
		manager:    newManager(),
	}
	if opts.Pointer != nil && opts.Frames != nil && opts.Viewport != nil {
		s.drag = drag.NewController(s, s.movable, opts.Pointer, opts.Frames, opts.Viewport, logger)
	}
	return s, nil
}

// Start shows the clock and begins ticking it.
func (s *Shell) Start() {
	s.gen++
	s.tick(s.gen)
	s.logger.Info("desktop ready")
}

func (s *Shell) tick(gen uint64) {
	if gen != s.gen || s.shutDown {
		return
	}
	s.clock = s.opts.Now().Format(s.opts.ClockFormat)
	s.el.Clock.SetText(s.clock)
	s.sched.After(clockInterval, func() { s.tick(gen) })
}

// Manager returns the manager for the current boot.
func (s *Shell) Manager() *wm.Manager {
	return s.manager
}

// ShutDown reports whether the shutdown overlay is up (or about to be).
func (s *Shell) ShutDown() bool {
	return s.shutDown
}

func (s *Shell) movable(id string) (drag.Movable, bool) {
	e, ok := s.manager.Entry(id)
	if !ok {
		return nil, false
	}
	return e.Window, true
}

// BringToFront raises id on the current manager.
func (s *Shell) BringToFront(id string) {
	s.manager.BringToFront(id)
}

// Open opens id. Unknown applications are logged by the manager and reported.
func (s *Shell) Open(id string) error {
	if s.shutDown {
		return ErrShutDown
	}
	return s.manager.Open(id)
}

// ClickIcon selects one desktop icon.
func (s *Shell) ClickIcon(id string) {
	if s.shutDown {
		return
	}
	s.selected = id
	s.el.Desktop.SetSelectedIcon(id)
}

// DoubleClickIcon opens the icon's application and closes the start menu.
func (s *Shell) DoubleClickIcon(id string) {
	if s.shutDown {
		return
	}
	if err := s.manager.Open(id); err != nil {
		s.logger.Debug("icon open ignored", "app", id, "error", err)
	}
	s.setMenu(false)
}

// ToggleStartMenu opens or closes the start menu.
func (s *Shell) ToggleStartMenu() {
	if s.shutDown {
		return
	}
	s.setMenu(!s.el.Menu.IsOpen())
}

func (s *Shell) setMenu(open bool) {
	s.el.Menu.SetOpen(open)
	s.el.StartButton.SetPressed(open)
}

// ChooseMenuItem closes the menu, then opens the item's app or runs its action.
func (s *Shell) ChooseMenuItem(item MenuItem) {
	if s.shutDown {
		return
	}
	s.setMenu(false)
	switch {
	case item.AppID != "":
		if err := s.manager.Open(item.AppID); err != nil {
			s.logger.Debug("menu open ignored", "app", item.AppID, "error", err)
		}
	case item.Action == ActionShutdown:
		s.Shutdown()
	default:
		s.logger.Warn("unknown start menu action", "action", item.Action)
	}
}

// PointerDownWindow raises the window and, on its title bar, starts a drag.
func (s *Shell) PointerDownWindow(id string, target drag.Target, p drag.Point) {
	if s.shutDown {
		return
	}
	if s.drag != nil && s.drag.Begin(id, target, p) {
		return
	}
	s.manager.BringToFront(id)
}

// Dragging reports the window currently following the pointer.
func (s *Shell) Dragging() (string, bool) {
	if s.drag == nil {
		return "", false
	}
	return s.drag.Dragging()
}

func (s *Shell) ClickClose(id string) {
	if s.shutDown {
		return
	}
	s.manager.Close(id)
}

func (s *Shell) ClickMinimize(id string) {
	if s.shutDown {
		return
	}
	s.manager.Minimize(id)
}

// ClickTaskbar toggles the button's window between minimized and focused.
func (s *Shell) ClickTaskbar(id string) {
	if s.shutDown {
		return
	}
	s.manager.ToggleFromTaskbar(id)
}

// ClickDocument handles the document-level part of every click: it closes an
// open start menu when the click landed elsewhere, and a bare desktop click
// clears icon selection and defocuses the active window.
func (s *Shell) ClickDocument(hit HitKind) {
	if s.shutDown {
		return
	}
	if s.el.Menu.IsOpen() && hit != HitMenu && hit != HitStartButton {
		s.setMenu(false)
	}
	if hit != HitDesktop {
		return
	}
	s.manager.Defocus()
	if s.selected != "" {
		s.selected = ""
		s.el.Desktop.SetSelectedIcon("")
	}
}

// Shutdown closes every window, stops the clock and raises the overlay
// after a short delay.
func (s *Shell) Shutdown() {
	if s.shutDown {
		return
	}
	if s.drag != nil {
		s.drag.Cancel()
	}
	s.setMenu(false)
	s.manager.Stop()
	s.manager.CloseAll()
	s.shutDown = true
	s.gen++
	gen := s.gen
	s.sched.After(s.opts.OverlayDelay, func() {
		if gen == s.gen {
			s.el.Overlay.SetVisible(true)
		}
	})
	s.logger.Info("shutdown initiated")
}

// Restart hides the overlay and boots a fresh desktop: a new manager with
// an empty registry, a re-armed splash hand-off and a running clock.
func (s *Shell) Restart() {
	s.logger.Info("restarting desktop")
	if s.drag != nil {
		s.drag.Cancel()
	}
	s.manager.Stop()
	s.manager.CloseAll()
	s.manager = s.newManager()
	s.el.Overlay.SetVisible(false)
	s.setMenu(false)
	s.selected = ""
	s.el.Desktop.SetSelectedIcon("")
	s.shutDown = false
	s.restarts++
	s.Start()
}

// Status reports the current shell state.
func (s *Shell) Status() Status {
	focused, _ := s.manager.Focused()
	return Status{
		ShutDown: s.shutDown,
		Focused:  focused,
		OpenApps: s.manager.Len(),
		Clock:    s.clock,
		MenuOpen: s.el.Menu.IsOpen(),
		Selected: s.selected,
		Restarts: s.restarts,
	}
}

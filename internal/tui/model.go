package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/drag"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/placement"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/wm"
)

const (
	doubleClickWindow = 500 * time.Millisecond
	// placementOffset keeps scattered windows clear of the top-left icons.
	placementOffset = 2
)

// remoteMsg runs fn on the event loop and sends its result back. fn is
// skipped once ctx is done, since the caller has already given up.
type remoteMsg struct {
	ctx   context.Context
	fn    func(m *model) (any, error)
	reply chan remoteReply
}

type remoteReply struct {
	value any
	err   error
}

type lastClick struct {
	app string
	at  time.Time
}

// model is the bubbletea model hosting the desktop. All shell and window
// manager calls happen inside Update.
type model struct {
	cfg    *config.Config
	logger *slog.Logger
	loop   *eventLoop
	styles styles
	now    func() time.Time
	rng    *rand.Rand

	windows *windowSet
	icons   *desktopIcons
	menu    *startMenu
	start   *startButton
	bar     *taskbar
	clock   *clockLabel
	overlay *shutdownOverlay
	shell   *shell.Shell

	width  int
	height int
	placed bool
	click  lastClick
}

type modelOptions struct {
	Config    *config.Config
	Populator wm.Populator
	Logger    *slog.Logger
	Now       func() time.Time
	Rand      *rand.Rand
}

func newModel(ctx context.Context, opts modelOptions) (*model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Populator == nil {
		return nil, fmt.Errorf("tui: populator is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &model{
		cfg:     cfg,
		logger:  logger,
		loop:    newEventLoop(ctx, cfg.Timings.Frame()),
		styles:  newStyles(cfg.Theme),
		now:     opts.Now,
		rng:     opts.Rand,
		icons:   &desktopIcons{apps: cfg.DesktopApps()},
		menu:    newStartMenu(cfg.StartMenuApps()),
		start:   &startButton{},
		bar:     &taskbar{},
		clock:   &clockLabel{},
		overlay: &shutdownOverlay{},
	}
	m.windows = newWindowSet(cfg.Apps, &m.styles, cfg.Window)
	if w, ok := m.windows.byID[cfg.SplashApp]; ok {
		w.continueButton = true
		w.refreshBody()
	}

	newManager := func() *wm.Manager {
		return wm.NewManager(m.windows, m.bar, opts.Populator, m.loop, wm.Options{
			SplashID:     cfg.SplashApp,
			IntroID:      cfg.IntroApp,
			HandoffDelay: cfg.Timings.SplashHandoff(),
			Label:        cfg.Label,
			Icon:         appIcon(cfg),
			Logger:       logger,
		})
	}
	sh, err := shell.New(shell.Elements{
		Desktop:     m.icons,
		Menu:        m.menu,
		StartButton: m.start,
		Taskbar:     m.bar,
		Clock:       m.clock,
		Overlay:     m.overlay,
	}, newManager, m.loop, shell.Options{
		ClockFormat:  cfg.ClockFormat,
		OverlayDelay: cfg.Timings.ShutdownOverlay(),
		Now:          opts.Now,
		Pointer:      m.loop,
		Frames:       m.loop,
		Viewport: func() drag.Viewport {
			return m.layout().viewport(cfg.Window.EdgeMargin)
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	m.shell = sh
	return m, nil
}

// appIcon resolves icons through the app table so icon overrides reach the
// taskbar too.
func appIcon(cfg *config.Config) func(id string) icons.Icon {
	return func(id string) icons.Icon {
		if a, ok := cfg.App(id); ok {
			return icons.Lookup(a.IconKey())
		}
		return icons.Lookup(id)
	}
}

func (m *model) layout() layout {
	return layout{width: m.width, height: m.height, taskbarH: m.cfg.TaskbarHeight}
}

func (m *model) scene() scene {
	return scene{
		windows:  m.windows,
		icons:    m.icons,
		menu:     m.menu,
		taskbar:  m.bar,
		overlay:  m.overlay,
		shutDown: m.shell.ShutDown(),
	}
}

func (m *model) Init() tea.Cmd {
	m.shell.Start()
	return m.loop.drain()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case applyMsg:
		msg.fn()
	case frameMsg:
		m.loop.runFrame()
	case remoteMsg:
		if err := msg.ctx.Err(); err != nil {
			msg.reply <- remoteReply{err: err}
			break
		}
		value, err := msg.fn(m)
		msg.reply <- remoteReply{value: value, err: err}
	}
	return m, tea.Batch(cmd, m.loop.drain())
}

func (m *model) View() string {
	return m.render()
}

// resize places every window on the first size report and keeps them
// reachable on later ones.
func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	if !m.placed {
		m.placeWindows()
		m.placed = true
		return
	}
	l := m.layout()
	vp := l.viewport(m.cfg.Window.EdgeMargin)
	for _, w := range m.windows.order {
		fw, fh := placement.Fit(width, height, m.cfg.Window.Width, m.cfg.Window.Height, l.taskbarH)
		w.resize(fw, fh)
		w.MoveTo(drag.Clamp(w.bounds, w.bounds.X, w.bounds.Y, vp))
	}
}

// placeWindows centers the splash window and scatters the rest near the
// top-left of the desktop.
func (m *model) placeWindows() {
	l := m.layout()
	if l.width <= 0 || l.height <= 0 {
		return
	}
	vp := l.viewport(m.cfg.Window.EdgeMargin)
	for _, w := range m.windows.order {
		fw, fh := placement.Fit(l.width, l.height, m.cfg.Window.Width, m.cfg.Window.Height, l.taskbarH)
		var r wm.Rect
		if w.id == m.cfg.SplashApp {
			r = placement.Center(l.width, l.desktopHeight(), fw, fh, 0)
		} else {
			r = placement.Scatter(m.rng, l.width, l.desktopHeight(), fw, fh, placementOffset)
		}
		w.resize(r.Width, r.Height)
		w.MoveTo(drag.Clamp(w.bounds, r.X, r.Y, vp))
	}
}

func (m *model) restart() {
	m.shell.Restart()
	m.click = lastClick{}
	m.placeWindows()
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	p := drag.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.loop.pointerMove(p)
		return
	case tea.MouseActionRelease:
		m.loop.pointerUp(p)
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.shell.ShutDown() {
			return
		}
		if w, ok := m.windows.topmost(msg.X, msg.Y); ok {
			w.vp, _ = w.vp.Update(msg)
		}
		return
	case tea.MouseButtonLeft:
		m.press(p)
	}
}

// press handles a left-button press: the element under the pointer first,
// then the document-level click.
func (m *model) press(p drag.Point) {
	h := m.layout().hitTest(m.scene(), p.X, p.Y)
	switch h.kind {
	case shell.HitOverlay:
		if h.restart {
			m.restart()
		}
		return
	case shell.HitMenu:
		if h.menuIndex >= 0 {
			m.shell.ChooseMenuItem(m.menu.entries[h.menuIndex].item)
		}
	case shell.HitStartButton:
		m.shell.ToggleStartMenu()
	case shell.HitTaskbar:
		if h.app != "" {
			m.shell.ClickTaskbar(h.app)
		}
	case shell.HitWindow:
		m.shell.PointerDownWindow(h.app, h.target, p)
		switch h.control {
		case controlClose:
			m.shell.ClickClose(h.app)
		case controlMinimize:
			m.shell.ClickMinimize(h.app)
		case controlContinue:
			m.shell.ClickClose(h.app)
		}
	case shell.HitIcon:
		m.clickIcon(h.app)
	}
	m.shell.ClickDocument(h.kind)
}

func (m *model) clickIcon(id string) {
	now := m.now()
	if m.click.app == id && now.Sub(m.click.at) <= doubleClickWindow {
		m.click = lastClick{}
		m.shell.DoubleClickIcon(id)
		return
	}
	m.click = lastClick{app: id, at: now}
	m.shell.ClickIcon(id)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.loop.stop()
		return tea.Quit
	}

	if m.shell.ShutDown() {
		if m.overlay.visible && (key == "r" || key == "enter") {
			m.restart()
		}
		return nil
	}

	if m.menu.open {
		switch key {
		case "up", "k":
			m.menu.moveCursor(-1)
		case "down", "j":
			m.menu.moveCursor(1)
		case "enter":
			m.shell.ChooseMenuItem(m.menu.entries[m.menu.cursor].item)
		case "esc", "s":
			m.shell.ToggleStartMenu()
		}
		return nil
	}

	switch key {
	case "s":
		m.shell.ToggleStartMenu()
		return nil
	case "tab":
		m.cycleFocus()
		return nil
	case "d":
		m.shell.ClickDocument(shell.HitDesktop)
		return nil
	}

	if id, ok := m.shell.Manager().Focused(); ok {
		w := m.windows.byID[id]
		switch key {
		case "w":
			m.shell.ClickClose(id)
		case "m":
			m.shell.ClickMinimize(id)
		case "enter":
			if w.continueButton {
				m.shell.ClickClose(id)
			}
		case "up", "down", "pgup", "pgdown", "k", "j", "home", "end":
			w.vp, _ = w.vp.Update(msg)
		}
		return nil
	}

	switch key {
	case "up", "k":
		m.moveIconSelection(placement.DirUp)
	case "down", "j":
		m.moveIconSelection(placement.DirDown)
	case "left", "h":
		m.moveIconSelection(placement.DirLeft)
	case "right", "l":
		m.moveIconSelection(placement.DirRight)
	case "enter":
		if m.icons.selected != "" {
			m.shell.DoubleClickIcon(m.icons.selected)
		}
	}
	return nil
}

// cycleFocus raises the lowest visible window, rotating through the stack.
func (m *model) cycleFocus() {
	var lowest *wm.WindowState
	states := m.shell.Manager().Snapshot()
	for i := range states {
		s := &states[i]
		if !s.Visible {
			continue
		}
		if lowest == nil || s.ZOrder < lowest.ZOrder {
			lowest = s
		}
	}
	if lowest != nil {
		m.shell.BringToFront(lowest.ID)
	}
}

// moveIconSelection walks the icon grid. With nothing selected the first
// icon is picked.
func (m *model) moveIconSelection(dir placement.Direction) {
	n := len(m.icons.apps)
	if n == 0 {
		return
	}
	l := m.layout()
	rects := make([]wm.Rect, n)
	for i := range rects {
		rects[i] = l.iconRect(i)
	}
	i := placement.Neighbor(rects, m.icons.index(m.icons.selected), dir)
	m.shell.ClickIcon(m.icons.apps[i].ID)
}

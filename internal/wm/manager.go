package wm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/retrodesk/internal/icons"
)

// BaseZOrder is the counter value before any window has been focused.
const BaseZOrder = 20

// DefaultHandoffDelay is how long after the splash closes the intro opens.
const DefaultHandoffDelay = 100 * time.Millisecond

// ErrUnknownApp is returned when an application has no window surface.
var ErrUnknownApp = errors.New("no window defined for application")

// Options configures a Manager.
type Options struct {
	// SplashID and IntroID drive the one-time splash hand-off. Leave either
	// empty to disable it.
	SplashID     string
	IntroID      string
	HandoffDelay time.Duration

	// Label returns the desktop icon label for id, used as the taskbar title.
	Label func(id string) (string, bool)
	// Icon resolves the icon of id. Defaults to icons.Lookup.
	Icon func(id string) icons.Icon

	Logger *slog.Logger
}

// WindowState is a read-only view of an open window.
type WindowState struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Visible     bool   `json:"visible"`
	Focused     bool   `json:"focused"`
	ZOrder      int    `json:"z_order"`
	Initialized bool   `json:"initialized"`
}

// handoff is the splash-to-intro transition. It fires at most once.
type handoff int

const (
	handoffArmed handoff = iota
	handoffFired
	handoffDisabled
)

// Manager owns the open-window registry, focus and stacking order. All
// methods must be called from the host's event loop.
type Manager struct {
	surfaces  Surfaces
	taskbar   Taskbar
	populator Populator
	sched     Scheduler
	opts      Options
	logger    *slog.Logger

	registry *Registry
	z        int
	focused  string
	splash   handoff
	nextGen  uint64
	stopped  bool
}

// NewManager creates a Manager with an empty registry.
func NewManager(surfaces Surfaces, taskbar Taskbar, populator Populator, sched Scheduler, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.HandoffDelay <= 0 {
		opts.HandoffDelay = DefaultHandoffDelay
	}
	if opts.Icon == nil {
		opts.Icon = icons.Lookup
	}
	splash := handoffArmed
	if opts.SplashID == "" || opts.IntroID == "" {
		splash = handoffDisabled
	}
	return &Manager{
		surfaces:  surfaces,
		taskbar:   taskbar,
		populator: populator,
		sched:     sched,
		opts:      opts,
		logger:    logger,
		registry:  NewRegistry(),
		z:         BaseZOrder,
		splash:    splash,
	}
}

// Open shows the application, creating its taskbar button on first open, and
// focuses it. Content is generated once per entry.
func (m *Manager) Open(id string) error {
	win, ok := m.surfaces.Window(id)
	if !ok || win == nil {
		m.logger.Error("window element not found", "app", id)
		return fmt.Errorf("%w: %s", ErrUnknownApp, id)
	}

	if e, ok := m.registry.Get(id); ok {
		e.Window.Show()
		m.BringToFront(id)
		m.populate(e)
		return nil
	}

	icon := m.opts.Icon(id)
	title := m.titleFor(id, win)
	win.SetTitle(title)
	win.SetIcon(icon)
	win.Show()

	m.nextGen++
	e := &Entry{
		ID:     id,
		Window: win,
		Button: m.taskbar.Add(id, title, icon),
		gen:    m.nextGen,
	}
	m.registry.Set(id, e)
	m.BringToFront(id)
	m.logger.Info("opened app", "app", id)

	m.populate(e)
	return nil
}

func (m *Manager) titleFor(id string, win Window) string {
	if m.opts.Label != nil {
		if label, ok := m.opts.Label(id); ok && label != "" {
			return label
		}
	}
	if t := win.Title(); t != "" {
		return t
	}
	return id
}

// Close hides the window, removes its taskbar button and forgets it.
func (m *Manager) Close(id string) {
	e, ok := m.registry.Get(id)
	if !ok {
		return
	}
	e.Window.Hide()
	e.Window.SetFocused(false)
	e.Button.Remove()
	m.registry.Delete(id)

	if m.focused == id {
		m.focused = ""
		m.focusNextHighest()
	}
	m.logger.Info("closed app", "app", id)

	if id == m.opts.SplashID {
		m.splashClosed()
	}
}

func (m *Manager) splashClosed() {
	if m.splash != handoffArmed {
		return
	}
	m.splash = handoffFired
	intro := m.opts.IntroID
	m.logger.Debug("splash closed, scheduling intro", "app", intro, "delay", m.opts.HandoffDelay)
	m.sched.After(m.opts.HandoffDelay, func() {
		if m.stopped {
			return
		}
		if err := m.Open(intro); err != nil {
			m.logger.Error("auto-open failed", "app", intro, "error", err)
		}
	})
}

// Minimize hides the window but keeps its entry and taskbar button.
func (m *Manager) Minimize(id string) {
	e, ok := m.registry.Get(id)
	if !ok {
		return
	}
	e.Window.Hide()
	e.Window.SetFocused(false)
	e.Button.SetActive(false)

	if m.focused == id {
		m.focused = ""
		m.focusNextHighest()
	}
	m.logger.Info("minimized app", "app", id)
}

// BringToFront focuses an open, visible window and raises it above all
// others. Focusing the already focused window changes nothing.
func (m *Manager) BringToFront(id string) {
	if m.focused == id {
		return
	}
	e, ok := m.registry.Get(id)
	if !ok || !e.Window.Visible() {
		return
	}
	if prev, ok := m.registry.Get(m.focused); ok {
		prev.Window.SetFocused(false)
		prev.Button.SetActive(false)
	}
	m.z++
	e.Window.SetZOrder(m.z)
	e.Window.SetFocused(true)
	e.Button.SetActive(true)
	m.focused = id
}

// Defocus clears focus without hiding anything.
func (m *Manager) Defocus() {
	if prev, ok := m.registry.Get(m.focused); ok {
		prev.Window.SetFocused(false)
		prev.Button.SetActive(false)
	}
	m.focused = ""
}

// ToggleFromTaskbar minimizes the focused visible window, otherwise shows
// and focuses it.
func (m *Manager) ToggleFromTaskbar(id string) {
	e, ok := m.registry.Get(id)
	if !ok {
		return
	}
	if m.focused == id && e.Window.Visible() {
		m.Minimize(id)
		return
	}
	e.Window.Show()
	m.BringToFront(id)
	m.populate(e)
}

// Stop disarms the splash hand-off and cancels one already scheduled. A
// stopped manager can still close its windows but never opens the intro.
func (m *Manager) Stop() {
	m.stopped = true
	if m.splash == handoffArmed {
		m.splash = handoffDisabled
	}
}

// CloseAll closes every open window.
func (m *Manager) CloseAll() {
	for _, id := range m.registry.IDs() {
		m.Close(id)
	}
}

// focusNextHighest focuses the visible window with the highest z-order.
func (m *Manager) focusNextHighest() {
	next := ""
	maxZ := -1
	m.registry.Each(func(e *Entry) {
		if !e.Window.Visible() {
			return
		}
		if z := e.Window.ZOrder(); z > maxZ {
			maxZ = z
			next = e.ID
		}
	})
	if next != "" {
		m.BringToFront(next)
	}
}

func (m *Manager) populate(e *Entry) {
	if e.Initialized || e.loading {
		return
	}
	if m.populator == nil {
		e.Initialized = true
		return
	}
	e.loading = true
	id, gen := e.ID, e.gen
	width := e.Window.BodyWidth()
	e.Window.SetBody(Body{
		Kind: BodyLoading,
		Text: fmt.Sprintf("Loading %s content... Please wait.", id),
	})
	m.logger.Debug("initializing content", "app", id)

	m.sched.Go(func(ctx context.Context) func() {
		pop, err := m.populator.Populate(ctx, id, width)
		return func() { m.finishPopulate(id, gen, pop, err) }
	})
}

// live returns the entry for id if it is still the one that started the work.
func (m *Manager) live(id string, gen uint64) (*Entry, bool) {
	e, ok := m.registry.Get(id)
	if !ok || e.gen != gen {
		m.logger.Debug("dropping content for closed window", "app", id)
		return nil, false
	}
	return e, true
}

func (m *Manager) finishPopulate(id string, gen uint64, pop Population, err error) {
	e, ok := m.live(id, gen)
	if !ok {
		return
	}
	e.loading = false
	e.Initialized = true
	if err != nil {
		m.showError(e, err)
		return
	}
	e.Window.SetBody(Body{Kind: BodyContent, Text: pop.Text})

	if pop.Followup == nil {
		return
	}
	followup := pop.Followup
	m.sched.Go(func(ctx context.Context) func() {
		text, err := followup(ctx)
		return func() {
			e, ok := m.live(id, gen)
			if !ok {
				return
			}
			if err != nil {
				m.showError(e, err)
				return
			}
			e.Window.SetBody(Body{Kind: BodyContent, Text: text})
		}
	})
}

func (m *Manager) showError(e *Entry, err error) {
	m.logger.Error("content generation failed", "app", e.ID, "error", err)
	e.Window.SetBody(Body{
		Kind: BodyError,
		Text: fmt.Sprintf("Error loading content for %s. See log.", e.ID),
	})
}

// Focused returns the focused application, if any.
func (m *Manager) Focused() (string, bool) {
	return m.focused, m.focused != ""
}

// Entry returns the registry entry for id.
func (m *Manager) Entry(id string) (*Entry, bool) {
	return m.registry.Get(id)
}

// Len returns the number of open applications.
func (m *Manager) Len() int {
	return m.registry.Len()
}

// Snapshot describes every open window in registry order.
func (m *Manager) Snapshot() []WindowState {
	out := make([]WindowState, 0, m.registry.Len())
	m.registry.Each(func(e *Entry) {
		out = append(out, WindowState{
			ID:          e.ID,
			Title:       e.Window.Title(),
			Visible:     e.Window.Visible(),
			Focused:     e.ID == m.focused,
			ZOrder:      e.Window.ZOrder(),
			Initialized: e.Initialized,
		})
	})
	return out
}

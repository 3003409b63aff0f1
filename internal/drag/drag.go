package drag

import (
	"io"
	"log/slog"

	"github.com/1broseidon/retrodesk/internal/wm"
)

// DefaultEdgeMargin is how much of a window must stay reachable horizontally.
const DefaultEdgeMargin = 40

// Viewport is the desktop area a window may be dragged within.
type Viewport struct {
	Width         int
	Height        int
	TaskbarHeight int
	// EdgeMargin defaults to DefaultEdgeMargin when zero.
	EdgeMargin int
}

// Movable is the part of a window the controller repositions.
type Movable interface {
	Bounds() wm.Rect
	MoveTo(x, y int)
}

// grabber is implemented by windows that show a grab cursor affordance.
type grabber interface {
	SetGrabbing(grabbing bool)
}

// Focuser raises a window when a drag starts.
type Focuser interface {
	BringToFront(id string)
}

// PointerEvents installs document-wide move and release listeners. The
// returned func removes both.
type PointerEvents interface {
	Subscribe(move func(Point), up func(Point)) (remove func())
}

// FrameScheduler runs fn once before the next frame is drawn.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// Controller moves windows with the pointer, at most once per frame.
type Controller struct {
	focus    Focuser
	lookup   func(id string) (Movable, bool)
	events   PointerEvents
	frames   FrameScheduler
	viewport func() Viewport
	logger   *slog.Logger

	state State
}

// NewController creates an idle drag controller.
func NewController(focus Focuser, lookup func(id string) (Movable, bool), events PointerEvents, frames FrameScheduler, viewport func() Viewport, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		focus:    focus,
		lookup:   lookup,
		events:   events,
		frames:   frames,
		viewport: viewport,
		logger:   logger,
	}
}

// Phase returns the current drag phase.
func (c *Controller) Phase() Phase {
	return c.state.Phase
}

// Dragging returns the id of the window being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	if c.state.Phase != PhaseDragging {
		return "", false
	}
	return c.state.WindowID, true
}

// Begin starts dragging id if the pointer went down on its title bar. It
// reports whether a drag started.
func (c *Controller) Begin(id string, target Target, p Point) bool {
	if target != TargetTitleBar {
		return false
	}
	if c.state.Phase == PhaseDragging {
		c.end()
	}
	win, ok := c.lookup(id)
	if !ok {
		return false
	}

	c.focus.BringToFront(id)

	b := win.Bounds()
	c.state.Phase = PhaseDragging
	c.state.WindowID = id
	c.state.OffsetX = p.X - b.X
	c.state.OffsetY = p.Y - b.Y
	c.state.unsubscribe = c.events.Subscribe(c.move, c.up)
	if g, ok := win.(grabber); ok {
		g.SetGrabbing(true)
	}
	c.logger.Debug("drag started", "app", id, "offset_x", c.state.OffsetX, "offset_y", c.state.OffsetY)
	return true
}

func (c *Controller) move(p Point) {
	if c.state.Phase != PhaseDragging {
		return
	}
	c.state.pending = p
	c.state.hasPending = true
	if c.state.framePending {
		return
	}
	c.state.framePending = true
	c.frames.RequestFrame(c.flush)
}

// flush applies the latest pointer position.
func (c *Controller) flush() {
	c.state.framePending = false
	if c.state.Phase != PhaseDragging || !c.state.hasPending {
		return
	}
	c.state.hasPending = false
	win, ok := c.lookup(c.state.WindowID)
	if !ok {
		return
	}
	p := c.state.pending
	x, y := Clamp(win.Bounds(), p.X-c.state.OffsetX, p.Y-c.state.OffsetY, c.viewport())
	win.MoveTo(x, y)
}

func (c *Controller) up(Point) {
	c.end()
}

// Cancel ends any drag in progress without applying pending movement.
func (c *Controller) Cancel() {
	c.state.hasPending = false
	c.end()
}

func (c *Controller) end() {
	if c.state.Phase != PhaseDragging {
		return
	}
	c.flush()
	if c.state.unsubscribe != nil {
		c.state.unsubscribe()
	}
	if win, ok := c.lookup(c.state.WindowID); ok {
		if g, ok := win.(grabber); ok {
			g.SetGrabbing(false)
		}
	}
	c.logger.Debug("drag ended", "app", c.state.WindowID)
	c.state.Reset()
}

// Clamp keeps a window at (x, y) reachable: EdgeMargin units stay on screen
// horizontally, and the window stays between the top edge and the taskbar.
func Clamp(bounds wm.Rect, x, y int, vp Viewport) (int, int) {
	margin := vp.EdgeMargin
	if margin == 0 {
		margin = DefaultEdgeMargin
	}
	minX := -(bounds.Width - margin)
	maxX := vp.Width - margin
	maxY := vp.Height - bounds.Height - vp.TaskbarHeight

	x = max(minX, min(x, maxX))
	y = max(0, min(y, maxY))
	return x, y
}

package wm

import (
	"context"
	"time"

	"github.com/1broseidon/retrodesk/internal/icons"
)

// Rect describes a window's position and size in host units.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// BodyKind classifies what a window body currently shows.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyLoading
	BodyContent
	BodyError
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyLoading:
		return "loading"
	case BodyContent:
		return "content"
	case BodyError:
		return "error"
	default:
		return "unknown"
	}
}

// Body is the content shown inside a window.
type Body struct {
	Kind BodyKind
	Text string
}

// Window abstracts a static window surface owned by the host.
type Window interface {
	ID() string
	Title() string
	SetTitle(title string)
	SetIcon(icon icons.Icon)
	Show()
	Hide()
	Visible() bool
	ZOrder() int
	SetZOrder(z int)
	SetFocused(focused bool)
	SetBody(body Body)
	// BodyWidth is the usable content width, used to wrap generated content.
	BodyWidth() int
	Bounds() Rect
	MoveTo(x, y int)
}

// Surfaces resolves the static window defined for an application.
type Surfaces interface {
	Window(id string) (Window, bool)
}

// Taskbar appends buttons in call order.
type Taskbar interface {
	Add(id, title string, icon icons.Icon) TaskbarButton
}

// TaskbarButton is one button in the taskbar.
type TaskbarButton interface {
	SetActive(active bool)
	Remove()
}

// Population is the result of generating a window body. When Followup is
// set, it runs after Text has been shown and its output replaces the body.
type Population struct {
	Text     string
	Followup func(ctx context.Context) (string, error)
}

// Populator generates window content for an application.
type Populator interface {
	Populate(ctx context.Context, id string, width int) (Population, error)
}

// Scheduler defers work so that every state mutation runs on the host's
// event loop.
type Scheduler interface {
	// After runs fn on the event loop once d has elapsed.
	After(d time.Duration, fn func())
	// Go runs work off the event loop and applies the returned func on it.
	Go(work func(ctx context.Context) func())
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/retrodesk/internal/drag"
)

// applyMsg carries a mutation back onto the bubbletea event loop.
type applyMsg struct{ fn func() }

// frameMsg fires once per requested animation frame.
type frameMsg struct{}

// eventLoop adapts bubbletea's command model to the scheduling interfaces
// the window manager and drag controller expect. Everything it queues is
// handed to bubbletea by drain at the end of Update.
type eventLoop struct {
	ctx    context.Context
	cancel context.CancelFunc
	frame  time.Duration

	// tick produces a delayed command; tests replace it.
	tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

	pending      []tea.Cmd
	frameQueue   []func()
	framePending bool

	nextListener int
	listeners    map[int]pointerListener
}

type pointerListener struct {
	move func(drag.Point)
	up   func(drag.Point)
}

func newEventLoop(ctx context.Context, frame time.Duration) *eventLoop {
	ctx, cancel := context.WithCancel(ctx)
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	return &eventLoop{
		ctx:       ctx,
		cancel:    cancel,
		frame:     frame,
		tick:      tea.Tick,
		listeners: make(map[int]pointerListener),
	}
}

// After implements wm.Scheduler.
func (l *eventLoop) After(d time.Duration, fn func()) {
	l.pending = append(l.pending, l.tick(d, func(time.Time) tea.Msg {
		return applyMsg{fn: fn}
	}))
}

// Go implements wm.Scheduler. The work runs on a bubbletea command goroutine.
func (l *eventLoop) Go(work func(ctx context.Context) func()) {
	ctx := l.ctx
	l.pending = append(l.pending, func() tea.Msg {
		fn := work(ctx)
		if fn == nil {
			return nil
		}
		return applyMsg{fn: fn}
	})
}

// RequestFrame implements drag.FrameScheduler.
func (l *eventLoop) RequestFrame(fn func()) {
	l.frameQueue = append(l.frameQueue, fn)
	if l.framePending {
		return
	}
	l.framePending = true
	l.pending = append(l.pending, l.tick(l.frame, func(time.Time) tea.Msg {
		return frameMsg{}
	}))
}

func (l *eventLoop) runFrame() {
	queued := l.frameQueue
	l.frameQueue = nil
	l.framePending = false
	for _, fn := range queued {
		fn()
	}
}

// Subscribe implements drag.PointerEvents.
func (l *eventLoop) Subscribe(move func(drag.Point), up func(drag.Point)) func() {
	id := l.nextListener
	l.nextListener++
	l.listeners[id] = pointerListener{move: move, up: up}
	return func() { delete(l.listeners, id) }
}

func (l *eventLoop) pointerMove(p drag.Point) {
	for _, ln := range l.snapshot() {
		ln.move(p)
	}
}

func (l *eventLoop) pointerUp(p drag.Point) {
	for _, ln := range l.snapshot() {
		ln.up(p)
	}
}

// snapshot lets listeners unsubscribe while being notified.
func (l *eventLoop) snapshot() []pointerListener {
	out := make([]pointerListener, 0, len(l.listeners))
	for _, ln := range l.listeners {
		out = append(out, ln)
	}
	return out
}

func (l *eventLoop) hasListeners() bool {
	return len(l.listeners) > 0
}

// drain hands every queued command to bubbletea.
func (l *eventLoop) drain() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}

func (l *eventLoop) stop() {
	l.cancel()
}

package drag

import (
	"testing"

	"github.com/1broseidon/retrodesk/internal/wm"
)

type fakeWin struct {
	bounds   wm.Rect
	moves    int
	grabbing bool
}

func (w *fakeWin) Bounds() wm.Rect    { return w.bounds }
func (w *fakeWin) MoveTo(x, y int)    { w.bounds.X, w.bounds.Y = x, y; w.moves++ }
func (w *fakeWin) SetGrabbing(g bool) { w.grabbing = g }

type fakeFocus struct{ raised []string }

func (f *fakeFocus) BringToFront(id string) { f.raised = append(f.raised, id) }

type fakeEvents struct {
	move func(Point)
	up   func(Point)
	subs int
}

func (e *fakeEvents) Subscribe(move func(Point), up func(Point)) func() {
	e.move, e.up = move, up
	e.subs++
	return func() {
		e.move, e.up = nil, nil
		e.subs--
	}
}

type fakeFrames struct{ queued []func() }

func (f *fakeFrames) RequestFrame(fn func()) { f.queued = append(f.queued, fn) }

func (f *fakeFrames) tick() {
	q := f.queued
	f.queued = nil
	for _, fn := range q {
		fn()
	}
}

type rig struct {
	win    *fakeWin
	focus  *fakeFocus
	events *fakeEvents
	frames *fakeFrames
	c      *Controller
}

func newRig() *rig {
	r := &rig{
		win:    &fakeWin{bounds: wm.Rect{X: 100, Y: 50, Width: 300, Height: 200}},
		focus:  &fakeFocus{},
		events: &fakeEvents{},
		frames: &fakeFrames{},
	}
	lookup := func(id string) (Movable, bool) {
		if id != "vision" {
			return nil, false
		}
		return r.win, true
	}
	vp := func() Viewport { return Viewport{Width: 1024, Height: 768, TaskbarHeight: 36} }
	r.c = NewController(r.focus, lookup, r.events, r.frames, vp, nil)
	return r
}

func TestBeginOnlyFromTitleBar(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   bool
	}{
		{"title bar", TargetTitleBar, true},
		{"control button", TargetControl, false},
		{"body", TargetBody, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			got := r.c.Begin("vision", tt.target, Point{X: 110, Y: 55})
			if got != tt.want {
				t.Fatalf("Begin() = %v, want %v", got, tt.want)
			}
			if tt.want && len(r.focus.raised) != 1 {
				t.Fatalf("BringToFront calls = %d, want 1", len(r.focus.raised))
			}
			if !tt.want && (len(r.focus.raised) != 0 || r.events.subs != 0) {
				t.Fatal("non-title target raised the window or installed listeners")
			}
		})
	}
}

func TestMoveTracksPointerMinusOffset(t *testing.T) {
	r := newRig()
	r.c.Begin("vision", TargetTitleBar, Point{X: 110, Y: 55})

	r.events.move(Point{X: 210, Y: 155})
	if r.win.moves != 0 {
		t.Fatal("window moved before frame")
	}
	r.frames.tick()

	if r.win.bounds.X != 200 || r.win.bounds.Y != 150 {
		t.Fatalf("position = (%d,%d), want (200,150)", r.win.bounds.X, r.win.bounds.Y)
	}
}

func TestMovesCoalescedPerFrame(t *testing.T) {
	r := newRig()
	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})

	for i := 0; i < 10; i++ {
		r.events.move(Point{X: 100 + i, Y: 50 + i})
	}
	if len(r.frames.queued) != 1 {
		t.Fatalf("frames requested = %d, want 1", len(r.frames.queued))
	}
	r.frames.tick()
	if r.win.moves != 1 {
		t.Fatalf("moves = %d, want 1", r.win.moves)
	}
	if r.win.bounds.X != 109 || r.win.bounds.Y != 59 {
		t.Fatalf("position = (%d,%d), want latest (109,59)", r.win.bounds.X, r.win.bounds.Y)
	}
}

func TestDragFarOutsideViewportIsClamped(t *testing.T) {
	r := newRig()
	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
	r.events.move(Point{X: -5000, Y: -5000})
	r.frames.tick()

	if got, want := r.win.bounds.X, -(300 - 40); got != want {
		t.Fatalf("x = %d, want %d", got, want)
	}
	if r.win.bounds.Y != 0 {
		t.Fatalf("y = %d, want 0", r.win.bounds.Y)
	}
	if r.win.bounds.X+r.win.bounds.Width < 40 {
		t.Fatal("less than 40 units of the window remain on screen")
	}
}

func TestClamp(t *testing.T) {
	vp := Viewport{Width: 1024, Height: 768, TaskbarHeight: 36}
	b := wm.Rect{Width: 300, Height: 200}
	tests := []struct {
		name   string
		x, y   int
		wantX  int
		wantY  int
		vp     Viewport
		bounds wm.Rect
	}{
		{name: "inside", x: 10, y: 10, wantX: 10, wantY: 10, vp: vp, bounds: b},
		{name: "far left top", x: -5000, y: -5000, wantX: -260, wantY: 0, vp: vp, bounds: b},
		{name: "far right bottom", x: 5000, y: 5000, wantX: 984, wantY: 532, vp: vp, bounds: b},
		{name: "custom margin", x: 5000, y: 0, wantX: 1016, wantY: 0, vp: Viewport{Width: 1024, Height: 768, EdgeMargin: 8}, bounds: b},
		{name: "taller than viewport pins to top", x: 0, y: 40, wantX: 0, wantY: 0, vp: Viewport{Width: 100, Height: 100, TaskbarHeight: 10}, bounds: wm.Rect{Width: 50, Height: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Clamp(tt.bounds, tt.x, tt.y, tt.vp)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("Clamp() = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPointerUpRemovesListeners(t *testing.T) {
	r := newRig()
	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
	if !r.win.grabbing {
		t.Fatal("grab affordance not set")
	}
	r.events.move(Point{X: 120, Y: 70})
	r.events.up(Point{X: 120, Y: 70})

	if r.events.subs != 0 || r.events.move != nil {
		t.Fatal("listeners still installed after pointer-up")
	}
	if r.c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", r.c.Phase())
	}
	if r.win.grabbing {
		t.Fatal("grab affordance not restored")
	}
	if r.win.bounds.X != 120 || r.win.bounds.Y != 70 {
		t.Fatalf("pending move not applied on release: (%d,%d)", r.win.bounds.X, r.win.bounds.Y)
	}

	// A frame already requested must not move the window after release.
	moves := r.win.moves
	r.frames.tick()
	if r.win.moves != moves {
		t.Fatal("window moved after drag ended")
	}
}

func TestRepeatedDragsDoNotLeakListeners(t *testing.T) {
	r := newRig()
	for i := 0; i < 5; i++ {
		r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
		r.events.up(Point{})
	}
	if r.events.subs != 0 {
		t.Fatalf("listeners installed = %d, want 0", r.events.subs)
	}

	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
	if r.events.subs != 1 {
		t.Fatalf("listeners installed = %d, want 1", r.events.subs)
	}
}

func TestBeginUnknownWindow(t *testing.T) {
	r := newRig()
	if r.c.Begin("missing", TargetTitleBar, Point{}) {
		t.Fatal("Begin() on unknown window returned true")
	}
	if _, ok := r.c.Dragging(); ok {
		t.Fatal("Dragging() reports a drag")
	}
}

func TestCancelDropsPendingMove(t *testing.T) {
	r := newRig()
	r.c.Begin("vision", TargetTitleBar, Point{X: 100, Y: 50})
	r.events.move(Point{X: 300, Y: 300})
	r.c.Cancel()
	r.frames.tick()
	if r.win.moves != 0 {
		t.Fatalf("moves = %d after cancel, want 0", r.win.moves)
	}
	if r.events.subs != 0 {
		t.Fatal("listeners not removed by Cancel")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseIdle.String() != "idle" || PhaseDragging.String() != "dragging" || Phase(9).String() != "unknown" {
		t.Fatal("unexpected Phase.String() output")
	}
}

package wm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/1broseidon/retrodesk/internal/icons"
)

type fakeWindow struct {
	id      string
	title   string
	icon    icons.Icon
	visible bool
	z       int
	focused bool
	body    Body
	bounds  Rect
	bodies  []Body
}

func (w *fakeWindow) ID() string              { return w.id }
func (w *fakeWindow) Title() string           { return w.title }
func (w *fakeWindow) SetTitle(title string)   { w.title = title }
func (w *fakeWindow) SetIcon(icon icons.Icon) { w.icon = icon }
func (w *fakeWindow) Show()                   { w.visible = true }
func (w *fakeWindow) Hide()                   { w.visible = false }
func (w *fakeWindow) Visible() bool           { return w.visible }
func (w *fakeWindow) ZOrder() int             { return w.z }
func (w *fakeWindow) SetZOrder(z int)         { w.z = z }
func (w *fakeWindow) SetFocused(f bool)       { w.focused = f }
func (w *fakeWindow) BodyWidth() int          { return 60 }
func (w *fakeWindow) Bounds() Rect            { return w.bounds }
func (w *fakeWindow) MoveTo(x, y int)         { w.bounds.X, w.bounds.Y = x, y }
func (w *fakeWindow) SetBody(b Body) {
	w.body = b
	w.bodies = append(w.bodies, b)
}

type fakeSurfaces map[string]*fakeWindow

func newSurfaces(ids ...string) fakeSurfaces {
	s := fakeSurfaces{}
	for _, id := range ids {
		s[id] = &fakeWindow{id: id}
	}
	return s
}

func (s fakeSurfaces) Window(id string) (Window, bool) {
	w, ok := s[id]
	if !ok {
		return nil, false
	}
	return w, true
}

type fakeButton struct {
	bar     *fakeTaskbar
	id      string
	title   string
	active  bool
	removed bool
}

func (b *fakeButton) SetActive(active bool) { b.active = active }
func (b *fakeButton) Remove() {
	b.removed = true
	for i, existing := range b.bar.buttons {
		if existing == b {
			b.bar.buttons = append(b.bar.buttons[:i], b.bar.buttons[i+1:]...)
			return
		}
	}
}

type fakeTaskbar struct {
	buttons []*fakeButton
}

func (t *fakeTaskbar) Add(id, title string, _ icons.Icon) TaskbarButton {
	b := &fakeButton{bar: t, id: id, title: title}
	t.buttons = append(t.buttons, b)
	return b
}

func (t *fakeTaskbar) button(id string) *fakeButton {
	for _, b := range t.buttons {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (t *fakeTaskbar) count(id string) int {
	n := 0
	for _, b := range t.buttons {
		if b.id == id {
			n++
		}
	}
	return n
}

type timer struct {
	at time.Duration
	fn func()
}

// fakeScheduler queues work until the test drains it.
type fakeScheduler struct {
	now    time.Duration
	timers []timer
	work   []func(ctx context.Context) func()
	done   []func()
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.timers = append(s.timers, timer{at: s.now + d, fn: fn})
}

func (s *fakeScheduler) Go(work func(ctx context.Context) func()) {
	s.work = append(s.work, work)
}

// runWork executes pending background work without applying the results.
func (s *fakeScheduler) runWork() {
	for len(s.work) > 0 {
		w := s.work[0]
		s.work = s.work[1:]
		s.done = append(s.done, w(context.Background()))
	}
}

// applyDone applies completed work on the "event loop".
func (s *fakeScheduler) applyDone() {
	for len(s.done) > 0 {
		fn := s.done[0]
		s.done = s.done[1:]
		fn()
	}
}

// advance moves the clock forward and fires due timers in order.
func (s *fakeScheduler) advance(d time.Duration) {
	s.now += d
	sort.SliceStable(s.timers, func(i, j int) bool { return s.timers[i].at < s.timers[j].at })
	for len(s.timers) > 0 && s.timers[0].at <= s.now {
		t := s.timers[0]
		s.timers = s.timers[1:]
		t.fn()
	}
}

// settle drains timers, work and results until nothing is pending.
func (s *fakeScheduler) settle() {
	for i := 0; i < 100; i++ {
		if len(s.timers) == 0 && len(s.work) == 0 && len(s.done) == 0 {
			return
		}
		s.runWork()
		s.applyDone()
		if len(s.timers) > 0 {
			latest := s.timers[0].at
			for _, t := range s.timers {
				if t.at > latest {
					latest = t.at
				}
			}
			s.advance(latest - s.now)
		}
	}
	panic("scheduler did not settle")
}

type fakePopulator struct {
	calls    map[string]int
	fail     map[string]error
	followup map[string]func(ctx context.Context) (string, error)
}

func newPopulator() *fakePopulator {
	return &fakePopulator{
		calls:    map[string]int{},
		fail:     map[string]error{},
		followup: map[string]func(ctx context.Context) (string, error){},
	}
}

func (p *fakePopulator) Populate(_ context.Context, id string, width int) (Population, error) {
	p.calls[id]++
	if err := p.fail[id]; err != nil {
		return Population{}, err
	}
	return Population{
		Text:     fmt.Sprintf("content of %s (%d)", id, width),
		Followup: p.followup[id],
	}, nil
}

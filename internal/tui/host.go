package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// window is the static terminal surface of one application. It exists from
// startup; the window manager only shows, hides, stacks and fills it.
type window struct {
	id       string
	title    string
	icon     icons.Icon
	visible  bool
	focused  bool
	grabbing bool
	z        int
	bounds   wm.Rect
	body     wm.Body
	vp       viewport.Model
	styles   *styles

	// continueButton adds a Continue control below the body that closes
	// the window.
	continueButton bool
}

func newWindow(app config.App, st *styles, size config.WindowSize) *window {
	w := &window{
		id:     app.ID,
		title:  app.Title,
		icon:   icons.Lookup(app.IconKey()),
		styles: st,
		vp:     viewport.New(1, 1),
	}
	w.resize(size.Width, size.Height)
	return w
}

func (w *window) ID() string              { return w.id }
func (w *window) Title() string           { return w.title }
func (w *window) SetTitle(title string)   { w.title = title }
func (w *window) SetIcon(icon icons.Icon) { w.icon = icon }
func (w *window) Show()                   { w.visible = true }
func (w *window) Visible() bool           { return w.visible }
func (w *window) ZOrder() int             { return w.z }
func (w *window) SetZOrder(z int)         { w.z = z }
func (w *window) SetFocused(focused bool) { w.focused = focused }
func (w *window) SetGrabbing(g bool)      { w.grabbing = g }
func (w *window) Bounds() wm.Rect         { return w.bounds }

func (w *window) Hide() {
	w.visible = false
	w.grabbing = false
}

func (w *window) MoveTo(x, y int) {
	w.bounds.X = x
	w.bounds.Y = y
}

// BodyWidth is the text width inside the borders and padding.
func (w *window) BodyWidth() int {
	return max(1, w.bounds.Width-4)
}

func (w *window) bodyHeight() int {
	if w.showsContinue() {
		return max(1, w.bounds.Height-4)
	}
	return max(1, w.bounds.Height-2)
}

// showsContinue reports whether the Continue control fits: it needs a spare
// row between it and the text.
func (w *window) showsContinue() bool {
	return w.continueButton && w.bounds.Height >= continueMinHeight
}

func (w *window) SetBody(body wm.Body) {
	w.body = body
	w.refreshBody()
	w.vp.GotoTop()
}

// resize changes the window size and reflows the viewport.
func (w *window) resize(width, height int) {
	w.bounds.Width = width
	w.bounds.Height = height
	w.refreshBody()
}

func (w *window) refreshBody() {
	w.vp.Width = w.BodyWidth()
	w.vp.Height = w.bodyHeight()
	text := w.body.Text
	switch w.body.Kind {
	case wm.BodyLoading:
		text = w.styles.loading.Render(text)
	case wm.BodyError:
		text = w.styles.bodyError.Render(text)
	}
	w.vp.SetContent(text)
}

// windowSet holds every window surface in config order.
type windowSet struct {
	order []*window
	byID  map[string]*window
}

func newWindowSet(apps []config.App, st *styles, size config.WindowSize) *windowSet {
	s := &windowSet{byID: make(map[string]*window, len(apps))}
	for _, app := range apps {
		w := newWindow(app, st, size)
		s.order = append(s.order, w)
		s.byID[app.ID] = w
	}
	return s
}

// Window implements wm.Surfaces.
func (s *windowSet) Window(id string) (wm.Window, bool) {
	w, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return w, true
}

// topmost returns the visible window with the highest z-order covering (x, y).
func (s *windowSet) topmost(x, y int) (*window, bool) {
	var top *window
	for _, w := range s.order {
		if !w.visible {
			continue
		}
		b := w.bounds
		if x < b.X || x >= b.X+b.Width || y < b.Y || y >= b.Y+b.Height {
			continue
		}
		if top == nil || w.z > top.z {
			top = w
		}
	}
	return top, top != nil
}

// stacked returns the visible windows from bottom to top.
func (s *windowSet) stacked() []*window {
	var out []*window
	for _, w := range s.order {
		if w.visible {
			out = append(out, w)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].z < out[j-1].z; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

type taskButton struct {
	bar    *taskbar
	id     string
	title  string
	icon   icons.Icon
	active bool
}

func (b *taskButton) SetActive(active bool) { b.active = active }

func (b *taskButton) Remove() {
	for i, existing := range b.bar.buttons {
		if existing == b {
			b.bar.buttons = append(b.bar.buttons[:i], b.bar.buttons[i+1:]...)
			return
		}
	}
}

// taskbar lists buttons in the order windows were first opened.
type taskbar struct {
	buttons []*taskButton
}

func (t *taskbar) Add(id, title string, icon icons.Icon) wm.TaskbarButton {
	b := &taskButton{bar: t, id: id, title: title, icon: icon}
	t.buttons = append(t.buttons, b)
	return b
}

type desktopIcons struct {
	apps     []config.App
	selected string
}

func (d *desktopIcons) SetSelectedIcon(id string) { d.selected = id }

func (d *desktopIcons) index(id string) int {
	for i, a := range d.apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}

type menuEntry struct {
	label     string
	icon      icons.Icon
	item      shell.MenuItem
	separator bool
}

func (e menuEntry) isShutdown() bool {
	return e.item.Action == shell.ActionShutdown
}

type startMenu struct {
	entries []menuEntry
	open    bool
	cursor  int
}

func newStartMenu(apps []config.App) *startMenu {
	m := &startMenu{}
	for _, a := range apps {
		m.entries = append(m.entries, menuEntry{
			label: a.Title,
			icon:  icons.Lookup(a.IconKey()),
			item:  shell.MenuItem{AppID: a.ID},
		})
	}
	if len(m.entries) > 0 {
		m.entries = append(m.entries, menuEntry{separator: true})
	}
	m.entries = append(m.entries, menuEntry{
		label: "Shut Down...",
		icon:  icons.Lookup("shutdown"),
		item:  shell.MenuItem{Action: shell.ActionShutdown},
	})
	return m
}

func (m *startMenu) SetOpen(open bool) {
	m.open = open
	if open {
		m.cursor = 0
	}
}

func (m *startMenu) IsOpen() bool { return m.open }

// moveCursor steps over separators, wrapping at either end.
func (m *startMenu) moveCursor(delta int) {
	n := len(m.entries)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		m.cursor = (m.cursor + delta + n) % n
		if !m.entries[m.cursor].separator {
			return
		}
	}
}

type startButton struct{ pressed bool }

func (b *startButton) SetPressed(pressed bool) { b.pressed = pressed }

type clockLabel struct{ text string }

func (c *clockLabel) SetText(text string) { c.text = text }

type shutdownOverlay struct{ visible bool }

func (o *shutdownOverlay) SetVisible(visible bool) { o.visible = visible }

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/wm"
)

const (
	shutdownMessage = "It's now safe to turn off your computer."
	restartLabel    = "[ Restart ]"
	reset           = "\x1b[0m"
)

// canvas is a fixed-size grid of styled lines that blocks are pasted onto.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int, row string) *canvas {
	c := &canvas{width: width, lines: make([]string, height)}
	for i := range c.lines {
		c.lines[i] = row
	}
	return c
}

// place pastes block with its top-left corner at (x, y), clipping whatever
// falls outside the canvas.
func (c *canvas) place(x, y int, block []string) {
	for i, seg := range block {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		sx := x
		if sx < 0 {
			seg = ansi.TruncateLeft(seg, -sx, "")
			sx = 0
		}
		if sx >= c.width {
			continue
		}
		if sx+ansi.StringWidth(seg) > c.width {
			seg = ansi.Truncate(seg, c.width-sx, "")
		}
		segW := ansi.StringWidth(seg)
		if segW == 0 {
			continue
		}
		line := c.lines[row]
		left := ansi.Truncate(line, sx, "")
		right := ansi.TruncateLeft(line, sx+segW, "")
		c.lines[row] = left + reset + seg + reset + right
	}
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > w {
		return ansi.Truncate(s, w, "…")
	}
	return s + strings.Repeat(" ", w-ansi.StringWidth(s))
}

// render draws the whole desktop bottom to top.
func (m *model) render() string {
	l := m.layout()
	if l.width <= 0 || l.height <= 0 {
		return ""
	}
	st := &m.styles

	if m.overlay.visible {
		return m.renderOverlay(l)
	}

	c := newCanvas(l.width, l.height, st.desktop.Render(strings.Repeat(" ", l.width)))
	m.renderIcons(c, l)
	for _, w := range m.windows.stacked() {
		c.place(w.bounds.X, w.bounds.Y, m.renderWindow(w))
	}
	if m.menu.open {
		r := l.menuRect(m.menu)
		c.place(r.X, r.Y, m.renderMenu(r))
	}
	m.renderTaskbar(c, l)
	return c.String()
}

func (m *model) renderIcons(c *canvas, l layout) {
	for i, a := range m.icons.apps {
		r := l.iconRect(i)
		if r.Y >= l.desktopHeight() {
			continue
		}
		style := m.styles.icon
		if a.ID == m.icons.selected {
			style = m.styles.iconSelected
		}
		label := fit(icons.Lookup(a.IconKey()).Glyph+" "+a.Title, iconLabelWidth)
		c.place(r.X, r.Y, []string{style.Render(label)})
	}
}

func (m *model) renderWindow(w *window) []string {
	b := w.bounds
	st := &m.styles

	title := st.titleInactive
	switch {
	case w.grabbing:
		title = st.titleGrabbing
	case w.focused:
		title = st.titleActive
	}
	text := fit(" "+w.icon.Glyph+" "+w.title, max(0, b.Width-controlsWidth))
	bar := title.Render(text) + st.control.Render(fit("[_][X]", min(controlsWidth, b.Width)))

	content := w.vp.View()
	if w.showsContinue() {
		content += "\n\n" + strings.Repeat(" ", continueIndent(w)) + st.control.Render(continueLabel)
	}
	body := st.body.
		Width(max(1, b.Width-2)).
		Height(max(1, b.Height-2)).
		Render(content)
	lines := append([]string{bar}, strings.Split(body, "\n")...)
	if len(lines) > b.Height {
		lines = lines[:b.Height]
	}
	return lines
}

func (m *model) renderMenu(r wm.Rect) []string {
	inner := max(1, r.Width-2)
	rows := make([]string, 0, len(m.menu.entries))
	for i, e := range m.menu.entries {
		switch {
		case e.separator:
			rows = append(rows, m.styles.menuSeparator.Render(strings.Repeat("─", inner)))
		case i == m.menu.cursor:
			rows = append(rows, m.styles.menuCursor.Render(fit(" "+menuEntryLabel(e), inner)))
		default:
			rows = append(rows, m.styles.menuItem.Render(fit(" "+menuEntryLabel(e), inner)))
		}
	}
	return strings.Split(m.styles.menu.Render(strings.Join(rows, "\n")), "\n")
}

func (m *model) renderTaskbar(c *canvas, l layout) {
	st := &m.styles
	row := st.taskbar.Render(strings.Repeat(" ", l.width))
	for y := l.taskbarRow(); y < l.height; y++ {
		c.place(0, y, []string{row})
	}

	start := st.startButton
	if m.start.pressed {
		start = st.startPressed
	}
	c.place(0, l.taskbarRow(), []string{start.Render(startLabel)})

	for i, b := range m.bar.buttons {
		r := l.taskButtonRect(i)
		style := st.taskButton
		if b.active {
			style = st.taskActive
		}
		label := "[" + fit(b.icon.Glyph+" "+b.title, taskButtonWidth-2) + "]"
		c.place(r.X, r.Y, []string{style.Render(label)})
	}

	if m.clock.text != "" {
		r := l.clockRect(m.clock.text)
		c.place(r.X, r.Y, []string{st.clock.Render(" " + m.clock.text + " ")})
	}
}

func (m *model) renderOverlay(l layout) string {
	st := &m.styles
	c := newCanvas(l.width, l.height, st.overlay.Render(strings.Repeat(" ", l.width)))
	msg := lipgloss.PlaceHorizontal(l.width, lipgloss.Center, shutdownMessage)
	c.place(0, l.height/2, []string{st.overlay.Render(msg)})
	r := l.restartRect()
	c.place(r.X, r.Y, []string{st.overlayButton.Render(restartLabel)})
	return c.String()
}

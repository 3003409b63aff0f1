package tui

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/retrodesk/internal/drag"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// Desktop geometry, in terminal cells.
const (
	iconCellWidth   = 22
	iconLabelWidth  = 20
	iconRowStep     = 2
	iconOrigin      = 1
	startLabel      = "[⊞ Start]"
	taskButtonWidth = 18
	taskButtonGap   = 1
	controlsWidth   = 6
	menuMinWidth    = 24
	continueLabel   = "[ Continue ]"
)

// continueMinHeight is title bar, one text row, spacer, button and border.
const continueMinHeight = 5

// control identifies a title-bar button.
type control int

const (
	controlNone control = iota
	controlMinimize
	controlClose
	controlContinue
)

// hit is the result of resolving a pointer position against the desktop.
type hit struct {
	kind      shell.HitKind
	app       string
	target    drag.Target
	control   control
	menuIndex int
	restart   bool
}

// layout resolves screen positions for a terminal of the given size.
type layout struct {
	width    int
	height   int
	taskbarH int
}

// desktopHeight is the number of rows above the taskbar.
func (l layout) desktopHeight() int {
	return max(0, l.height-l.taskbarH)
}

func (l layout) taskbarRow() int {
	return l.desktopHeight()
}

// iconRect places icon i in columns that fill top to bottom.
func (l layout) iconRect(i int) wm.Rect {
	perColumn := max(1, (l.desktopHeight()-iconOrigin)/iconRowStep)
	col := i / perColumn
	row := i % perColumn
	return wm.Rect{
		X:      iconOrigin + col*iconCellWidth,
		Y:      iconOrigin + row*iconRowStep,
		Width:  iconLabelWidth,
		Height: 1,
	}
}

func (l layout) startButtonRect() wm.Rect {
	return wm.Rect{X: 0, Y: l.taskbarRow(), Width: ansi.StringWidth(startLabel), Height: l.taskbarH}
}

// taskButtonRect places the i-th taskbar button after the start button.
func (l layout) taskButtonRect(i int) wm.Rect {
	x := ansi.StringWidth(startLabel) + 1 + i*(taskButtonWidth+taskButtonGap)
	return wm.Rect{X: x, Y: l.taskbarRow(), Width: taskButtonWidth, Height: l.taskbarH}
}

func (l layout) clockRect(text string) wm.Rect {
	w := ansi.StringWidth(text) + 2
	return wm.Rect{X: max(0, l.width-w), Y: l.taskbarRow(), Width: w, Height: l.taskbarH}
}

// menuRect sizes the start menu to its widest entry and stacks it on the
// taskbar at the left edge.
func (l layout) menuRect(m *startMenu) wm.Rect {
	w := menuMinWidth
	for _, e := range m.entries {
		w = max(w, ansi.StringWidth(menuEntryLabel(e))+4)
	}
	h := len(m.entries) + 2
	return wm.Rect{X: 0, Y: max(0, l.taskbarRow()-h), Width: min(w, max(1, l.width)), Height: h}
}

func menuEntryLabel(e menuEntry) string {
	if e.separator {
		return ""
	}
	return e.icon.Glyph + " " + e.label
}

// restartRect is the button on the shutdown screen.
func (l layout) restartRect() wm.Rect {
	w := ansi.StringWidth(restartLabel)
	return wm.Rect{X: max(0, (l.width-w)/2), Y: l.height/2 + 2, Width: w, Height: 1}
}

func contains(r wm.Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// windowTarget resolves a point inside a window's bounds to the part that
// was hit.
func windowTarget(b wm.Rect, x, y int) (drag.Target, control) {
	if y != b.Y {
		return drag.TargetBody, controlNone
	}
	right := b.X + b.Width
	switch {
	case b.Width > controlsWidth && x >= right-3:
		return drag.TargetControl, controlClose
	case b.Width > controlsWidth && x >= right-controlsWidth:
		return drag.TargetControl, controlMinimize
	default:
		return drag.TargetTitleBar, controlNone
	}
}

// continueIndent centers the Continue label in the body text width.
func continueIndent(w *window) int {
	return max(0, (w.BodyWidth()-ansi.StringWidth(continueLabel))/2)
}

// continueRect is the Continue control on the last text row of w.
func continueRect(w *window) wm.Rect {
	b := w.bounds
	lw := ansi.StringWidth(continueLabel)
	return wm.Rect{
		X:      b.X + 2 + continueIndent(w),
		Y:      b.Y + b.Height - 2,
		Width:  min(lw, w.BodyWidth()),
		Height: 1,
	}
}

// scene is the state hit-testing needs.
type scene struct {
	windows  *windowSet
	icons    *desktopIcons
	menu     *startMenu
	taskbar  *taskbar
	overlay  *shutdownOverlay
	shutDown bool
}

// hitTest resolves (x, y) from the topmost layer down: shutdown screen,
// start menu, taskbar, windows by z-order, icons, then bare desktop.
func (l layout) hitTest(s scene, x, y int) hit {
	if s.overlay.visible || s.shutDown {
		return hit{kind: shell.HitOverlay, restart: s.overlay.visible && contains(l.restartRect(), x, y)}
	}
	if s.menu.open {
		r := l.menuRect(s.menu)
		if contains(r, x, y) {
			idx := y - r.Y - 1
			if idx < 0 || idx >= len(s.menu.entries) || s.menu.entries[idx].separator {
				idx = -1
			}
			return hit{kind: shell.HitMenu, menuIndex: idx}
		}
	}
	if y >= l.taskbarRow() {
		if contains(l.startButtonRect(), x, y) {
			return hit{kind: shell.HitStartButton}
		}
		for i, b := range s.taskbar.buttons {
			if contains(l.taskButtonRect(i), x, y) {
				return hit{kind: shell.HitTaskbar, app: b.id}
			}
		}
		return hit{kind: shell.HitTaskbar}
	}
	if w, ok := s.windows.topmost(x, y); ok {
		target, ctl := windowTarget(w.bounds, x, y)
		if target == drag.TargetBody && w.showsContinue() && contains(continueRect(w), x, y) {
			ctl = controlContinue
		}
		return hit{kind: shell.HitWindow, app: w.id, target: target, control: ctl}
	}
	for i, a := range s.icons.apps {
		if contains(l.iconRect(i), x, y) {
			return hit{kind: shell.HitIcon, app: a.ID}
		}
	}
	return hit{kind: shell.HitDesktop}
}

// viewport is the drag area for the current terminal size.
func (l layout) viewport(edgeMargin int) drag.Viewport {
	return drag.Viewport{
		Width:         l.width,
		Height:        l.height,
		TaskbarHeight: l.taskbarH,
		EdgeMargin:    edgeMargin,
	}
}

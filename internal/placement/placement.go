package placement

import (
	"math/rand"

	"github.com/1broseidon/retrodesk/internal/wm"
)

// DefaultOffset keeps scattered windows clear of the top-left corner.
const DefaultOffset = 20

// Scatter places a w×h window at a random position in the upper-left region
// of the desktop: within the top fifth vertically and the left quarter
// horizontally, shifted by offset.
func Scatter(rng *rand.Rand, desktopW, desktopH, w, h, offset int) wm.Rect {
	top := offset
	left := offset
	if span := desktopH / 5; span > 0 {
		top += rng.Intn(span)
	}
	if span := desktopW / 4; span > 0 {
		left += rng.Intn(span)
	}
	return wm.Rect{X: left, Y: top, Width: w, Height: h}
}

// Center places a w×h window in the middle of the desktop, lifted by half the
// taskbar height so it looks centered above the taskbar.
func Center(desktopW, desktopH, w, h, taskbarH int) wm.Rect {
	x := desktopW/2 - w/2
	y := desktopH/2 - h/2 - taskbarH/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return wm.Rect{X: x, Y: y, Width: w, Height: h}
}

// Fit shrinks a requested size so the window fits the desktop above the
// taskbar, keeping at least a minimal usable window.
func Fit(desktopW, desktopH, w, h, taskbarH int) (int, int) {
	const minW, minH = 20, 5

	maxW := desktopW
	maxH := desktopH - taskbarH
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	if w < minW {
		w = minW
	}
	if h < minH {
		h = minH
	}
	return w, h
}

package placement

import "github.com/1broseidon/retrodesk/internal/wm"

// Direction is an arrow key direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Neighbor returns the index of the rect reached by moving from current in
// dir. The closest rect in that direction wins (Manhattan distance between
// centers). With nothing ahead, selection wraps to the far end of the same
// row or column; if that lane is empty current is returned. An out-of-range
// current selects the first rect, and an empty slice returns -1.
func Neighbor(rects []wm.Rect, current int, dir Direction) int {
	if len(rects) == 0 {
		return -1
	}
	if current < 0 || current >= len(rects) {
		return 0
	}

	cx, cy := center(rects[current])

	best, bestDist := -1, 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		if !ahead(dir, x-cx, y-cy) {
			continue
		}
		dist := abs(x-cx) + abs(y-cy)
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return best
	}

	// Wrap to the rect furthest behind us in the same lane.
	best, bestDist = -1, 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		var along int
		switch dir {
		case DirUp, DirDown:
			if x != cx {
				continue
			}
			along = abs(y - cy)
		case DirLeft, DirRight:
			if y != cy {
				continue
			}
			along = abs(x - cx)
		}
		if best == -1 || along > bestDist {
			best, bestDist = i, along
		}
	}
	if best >= 0 {
		return best
	}
	return current
}

func ahead(dir Direction, dx, dy int) bool {
	switch dir {
	case DirUp:
		return dy < 0
	case DirDown:
		return dy > 0
	case DirLeft:
		return dx < 0
	case DirRight:
		return dx > 0
	}
	return false
}

func center(r wm.Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

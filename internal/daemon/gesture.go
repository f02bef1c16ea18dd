package daemon

import (
	"time"

	"github.com/policastro/mondrian-sub000/internal/tiles"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// resizeTolerance is how many pixels a window may change size during a
// move gesture before the gesture counts as a resize.
const resizeTolerance = 2

// gesture is a user move or resize of a tiled window with the mouse.
type gesture struct {
	window tiles.WindowID
	start  tiling.Area
	gen    uint64
	timer  *time.Timer
}

// onConfigured starts or extends a gesture when a tiled window changes
// geometry while a mouse button is held. Geometry changes without buttons
// held come from the daemon itself or from programs placing their windows.
func (l *Loop) onConfigured(win tiles.WindowID) {
	if l.gesture != nil {
		if l.gesture.window == win {
			l.armGesture()
		}
		return
	}
	if state, ok := l.manager.WindowState(win); !ok || state == tiles.StateFloating || state == tiles.StateMaximized {
		return
	}
	if _, animating := l.player.Running(); animating || !l.backend.ButtonsDown() {
		return
	}
	start, ok := l.placement(win)
	if !ok {
		return
	}

	l.logger.Debug("gesture started", "window", win)
	l.manager.PauseUpdates(true)
	l.gestureGen++
	l.gesture = &gesture{window: win, start: start, gen: l.gestureGen}
	l.armGesture()
}

func (l *Loop) armGesture() {
	g := l.gesture
	if g.timer != nil {
		g.timer.Stop()
	}
	check := gestureCheck{window: g.window, gen: g.gen}
	g.timer = time.AfterFunc(l.cfg.GestureDebounce(), func() { l.post(check) })
}

func (l *Loop) onGestureCheck(c gestureCheck) {
	g := l.gesture
	if g == nil || g.gen != c.gen {
		return
	}
	if l.backend.ButtonsDown() {
		l.armGesture()
		return
	}
	l.gesture = nil
	l.manager.PauseUpdates(false)

	area, err := l.backend.WindowArea(g.window)
	if err != nil {
		l.logger.Debug("gesture window vanished", "window", g.window, "error", err)
		if err := l.manager.UpdateLayout(false, nil); err != nil {
			l.logger.Warn("layout refresh failed", "error", err)
		}
		return
	}

	var res tiles.Result
	op := "move"
	switch {
	case abs(area.Width-g.start.Width) > resizeTolerance || abs(area.Height-g.start.Height) > resizeTolerance:
		op = "resize"
		res, err = l.manager.Resize(g.window, area)
	case abs(area.X-g.start.X) <= resizeTolerance && abs(area.Y-g.start.Y) <= resizeTolerance:
		op = "snap"
	default:
		p, perr := l.backend.Pointer()
		if perr != nil {
			p = area.Center()
		}
		if l.nearTileEdge(g.window, p) {
			op = "insert"
			res, err = l.manager.InsertWindow(g.window, p, true)
		} else {
			res, err = l.manager.MoveTo(g.window, p)
		}
	}
	l.logger.Debug("gesture ended", "window", g.window, "op", op)

	if err == nil && res.Kind == tiles.NoChange {
		// Snap the window back to its tile.
		res.Kind = tiles.LayoutChanged
	}
	l.apply(op, res, err)
}

// nearTileEdge reports whether p lies within near_edge pixels of the border
// of another window's tile.
func (l *Loop) nearTileEdge(win tiles.WindowID, p tiling.Point) bool {
	threshold := l.cfg.General.NearEdge
	if threshold <= 0 {
		return false
	}
	for _, mv := range l.manager.Layout() {
		if mv.Window == win || mv.Topmost || !mv.To.Contains(p) {
			continue
		}
		return len(mv.To.NearEdge(p, threshold)) > 0
	}
	return false
}

// placement returns the tile the layout gives win.
func (l *Loop) placement(win tiles.WindowID) (tiling.Area, bool) {
	for _, mv := range l.manager.Layout() {
		if mv.Window == win {
			return mv.To, true
		}
	}
	return tiling.Area{}, false
}

// abortGesture drops the running gesture without touching the layout.
func (l *Loop) abortGesture() {
	l.stopGesture()
	l.manager.PauseUpdates(false)
}

func (l *Loop) stopGesture() {
	if l.gesture == nil {
		return
	}
	if l.gesture.timer != nil {
		l.gesture.timer.Stop()
	}
	l.gesture = nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

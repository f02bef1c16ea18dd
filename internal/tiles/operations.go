package tiles

import (
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// shownLeaf returns the unpadded leaf of a window visible in the current
// layer of its container.
func (m *Manager) shownLeaf(win WindowID) (ContainerKey, *Container, tiling.AreaLeaf[WindowID], error) {
	key, c, ok := m.findTiled(win)
	if !ok || !c.IsShown(win) {
		return ContainerKey{}, nil, tiling.AreaLeaf[WindowID]{}, ErrWinNotManaged
	}
	tree := c.Tree()
	for _, l := range tree.Leaves(0, m.hiddenSet(tree)) {
		if l.ID == win {
			return key, c, l, nil
		}
	}
	// Minimized windows take no room.
	return ContainerKey{}, nil, tiling.AreaLeaf[WindowID]{}, ErrWinNotManaged
}

// hiddenSet returns the windows of tree that must not take any room.
func (m *Manager) hiddenSet(tree *Tree) map[WindowID]struct{} {
	var hidden map[WindowID]struct{}
	for _, id := range tree.IDs() {
		if !m.windows.IsVisible(id) || m.windows.IsIconic(id) {
			if hidden == nil {
				hidden = make(map[WindowID]struct{})
			}
			hidden[id] = struct{}{}
		}
	}
	return hidden
}

// visibleLeaves returns the unpadded leaves of every active container.
func (m *Manager) visibleLeaves() []tiling.AreaLeaf[WindowID] {
	var leaves []tiling.AreaLeaf[WindowID]
	for _, k := range m.ActiveKeys() {
		if _, ok := m.hasMaximized(k); ok {
			continue
		}
		tree := m.active[k].Tree()
		leaves = append(leaves, tree.Leaves(0, m.hiddenSet(tree))...)
	}
	return leaves
}

// neighbor returns the leaf adjacent to src in direction d. Among equally
// close leaves the most recently focused one wins.
func (m *Manager) neighbor(src tiling.Area, d tiling.Direction, exclude WindowID, leaves []tiling.AreaLeaf[WindowID]) (tiling.AreaLeaf[WindowID], bool) {
	var best tiling.AreaLeaf[WindowID]
	bestGap, bestRank, bestOverlap := -1, -1, 0
	for _, l := range leaves {
		if l.ID == exclude {
			continue
		}
		a := l.Viewbox
		var gap, overlap int
		switch d {
		case tiling.Right:
			gap, overlap = a.X-src.Right(), span(a.Y, a.Bottom(), src.Y, src.Bottom())
		case tiling.Left:
			gap, overlap = src.X-a.Right(), span(a.Y, a.Bottom(), src.Y, src.Bottom())
		case tiling.Up:
			gap, overlap = src.Y-a.Bottom(), span(a.X, a.Right(), src.X, src.Right())
		default:
			gap, overlap = a.Y-src.Bottom(), span(a.X, a.Right(), src.X, src.Right())
		}
		if gap < 0 || overlap <= 0 {
			continue
		}

		rank := m.history.Rank(l.ID)
		better := bestGap < 0 || gap < bestGap
		if gap == bestGap {
			switch {
			case rank >= 0 && (bestRank < 0 || rank < bestRank):
				better = true
			case rank == bestRank && overlap > bestOverlap:
				better = true
			}
		}
		if better {
			best, bestGap, bestRank, bestOverlap = l, gap, rank, overlap
		}
	}
	return best, bestGap >= 0
}

// span returns the length of the overlap of [a1,a2) and [b1,b2).
func span(a1, a2, b1, b2 int) int {
	return min(a2, b2) - max(a1, b1)
}

// SwapWindows exchanges the places of two tiled windows, possibly across
// monitors.
func (m *Manager) SwapWindows(a, b WindowID) (Result, error) {
	if a == b {
		return resultNoChange, nil
	}
	_, ca, okA := m.findTiled(a)
	_, cb, okB := m.findTiled(b)
	if !okA || !okB {
		return resultNoChange, ErrWinNotManaged
	}

	if ca == cb {
		if ca.Current() != LayerNormal && ca.IsShown(a) && ca.IsShown(b) {
			ca.Tree().SwapIDs(a, b)
		} else {
			m.restoreLayer(ca)
		}
		ca.NormalTree().SwapIDs(a, b)
		ca.Touch(m.now())
		return resultLayoutChanged, nil
	}

	m.restoreLayer(ca)
	m.restoreLayer(cb)
	ca.NormalTree().ReplaceID(a, b)
	cb.NormalTree().ReplaceID(b, a)
	ca.Touch(m.now())
	cb.Touch(m.now())
	return resultLayoutChanged, nil
}

// Resize moves the borders of a tiled window after the user resized it to
// area. Every edge that moved drags the split it belongs to.
func (m *Manager) Resize(win WindowID, area tiling.Area) (Result, error) {
	if _, ok := m.floating[win]; ok {
		return resultNoChange, nil
	}
	if _, ok := m.maximized[win]; ok {
		return resultLayoutChanged, nil
	}
	_, c, _, err := m.shownLeaf(win)
	if err != nil {
		return resultNoChange, err
	}
	placed, ok := m.placement(c, win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}

	deltas := map[tiling.Direction]int{
		tiling.Left:  placed.X - area.X,
		tiling.Right: area.Right() - placed.Right(),
		tiling.Up:    placed.Y - area.Y,
		tiling.Down:  area.Bottom() - placed.Bottom(),
	}
	for _, d := range []tiling.Direction{tiling.Left, tiling.Right, tiling.Up, tiling.Down} {
		delta := deltas[d]
		if delta == 0 {
			continue
		}
		_, _, leaf, err := m.shownLeaf(win)
		if err != nil {
			return resultNoChange, err
		}
		c.Tree().ResizeAncestor(leaf.Viewbox.Inside(d), leaf.Viewbox.Beyond(d, 0), delta, tiling.ResizeClamp)
	}
	c.Touch(m.now())
	return resultLayoutChanged, nil
}

// ResizeDirection grows the edge of win facing d by px pixels (shrinks it
// when negative).
func (m *Manager) ResizeDirection(win WindowID, d tiling.Direction, px int) (Result, error) {
	_, c, leaf, err := m.shownLeaf(win)
	if err != nil {
		return resultNoChange, err
	}
	if !c.Tree().ResizeAncestor(leaf.Viewbox.Inside(d), leaf.Viewbox.Beyond(d, 0), px, tiling.ResizeClamp) {
		return resultNoChange, nil
	}
	c.Touch(m.now())
	return resultLayoutChanged, nil
}

// InsertWindow moves a tiled window to the container at point. With
// freeForm the window is placed next to the leaf under point, otherwise the
// strategy decides.
func (m *Manager) InsertWindow(win WindowID, point tiling.Point, freeForm bool) (Result, error) {
	_, src, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	dstKey, dst, ok := m.containerAt(point)
	if !ok {
		return resultNoChange, ErrNoContainerAtPoint
	}

	m.restoreLayer(src)
	src.NormalTree().Remove(win)
	src.Touch(m.now())
	m.prepare(dstKey, dst)
	if freeForm {
		dst.NormalTree().InsertAt(win, point)
	} else {
		dst.NormalTree().Insert(win)
	}
	return resultLayoutChanged, nil
}

// MoveTo handles a tiled window dropped at point by the user.
func (m *Manager) MoveTo(win WindowID, point tiling.Point) (Result, error) {
	if _, ok := m.floating[win]; ok {
		return resultNoChange, nil
	}
	srcKey, _, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	dstKey, dst, ok := m.containerAt(point)
	if !ok {
		return resultLayoutChanged, ErrNoContainerAtPoint
	}

	tree := dst.Tree()
	target, hasTarget := tree.FindLeafAt(point, 0, m.hiddenSet(tree))
	if hasTarget && target.ID == win {
		return resultLayoutChanged, nil
	}
	if srcKey == dstKey && m.settings.FreeMoveInMonitor {
		return m.InsertWindow(win, point, true)
	}
	if hasTarget && m.settings.MoveBehavior == MoveSwap {
		return m.SwapWindows(win, target.ID)
	}
	return m.InsertWindow(win, point, true)
}

// MoveInDirection swaps win with its neighbour in direction d, or with
// insert moves it past the neighbour. A window on a monitor edge moves to
// the adjacent monitor.
func (m *Manager) MoveInDirection(win WindowID, d tiling.Direction, insert bool) (Result, error) {
	key, _, leaf, err := m.shownLeaf(win)
	if err != nil {
		return resultNoChange, err
	}
	n, ok := m.neighbor(leaf.Viewbox, d, win, m.visibleLeaves())
	if !ok {
		p := leaf.Viewbox.Beyond(d, 0)
		if k, _, ok := m.containerAt(p); ok && k != key {
			return m.InsertWindow(win, p, false)
		}
		return resultNoChange, nil
	}
	if !insert {
		return m.SwapWindows(win, n.ID)
	}
	return m.InsertWindow(win, n.Viewbox.Inside(d), true)
}

// Focalize shows win alone on its monitor, or leaves the focalized layer
// when it is already active.
func (m *Manager) Focalize(win WindowID) (Result, error) {
	_, c, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	switch c.Current() {
	case LayerFocalized:
		m.restoreLayer(c)
		return resultLayoutChanged, nil
	case LayerHalfFocalized:
		m.restoreLayer(c)
	}
	hidden, err := c.Focalize(win, m.now())
	if err != nil {
		return resultNoChange, err
	}
	m.minimize(hidden)
	return Result{Kind: LayoutChanged, Window: win}, nil
}

// HalfFocalize shows win and the largest other window of its monitor, or
// leaves the half focalized layer when it is already active.
func (m *Manager) HalfFocalize(win WindowID) (Result, error) {
	_, c, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	switch c.Current() {
	case LayerHalfFocalized:
		m.restoreLayer(c)
		return resultLayoutChanged, nil
	case LayerFocalized:
		m.restoreLayer(c)
	}
	if c.NormalTree().Len() < 2 {
		return resultNoChange, nil
	}
	hidden, err := c.HalfFocalize(win, m.now())
	if err != nil {
		return resultNoChange, err
	}
	m.minimize(hidden)
	return Result{Kind: LayoutChanged, Window: win}, nil
}

func (m *Manager) minimize(ids []WindowID) {
	for _, id := range ids {
		if err := m.windows.Minimize(id); err != nil {
			m.logger.Debug("minimize window failed", "window", id, "error", err)
		}
	}
}

// Release toggles win between tiled and floating.
func (m *Manager) Release(win WindowID) (Result, error) {
	if props, ok := m.floating[win]; ok {
		if props.Locked {
			return resultNoChange, nil
		}
		delete(m.floating, win)
		var prefer *tiling.Point
		if p, err := m.windows.WindowCenter(win); err == nil {
			prefer = &p
		}
		if _, err := m.Add(win, prefer, false, true); err != nil {
			m.floating[win] = props
			return resultNoChange, err
		}
		if err := m.windows.SetTopmost(win, false); err != nil {
			m.logger.Debug("clear topmost failed", "window", win, "error", err)
		}
		return Result{Kind: Dequeue, Window: win}, nil
	}
	if _, ok := m.maximized[win]; ok {
		return resultNoChange, nil
	}

	_, c, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	m.restoreLayer(c)
	c.NormalTree().Remove(win)
	c.Touch(m.now())
	return m.float(win, c.Area().Center(), false)
}

// AsMaximized toggles win between tiled and maximized on its monitor.
func (m *Manager) AsMaximized(win WindowID) (Result, error) {
	if key, ok := m.maximized[win]; ok {
		delete(m.maximized, win)
		if err := m.windows.SetTopmost(win, false); err != nil {
			m.logger.Debug("clear topmost failed", "window", win, "error", err)
		}
		if c, ok := m.active[key]; ok {
			m.prepare(key, c)
			c.NormalTree().Insert(win)
		} else if ic, ok := m.inactive[key]; ok {
			m.restoreLayer(ic.container)
			ic.container.NormalTree().Insert(win)
		} else if _, err := m.Add(win, nil, false, true); err != nil {
			return resultNoChange, err
		}
		return Result{Kind: LayoutChanged, Window: win}, nil
	}
	if _, ok := m.floating[win]; ok {
		return resultNoChange, nil
	}

	key, c, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, ErrWinNotManaged
	}
	m.restoreLayer(c)
	c.NormalTree().Remove(win)
	c.Touch(m.now())
	m.maximized[win] = key

	area := c.Area()
	if mon, ok := m.monitor(key.Monitor); ok {
		area = mon.WorkArea
	}
	return Result{Kind: Queue, Window: win, Area: area.PadFull(m.settings.BorderPadding), Topmost: true}, nil
}

// Invert flips the orientation of the splits around win.
func (m *Manager) Invert(win WindowID) (Result, error) {
	_, c, leaf, err := m.shownLeaf(win)
	if err != nil {
		return resultNoChange, err
	}
	if !c.Tree().SwitchSubtreeOrientations(leaf.Viewbox.Center()) {
		return resultNoChange, nil
	}
	c.Touch(m.now())
	return resultLayoutChanged, nil
}

// FocusNeighbor focuses the window next to the focused one in direction d.
func (m *Manager) FocusNeighbor(d tiling.Direction) (Result, error) {
	current, ok := m.history.Latest()
	if !ok {
		return resultNoChange, ErrNoWindow
	}
	var src tiling.Area
	if _, _, leaf, err := m.shownLeaf(current); err == nil {
		src = leaf.Viewbox
	} else if area, err := m.windows.WindowArea(current); err == nil {
		src = area
	} else {
		return resultNoChange, ErrNoWindow
	}

	n, ok := m.neighbor(src, d, current, m.visibleLeaves())
	if !ok {
		return resultNoChange, nil
	}
	if err := m.windows.Focus(n.ID); err != nil {
		return resultNoChange, err
	}
	m.history.Push(n.ID)
	return Result{Kind: NoChange, Window: n.ID}, nil
}

// Peek uncovers ratio percent of a monitor on side d by shrinking its tiled
// area, or gives the area back when the monitor is already peeked. An empty
// monitor id selects the monitor of the focused window.
func (m *Manager) Peek(monitor string, d tiling.Direction, ratio float64) (Result, error) {
	if monitor == "" {
		monitor = m.focusedMonitor()
	}
	key := m.key(monitor)
	c, ok := m.active[key]
	if !ok {
		return resultNoChange, &ContainerNotFoundError{Key: key}
	}
	if _, ok := m.peeked[key]; ok {
		m.unpeek(key, c)
		return resultLayoutChanged, nil
	}
	mon, _ := m.monitor(monitor)
	ratio = min(max(ratio, 0), 100)

	var area tiling.Area
	if d.IsFirst() {
		_, area = mon.WorkArea.Split(ratio, d.Axis())
	} else {
		area, _ = mon.WorkArea.Split(100-ratio, d.Axis())
	}
	m.peeked[key] = area
	c.SetArea(area)
	return resultLayoutChanged, nil
}

// IsPeeked reports whether the container of key is shrunk by Peek.
func (m *Manager) IsPeeked(key ContainerKey) bool {
	_, ok := m.peeked[key]
	return ok
}

// unpeek gives c its monitor area back.
func (m *Manager) unpeek(key ContainerKey, c *Container) {
	if _, ok := m.peeked[key]; !ok {
		return
	}
	delete(m.peeked, key)
	if mon, ok := m.monitor(key.Monitor); ok {
		c.SetArea(mon.WorkArea)
	}
}

// focusedMonitor returns the monitor of the focused window, or the first one.
func (m *Manager) focusedMonitor() string {
	if win, ok := m.history.Latest(); ok {
		if key, _, ok := m.findTiled(win); ok {
			return key.Monitor
		}
	}
	if len(m.monitors) > 0 {
		return m.monitors[0].ID
	}
	return ""
}

// PauseUpdates suspends layout updates, e.g. while the user drags a window.
func (m *Manager) PauseUpdates(pause bool) {
	m.paused = pause
	if pause {
		m.mover.Cancel()
	}
}

// Paused reports whether layout updates are suspended.
func (m *Manager) Paused() bool { return m.paused }

// OnFocus records that win got the focus. Focusing a window hidden by a
// focalized layer brings the normal layer back.
func (m *Manager) OnFocus(win WindowID) (Result, error) {
	if !m.IsManaged(win) {
		return resultNoChange, nil
	}
	m.history.Push(win)
	if _, c, ok := m.findTiled(win); ok && !c.IsShown(win) {
		m.restoreLayer(c)
		return resultLayoutChanged, nil
	}
	return resultNoChange, nil
}

// OnMinimize records that win was minimized.
func (m *Manager) OnMinimize(win WindowID) (Result, error) {
	if props, ok := m.floating[win]; ok {
		props.Minimized = true
		m.floating[win] = props
		return resultNoChange, nil
	}
	if _, c, ok := m.findTiled(win); ok && c.IsShown(win) {
		return resultLayoutChanged, nil
	}
	return resultNoChange, nil
}

// OnRestore records that win was restored from minimized.
func (m *Manager) OnRestore(win WindowID) (Result, error) {
	if props, ok := m.floating[win]; ok {
		props.Minimized = false
		m.floating[win] = props
		return resultNoChange, nil
	}
	_, c, ok := m.findTiled(win)
	if !ok {
		return resultNoChange, nil
	}
	if !c.IsShown(win) {
		m.restoreLayer(c)
	}
	return resultLayoutChanged, nil
}

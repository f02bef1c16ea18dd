package tiles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// padding returns the border padding of the current layer of c.
func (m *Manager) padding(c *Container) int {
	if c.Current() == LayerFocalized {
		return m.settings.FocalizedPadding
	}
	return m.settings.BorderPadding
}

// targets returns where the shown windows of c belong.
func (m *Manager) targets(c *Container) []tiling.AreaLeaf[WindowID] {
	tree := c.Tree()
	leaves := tree.Leaves(m.padding(c), m.hiddenSet(tree))
	for i := range leaves {
		leaves[i].Viewbox = leaves[i].Viewbox.PadFull(m.settings.TilesPadding)
	}
	return leaves
}

// placement returns the area the layout gives win.
func (m *Manager) placement(c *Container, win WindowID) (tiling.Area, bool) {
	for _, l := range m.targets(c) {
		if l.ID == win {
			return l.Viewbox, true
		}
	}
	return tiling.Area{}, false
}

// Layout returns the target area of every shown window without moving
// anything.
func (m *Manager) Layout() []Move {
	var moves []Move
	for _, k := range m.ActiveKeys() {
		if win, ok := m.hasMaximized(k); ok {
			if mon, ok := m.monitor(k.Monitor); ok {
				moves = append(moves, Move{Window: win, To: mon.WorkArea.PadFull(m.settings.BorderPadding), Topmost: true})
			}
			continue
		}
		for _, l := range m.targets(m.active[k]) {
			moves = append(moves, Move{Window: l.ID, To: l.Viewbox})
		}
	}
	return moves
}

// UpdateLayout moves every shown window where the layout wants it. Monitors
// with a maximized window are left alone. focusHint, when set, is focused
// afterwards.
func (m *Manager) UpdateLayout(animate bool, focusHint *WindowID) error {
	if m.paused {
		return nil
	}
	var moves []Move
	for _, target := range m.Layout() {
		if target.Topmost {
			continue
		}
		from, err := m.windows.WindowArea(target.Window)
		if err != nil {
			continue
		}
		if from == target.To {
			continue
		}
		target.From = from
		moves = append(moves, target)
	}

	var errs []error
	if len(moves) > 0 {
		if err := m.mover.Move(moves, animate && m.settings.AnimationsEnabled); err != nil {
			errs = append(errs, fmt.Errorf("apply layout: %w", err))
		}
	}
	if focusHint != nil {
		if err := m.windows.Focus(*focusHint); err != nil {
			errs = append(errs, fmt.Errorf("focus %d: %w", *focusHint, err))
		}
	}
	return errors.Join(errs...)
}

// Apply performs what an operation result asks for.
func (m *Manager) Apply(res Result, animate bool) error {
	switch res.Kind {
	case LayoutChanged, Dequeue:
		var hint *WindowID
		if res.Window != 0 {
			hint = &res.Window
		}
		return m.UpdateLayout(animate, hint)
	case Queue:
		if err := m.windows.MoveResize(res.Window, res.Area); err != nil {
			return fmt.Errorf("place %d: %w", res.Window, err)
		}
		if err := m.windows.SetTopmost(res.Window, res.Topmost); err != nil {
			return fmt.Errorf("topmost %d: %w", res.Window, err)
		}
		return m.UpdateLayout(animate, nil)
	}
	return nil
}

// CurrentWindows returns every window managed on the current desktop,
// shown or not, sorted by id. Floating windows are included whatever their
// desktop.
func (m *Manager) CurrentWindows() []WindowID {
	seen := make(map[WindowID]struct{})
	for _, k := range m.ActiveKeys() {
		for _, id := range m.active[k].NormalTree().IDs() {
			seen[id] = struct{}{}
		}
	}
	for id, key := range m.maximized {
		if key.Desktop == m.desktop {
			seen[id] = struct{}{}
		}
	}
	for id := range m.floating {
		seen[id] = struct{}{}
	}
	out := make([]WindowID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VisibleManagedWindows returns the state of every managed window shown on
// the current desktop.
func (m *Manager) VisibleManagedWindows() map[WindowID]WindowTileState {
	out := make(map[WindowID]WindowTileState)
	for _, k := range m.ActiveKeys() {
		c := m.active[k]
		for _, id := range c.Tree().IDs() {
			if m.windows.IsVisible(id) && !m.windows.IsIconic(id) {
				state, _ := m.WindowState(id)
				out[id] = state
			}
		}
	}
	for id, key := range m.maximized {
		if key.Desktop == m.desktop && m.windows.IsVisible(id) {
			out[id] = StateMaximized
		}
	}
	for id, props := range m.floating {
		if props.Minimized || !m.windows.IsVisible(id) {
			continue
		}
		if d, err := m.desktops.WindowDesktop(id); err == nil && d != m.desktop && d >= 0 {
			continue
		}
		out[id] = StateFloating
	}
	return out
}

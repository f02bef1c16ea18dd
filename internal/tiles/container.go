package tiles

import (
	"fmt"
	"time"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// Layer is one of the tiling modes of a container.
type Layer int

const (
	LayerNormal Layer = iota
	LayerFocalized
	LayerHalfFocalized
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerFocalized:
		return "focalized"
	case LayerHalfFocalized:
		return "half_focalized"
	}
	return "normal"
}

// Container holds the three layer trees of a monitor on a virtual desktop.
// The normal tree always holds every tiled window; the other layers hold a
// subset while active, the rest being minimized.
type Container struct {
	trees   [layerCount]*Tree
	current Layer
	touched [layerCount]time.Time
}

// NewContainer returns a container in the normal layer tiling area.
func NewContainer(area tiling.Area, strategy tiling.LayoutStrategy, insertThreshold int) *Container {
	c := &Container{}
	for l := range c.trees {
		tree := tiling.NewAreaTree[WindowID](area, strategy.Clone())
		tree.SetInsertThreshold(insertThreshold)
		c.trees[l] = tree
	}
	return c
}

// Current returns the active layer.
func (c *Container) Current() Layer { return c.current }

// Tree returns the tree of the active layer.
func (c *Container) Tree() *Tree { return c.trees[c.current] }

// NormalTree returns the tree holding every tiled window.
func (c *Container) NormalTree() *Tree { return c.trees[LayerNormal] }

// LayerTree returns the tree of layer l.
func (c *Container) LayerTree(l Layer) *Tree { return c.trees[l] }

// Area returns the tiled area.
func (c *Container) Area() tiling.Area { return c.trees[LayerNormal].Area() }

// SetArea changes the area of every layer.
func (c *Container) SetArea(area tiling.Area) {
	for _, t := range c.trees {
		t.SetArea(area)
	}
}

// SetStrategy installs a clone of s in every layer.
func (c *Container) SetStrategy(s tiling.LayoutStrategy, insertThreshold int) {
	for _, t := range c.trees {
		t.SetStrategy(s.Clone())
		t.SetInsertThreshold(insertThreshold)
	}
}

// Touch records activity on the current layer.
func (c *Container) Touch(now time.Time) {
	c.touched[c.current] = now
}

// LastActivity returns the last recorded activity on the current layer.
func (c *Container) LastActivity() time.Time {
	return c.touched[c.current]
}

// Focalize shows win alone and returns the windows to minimize.
func (c *Container) Focalize(win WindowID, now time.Time) ([]WindowID, error) {
	if c.current != LayerNormal {
		return nil, fmt.Errorf("focalize from %s layer", c.current)
	}
	normal := c.NormalTree()
	if !normal.Contains(win) {
		return nil, ErrWinNotManaged
	}
	focal := c.trees[LayerFocalized]
	focal.Clear()
	focal.Insert(win)
	c.current = LayerFocalized
	c.Touch(now)
	return c.hidden(), nil
}

// HalfFocalize keeps win and the largest other window, and returns the
// windows to minimize. The two windows keep their relative placement.
func (c *Container) HalfFocalize(win WindowID, now time.Time) ([]WindowID, error) {
	if c.current != LayerNormal {
		return nil, fmt.Errorf("half focalize from %s layer", c.current)
	}
	normal := c.NormalTree()
	if !normal.Contains(win) {
		return nil, ErrWinNotManaged
	}
	if normal.Len() < 2 {
		return nil, fmt.Errorf("half focalize needs two windows, have %d", normal.Len())
	}

	var secondary WindowID
	largest := -1
	for _, l := range normal.Leaves(0, nil) {
		if l.ID != win && l.Viewbox.Size() > largest {
			secondary, largest = l.ID, l.Viewbox.Size()
		}
	}

	half := normal.Clone()
	half.Retain(map[WindowID]struct{}{win: {}, secondary: {}})
	c.trees[LayerHalfFocalized] = half
	c.current = LayerHalfFocalized
	c.Touch(now)
	return c.hidden(), nil
}

// Restore goes back to the normal layer and returns the windows that were
// hidden by the previous layer.
func (c *Container) Restore(now time.Time) []WindowID {
	if c.current == LayerNormal {
		return nil
	}
	hidden := c.hidden()
	c.trees[c.current].Clear()
	c.current = LayerNormal
	c.Touch(now)
	return hidden
}

// Reinstate selects the most recently used layer that still has windows,
// when the container becomes active again.
func (c *Container) Reinstate() {
	best := LayerNormal
	for l := LayerFocalized; l < layerCount; l++ {
		if c.trees[l].IsEmpty() {
			continue
		}
		if c.touched[l].After(c.touched[best]) {
			best = l
		}
	}
	c.current = best
}

// hidden returns the normal windows missing from the current layer.
func (c *Container) hidden() []WindowID {
	if c.current == LayerNormal {
		return nil
	}
	tree := c.trees[c.current]
	var out []WindowID
	for _, id := range c.NormalTree().IDs() {
		if !tree.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether win is tiled in this container, whatever the layer.
func (c *Container) Contains(win WindowID) bool {
	return c.NormalTree().Contains(win)
}

// IsShown reports whether win is part of the current layer.
func (c *Container) IsShown(win WindowID) bool {
	return c.Tree().Contains(win)
}

package tiling

import (
	"fmt"
	"strings"
)

const nilIndex = -1

// DefaultInsertThreshold is the share (percent) of a leaf's height, at its
// top and bottom, where a point-driven insertion stacks windows vertically.
const DefaultInsertThreshold = 25

// Clamp bounds a split ratio.
type Clamp struct {
	Min float64
	Max float64
}

var (
	// FullClamp allows any ratio.
	FullClamp = Clamp{Min: 0, Max: 100}
	// ResizeClamp keeps interactive resizes away from degenerate slivers.
	ResizeClamp = Clamp{Min: 10, Max: 90}
)

// node is either a leaf (no children, optional id) or an internal node
// (no id, both children, orientation and ratio).
type node[ID comparable] struct {
	id          ID
	hasID       bool
	first       int
	second      int
	orientation Orientation
	ratio       float64
}

func emptyLeaf[ID comparable]() node[ID] {
	return node[ID]{first: nilIndex, second: nilIndex}
}

func (n *node[ID]) isLeaf() bool {
	return n.first == nilIndex
}

// AreaLeaf is a window id together with the area it occupies.
type AreaLeaf[ID comparable] struct {
	ID      ID
	Viewbox Area
}

// Ancestor describes the split separating two points.
type Ancestor struct {
	Orientation Orientation
	Ratio       float64
	Area        Area
}

// AreaTree is a binary space partition of an area. Nodes live in an arena and
// reference each other by index; the root is always at index 0.
type AreaTree[ID comparable] struct {
	nodes           []node[ID]
	free            []int
	area            Area
	strategy        LayoutStrategy
	insertThreshold int

	ids   map[ID]AreaLeaf[ID]
	index map[ID]int
}

// NewAreaTree returns an empty tree tiling area with the given strategy.
func NewAreaTree[ID comparable](area Area, strategy LayoutStrategy) *AreaTree[ID] {
	if strategy == nil {
		strategy = NewGoldenRatio(true, false, 50)
	}
	t := &AreaTree[ID]{
		nodes:           []node[ID]{emptyLeaf[ID]()},
		area:            area,
		strategy:        strategy,
		insertThreshold: DefaultInsertThreshold,
	}
	t.rebuild()
	return t
}

// Area returns the region tiled by the tree.
func (t *AreaTree[ID]) Area() Area { return t.area }

// SetArea changes the tiled region; the tree shape is kept.
func (t *AreaTree[ID]) SetArea(area Area) {
	t.area = area
	t.rebuild()
}

// Strategy returns the strategy used by Insert and Remove.
func (t *AreaTree[ID]) Strategy() LayoutStrategy { return t.strategy }

// SetStrategy replaces the strategy. Existing splits are kept.
func (t *AreaTree[ID]) SetStrategy(s LayoutStrategy) {
	if s != nil {
		t.strategy = s
	}
}

// SetInsertThreshold sets the top/bottom band (percent, at most 50) used by InsertAt.
func (t *AreaTree[ID]) SetInsertThreshold(pct int) {
	t.insertThreshold = min(max(pct, 0), 50)
}

// Len returns the number of windows in the tree.
func (t *AreaTree[ID]) Len() int { return len(t.ids) }

// IsEmpty reports whether the tree holds no window.
func (t *AreaTree[ID]) IsEmpty() bool { return len(t.ids) == 0 }

// Contains reports whether id is in the tree.
func (t *AreaTree[ID]) Contains(id ID) bool {
	_, ok := t.ids[id]
	return ok
}

// IDs returns the window ids in leaf order (first child before second).
func (t *AreaTree[ID]) IDs() []ID {
	leaves := t.Leaves(0, nil)
	ids := make([]ID, len(leaves))
	for i, l := range leaves {
		ids[i] = l.ID
	}
	return ids
}

// Leaf returns the cached unpadded leaf of id.
func (t *AreaTree[ID]) Leaf(id ID) (AreaLeaf[ID], bool) {
	l, ok := t.ids[id]
	return l, ok
}

// Clear removes every window.
func (t *AreaTree[ID]) Clear() {
	t.nodes = []node[ID]{emptyLeaf[ID]()}
	t.free = nil
	t.rebuild()
}

// Clone returns a deep copy of the tree with its own strategy instance.
func (t *AreaTree[ID]) Clone() *AreaTree[ID] {
	c := &AreaTree[ID]{
		area:            t.area,
		strategy:        t.strategy.Clone(),
		insertThreshold: t.insertThreshold,
	}
	c.nodes = compactFrom(t.nodes, 0)
	c.rebuild()
	return c
}

// Insert adds id following the strategy. It is a no-op when id is present.
func (t *AreaTree[ID]) Insert(id ID) {
	if t.Contains(id) {
		return
	}
	t.strategy.Init(len(t.ids), OpInsert)

	i := 0
	for {
		n := &t.nodes[i]
		if n.isLeaf() {
			if !n.hasID {
				n.id, n.hasID = id, true
				t.strategy.Complete()
				break
			}
			step := t.strategy.Next()
			split := t.strategy.Complete()
			t.splitLeaf(i, id, step.Direction.IsFirst(), split)
			break
		}

		step := t.strategy.Next()
		if step.Orientation != nil {
			n.orientation = *step.Orientation
		}
		if step.Ratio != nil {
			n.ratio = clampRatio(*step.Ratio, 0, 100)
		}
		if step.Direction.IsFirst() {
			i = n.first
		} else {
			i = n.second
		}
	}
	t.rebuild()
}

// InsertAt adds id next to the leaf under p. Points in the top or bottom band
// of the leaf stack the windows vertically; anywhere else the leaf is split
// left/right at its middle. The strategy is not consulted. Points outside the
// tree fall back to Insert.
func (t *AreaTree[ID]) InsertAt(id ID, p Point) {
	if t.Contains(id) {
		return
	}
	path, area, ok := t.pathAt(p, t.area, nil)
	if !ok {
		t.Insert(id)
		return
	}
	i := path[len(path)-1]
	if !t.nodes[i].hasID {
		t.nodes[i].id, t.nodes[i].hasID = id, true
		t.rebuild()
		return
	}

	band := area.Height * t.insertThreshold / 100
	var split Split
	var first bool
	switch {
	case p.Y < area.Y+band:
		split, first = Split{Orientation: Horizontal, Ratio: 50}, true
	case p.Y >= area.Bottom()-band:
		split, first = Split{Orientation: Horizontal, Ratio: 50}, false
	default:
		split, first = Split{Orientation: Vertical, Ratio: 50}, p.X < area.X+area.Width/2
	}
	t.splitLeaf(i, id, first, split)
	t.rebuild()
}

// splitLeaf turns leaf i into an internal node holding its previous id and
// the new one.
func (t *AreaTree[ID]) splitLeaf(i int, id ID, newFirst bool, split Split) {
	current := t.nodes[i]
	kept := t.alloc(node[ID]{id: current.id, hasID: true, first: nilIndex, second: nilIndex})
	added := t.alloc(node[ID]{id: id, hasID: true, first: nilIndex, second: nilIndex})
	first, second := kept, added
	if newFirst {
		first, second = added, kept
	}
	t.nodes[i] = node[ID]{
		first:       first,
		second:      second,
		orientation: split.Orientation,
		ratio:       clampRatio(split.Ratio, 0, 100),
	}
}

// Remove deletes id. It returns false when id is not in the tree.
func (t *AreaTree[ID]) Remove(id ID) bool {
	path, ok := t.pathTo(id)
	if !ok {
		return false
	}
	t.removePath(path)
	return true
}

// RemoveAt deletes the window under p and returns its id.
func (t *AreaTree[ID]) RemoveAt(p Point) (ID, bool) {
	var zero ID
	path, _, ok := t.pathAt(p, t.area, nil)
	if !ok {
		return zero, false
	}
	leaf := t.nodes[path[len(path)-1]]
	if !leaf.hasID {
		return zero, false
	}
	t.removePath(path)
	return leaf.id, true
}

// removePath removes the leaf at the end of path and collapses its parent
// into the sibling subtree.
func (t *AreaTree[ID]) removePath(path []int) {
	t.strategy.Init(len(t.ids), OpRemove)
	if len(path) == 1 {
		t.nodes[0] = emptyLeaf[ID]()
		t.strategy.Complete()
		t.rebuild()
		return
	}

	for _, i := range path[:len(path)-1] {
		step := t.strategy.Next()
		n := &t.nodes[i]
		if step.Orientation != nil {
			n.orientation = *step.Orientation
		}
		if step.Ratio != nil {
			n.ratio = clampRatio(*step.Ratio, 0, 100)
		}
	}

	parent, leaf := path[len(path)-2], path[len(path)-1]
	sibling := t.nodes[parent].first
	if sibling == leaf {
		sibling = t.nodes[parent].second
	}
	t.nodes[parent] = t.nodes[sibling]
	t.release(sibling)
	t.release(leaf)
	t.strategy.Complete()
	t.rebuild()
}

// Retain removes every window not in keep, preserving the relative layout of
// the remaining ones. It returns the removed ids. The strategy is not consulted.
func (t *AreaTree[ID]) Retain(keep map[ID]struct{}) []ID {
	var removed []ID
	var walk func(i int) int
	walk = func(i int) int {
		n := &t.nodes[i]
		if n.isLeaf() {
			if !n.hasID {
				return nilIndex
			}
			if _, ok := keep[n.id]; ok {
				return i
			}
			removed = append(removed, n.id)
			return nilIndex
		}
		f, s := walk(n.first), walk(n.second)
		n = &t.nodes[i]
		switch {
		case f == nilIndex && s == nilIndex:
			return nilIndex
		case f == nilIndex:
			return s
		case s == nilIndex:
			return f
		}
		n.first, n.second = f, s
		return i
	}

	root := walk(0)
	if root == nilIndex {
		t.nodes = []node[ID]{emptyLeaf[ID]()}
	} else {
		t.nodes = compactFrom(t.nodes, root)
	}
	t.free = nil
	t.rebuild()
	return removed
}

// Leaves returns every window with its area, the tree area being shrunk by
// padding first. Windows in ignored are skipped and a branch left without
// visible windows gives its whole area to its sibling.
func (t *AreaTree[ID]) Leaves(padding int, ignored map[ID]struct{}) []AreaLeaf[ID] {
	leaves := make([]AreaLeaf[ID], 0, len(t.ids))
	visible := t.visibleCounter(ignored)

	var walk func(i int, area Area)
	walk = func(i int, area Area) {
		n := &t.nodes[i]
		if n.isLeaf() {
			if n.hasID && visible(i) > 0 {
				leaves = append(leaves, AreaLeaf[ID]{ID: n.id, Viewbox: area})
			}
			return
		}
		if visible(n.first) == 0 {
			walk(n.second, area)
			return
		}
		if visible(n.second) == 0 {
			walk(n.first, area)
			return
		}
		a, b := area.Split(n.ratio, n.orientation)
		walk(n.first, a)
		walk(n.second, b)
	}
	walk(0, t.area.PadFull(padding))
	return leaves
}

// visibleCounter returns a function counting the non-ignored windows under a
// node, memoized by arena index.
func (t *AreaTree[ID]) visibleCounter(ignored map[ID]struct{}) func(int) int {
	if len(ignored) == 0 {
		return func(int) int { return 1 }
	}
	memo := make([]int, len(t.nodes))
	for i := range memo {
		memo[i] = -1
	}
	var count func(i int) int
	count = func(i int) int {
		if memo[i] >= 0 {
			return memo[i]
		}
		n := &t.nodes[i]
		c := 0
		if n.isLeaf() {
			if _, skip := ignored[n.id]; n.hasID && !skip {
				c = 1
			}
		} else {
			c = count(n.first) + count(n.second)
		}
		memo[i] = c
		return c
	}
	return count
}

// FindLeaf returns the leaf of id computed with the given padding.
func (t *AreaTree[ID]) FindLeaf(id ID, padding int) (AreaLeaf[ID], bool) {
	if !t.Contains(id) {
		return AreaLeaf[ID]{}, false
	}
	for _, l := range t.Leaves(padding, nil) {
		if l.ID == id {
			return l, true
		}
	}
	return AreaLeaf[ID]{}, false
}

// FindLeafAt returns the leaf under p, the tree area being shrunk by padding.
// Branches whose windows are all ignored take no room.
func (t *AreaTree[ID]) FindLeafAt(p Point, padding int, ignored map[ID]struct{}) (AreaLeaf[ID], bool) {
	path, area, ok := t.pathAt(p, t.area.PadFull(padding), ignored)
	if !ok {
		return AreaLeaf[ID]{}, false
	}
	n := t.nodes[path[len(path)-1]]
	if !n.hasID {
		return AreaLeaf[ID]{}, false
	}
	return AreaLeaf[ID]{ID: n.id, Viewbox: area}, true
}

// pathAt descends from the root toward the leaf containing p.
func (t *AreaTree[ID]) pathAt(p Point, area Area, ignored map[ID]struct{}) ([]int, Area, bool) {
	if !area.Contains(p) {
		return nil, area, false
	}
	visible := t.visibleCounter(ignored)
	path := []int{0}
	i := 0
	for !t.nodes[i].isLeaf() {
		n := &t.nodes[i]
		switch {
		case visible(n.first) == 0 && visible(n.second) > 0:
			i = n.second
		case visible(n.second) == 0 && visible(n.first) > 0:
			i = n.first
		default:
			a, b := area.Split(n.ratio, n.orientation)
			if a.Contains(p) {
				i, area = n.first, a
			} else {
				i, area = n.second, b
			}
		}
		path = append(path, i)
	}
	return path, area, true
}

// pathTo returns the node indices from the root to the leaf holding id.
func (t *AreaTree[ID]) pathTo(id ID) ([]int, bool) {
	target, ok := t.index[id]
	if !ok {
		return nil, false
	}
	var path []int
	var walk func(i int) bool
	walk = func(i int) bool {
		path = append(path, i)
		if i == target {
			return true
		}
		n := &t.nodes[i]
		if !n.isLeaf() && (walk(n.first) || walk(n.second)) {
			return true
		}
		path = path[:len(path)-1]
		return false
	}
	return path, walk(0)
}

// lca returns the node whose split separates p1 from p2.
func (t *AreaTree[ID]) lca(p1, p2 Point) (int, Area, bool) {
	area := t.area
	if !area.Contains(p1) || !area.Contains(p2) {
		return nilIndex, area, false
	}
	i := 0
	for !t.nodes[i].isLeaf() {
		n := &t.nodes[i]
		a, b := area.Split(n.ratio, n.orientation)
		in1, in2 := a.Contains(p1), a.Contains(p2)
		if in1 != in2 {
			return i, area, true
		}
		if in1 {
			i, area = n.first, a
		} else {
			i, area = n.second, b
		}
	}
	return nilIndex, area, false
}

// FindLowestCommonAncestor returns the split whose border lies between p1 and p2.
func (t *AreaTree[ID]) FindLowestCommonAncestor(p1, p2 Point) (Ancestor, bool) {
	i, area, ok := t.lca(p1, p2)
	if !ok {
		return Ancestor{}, false
	}
	n := t.nodes[i]
	return Ancestor{Orientation: n.orientation, Ratio: n.ratio, Area: area}, true
}

// ResizeAncestor moves the border between p1 and p2 so that the side holding
// p1 grows by growth pixels (shrinks when negative). The resulting ratio is
// kept within clamp.
func (t *AreaTree[ID]) ResizeAncestor(p1, p2 Point, growth int, clamp Clamp) bool {
	i, area, ok := t.lca(p1, p2)
	if !ok {
		return false
	}
	n := &t.nodes[i]
	dim := area.Height
	if n.orientation == Vertical {
		dim = area.Width
	}
	if dim == 0 {
		return false
	}
	delta := float64(growth) * 100 / float64(dim)
	first, _ := area.Split(n.ratio, n.orientation)
	if !first.Contains(p1) {
		delta = -delta
	}
	n.ratio = clampRatio(n.ratio+delta, clamp.Min, clamp.Max)
	t.rebuild()
	return true
}

// SwitchSubtreeOrientations flips the orientation of every split under the
// parent of the leaf at p.
func (t *AreaTree[ID]) SwitchSubtreeOrientations(p Point) bool {
	path, _, ok := t.pathAt(p, t.area, nil)
	if !ok || len(path) < 2 {
		return false
	}
	var flip func(i int)
	flip = func(i int) {
		n := &t.nodes[i]
		if n.isLeaf() {
			return
		}
		n.orientation = n.orientation.Opposite()
		flip(n.first)
		flip(n.second)
	}
	flip(path[len(path)-2])
	t.rebuild()
	return true
}

// SwapIDs exchanges the positions of a and b.
func (t *AreaTree[ID]) SwapIDs(a, b ID) bool {
	ia, okA := t.index[a]
	ib, okB := t.index[b]
	if !okA || !okB {
		return false
	}
	t.nodes[ia].id, t.nodes[ib].id = b, a
	t.rebuild()
	return true
}

// ReplaceID puts replacement in the leaf of id. It fails when replacement is
// already in the tree.
func (t *AreaTree[ID]) ReplaceID(id, replacement ID) bool {
	i, ok := t.index[id]
	if !ok || t.Contains(replacement) {
		return false
	}
	t.nodes[i].id = replacement
	t.rebuild()
	return true
}

// String renders the tree structure, e.g. "V50(1,H50(2,3))".
func (t *AreaTree[ID]) String() string {
	var b strings.Builder
	var walk func(i int)
	walk = func(i int) {
		n := &t.nodes[i]
		if n.isLeaf() {
			if n.hasID {
				fmt.Fprintf(&b, "%v", n.id)
			} else {
				b.WriteString("_")
			}
			return
		}
		o := "H"
		if n.orientation == Vertical {
			o = "V"
		}
		fmt.Fprintf(&b, "%s%g(", o, n.ratio)
		walk(n.first)
		b.WriteString(",")
		walk(n.second)
		b.WriteString(")")
	}
	walk(0)
	return b.String()
}

// ratios returns every internal node ratio, in traversal order.
func (t *AreaTree[ID]) ratios() []float64 {
	var out []float64
	var walk func(i int)
	walk = func(i int) {
		n := &t.nodes[i]
		if n.isLeaf() {
			return
		}
		out = append(out, n.ratio)
		walk(n.first)
		walk(n.second)
	}
	walk(0)
	return out
}

// rebuild recomputes the id caches from a full traversal.
func (t *AreaTree[ID]) rebuild() {
	t.ids = make(map[ID]AreaLeaf[ID], len(t.ids))
	t.index = make(map[ID]int, len(t.index))
	var walk func(i int, area Area)
	walk = func(i int, area Area) {
		n := &t.nodes[i]
		if n.isLeaf() {
			if n.hasID {
				t.ids[n.id] = AreaLeaf[ID]{ID: n.id, Viewbox: area}
				t.index[n.id] = i
			}
			return
		}
		a, b := area.Split(n.ratio, n.orientation)
		walk(n.first, a)
		walk(n.second, b)
	}
	walk(0, t.area)
}

func (t *AreaTree[ID]) alloc(n node[ID]) int {
	if len(t.free) > 0 {
		i := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *AreaTree[ID]) release(i int) {
	if i == 0 {
		return
	}
	t.nodes[i] = emptyLeaf[ID]()
	t.free = append(t.free, i)
}

// compactFrom copies the subtree rooted at root into a fresh arena with the
// root at index 0.
func compactFrom[ID comparable](nodes []node[ID], root int) []node[ID] {
	out := make([]node[ID], 0, len(nodes))
	var copyNode func(i int) int
	copyNode = func(i int) int {
		n := nodes[i]
		idx := len(out)
		out = append(out, n)
		if !n.isLeaf() {
			f := copyNode(n.first)
			s := copyNode(n.second)
			out[idx].first, out[idx].second = f, s
		}
		return idx
	}
	copyNode(root)
	return out
}

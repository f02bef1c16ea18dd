package tiling

import (
	"fmt"
	"math"
)

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by dx, dy.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the squared euclidean distance between two points.
func (p Point) Distance(o Point) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

// Orientation is the orientation of a split line. A horizontal split stacks
// its two parts top/bottom, a vertical split places them left/right.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Opposite returns the other orientation.
func (o Orientation) Opposite() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Direction is one of the four cardinal directions.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// ParseDirection converts a config/command token into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "up", "u", "top":
		return Up, nil
	case "down", "d", "bottom":
		return Down, nil
	}
	return Left, fmt.Errorf("invalid direction: %q", s)
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

// Axis returns the orientation of the split that separates a neighbour
// lying in direction d.
func (d Direction) Axis() Orientation {
	if d == Left || d == Right {
		return Vertical
	}
	return Horizontal
}

// IsFirst reports whether d points toward the first (top/left) child of a split.
func (d Direction) IsFirst() bool {
	return d == Left || d == Up
}

// Toward returns the direction of the given side along orientation o.
func Toward(o Orientation, first bool) Direction {
	switch {
	case o == Vertical && first:
		return Left
	case o == Vertical:
		return Right
	case first:
		return Up
	default:
		return Down
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	default:
		return "down"
	}
}

// Area is a rectangle in screen coordinates. Width and Height are never negative.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewArea builds an Area, clamping negative sizes to zero.
func NewArea(x, y, width, height int) Area {
	return Area{X: x, Y: y, Width: max(width, 0), Height: max(height, 0)}
}

func (a Area) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", a.Width, a.Height, a.X, a.Y)
}

// IsZero reports whether a has no surface.
func (a Area) IsZero() bool {
	return a.Width == 0 || a.Height == 0
}

// Size returns the surface of a.
func (a Area) Size() int {
	return a.Width * a.Height
}

// Right returns the x coordinate just past the right edge.
func (a Area) Right() int {
	return a.X + a.Width
}

// Bottom returns the y coordinate just past the bottom edge.
func (a Area) Bottom() int {
	return a.Y + a.Height
}

// Center returns the center point of a.
func (a Area) Center() Point {
	return Point{X: a.X + a.Width/2, Y: a.Y + a.Height/2}
}

func (a Area) TopLeft() Point     { return Point{X: a.X, Y: a.Y} }
func (a Area) TopRight() Point    { return Point{X: a.Right() - 1, Y: a.Y} }
func (a Area) BottomLeft() Point  { return Point{X: a.X, Y: a.Bottom() - 1} }
func (a Area) BottomRight() Point { return Point{X: a.Right() - 1, Y: a.Bottom() - 1} }

// Contains reports whether p lies inside a (right and bottom edges excluded).
func (a Area) Contains(p Point) bool {
	return p.X >= a.X && p.X < a.Right() && p.Y >= a.Y && p.Y < a.Bottom()
}

// ContainsArea reports whether o lies fully inside a.
func (a Area) ContainsArea(o Area) bool {
	return o.X >= a.X && o.Y >= a.Y && o.Right() <= a.Right() && o.Bottom() <= a.Bottom()
}

// Overlaps reports whether a and o share any surface.
func (a Area) Overlaps(o Area) bool {
	return a.X < o.Right() && o.X < a.Right() && a.Y < o.Bottom() && o.Y < a.Bottom()
}

// Intersection returns the shared part of a and o (zero area when disjoint).
func (a Area) Intersection(o Area) Area {
	x1, y1 := max(a.X, o.X), max(a.Y, o.Y)
	x2, y2 := min(a.Right(), o.Right()), min(a.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Area{X: x1, Y: y1}
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Split divides a along orientation o. The minor part is the top (horizontal)
// or left (vertical) part and receives ratio percent of the split dimension.
func (a Area) Split(ratio float64, o Orientation) (minor, major Area) {
	ratio = clampRatio(ratio, 0, 100)
	if o == Horizontal {
		h := int(math.Round(float64(a.Height) * ratio / 100))
		minor = Area{X: a.X, Y: a.Y, Width: a.Width, Height: h}
		major = Area{X: a.X, Y: a.Y + h, Width: a.Width, Height: a.Height - h}
		return minor, major
	}
	w := int(math.Round(float64(a.Width) * ratio / 100))
	minor = Area{X: a.X, Y: a.Y, Width: w, Height: a.Height}
	major = Area{X: a.X + w, Y: a.Y, Width: a.Width - w, Height: a.Height}
	return minor, major
}

// Pad shrinks a by x on the left and right and y on the top and bottom.
func (a Area) Pad(x, y int) Area {
	return NewArea(a.X+x, a.Y+y, a.Width-2*x, a.Height-2*y)
}

// PadFull shrinks a by n on every side.
func (a Area) PadFull(n int) Area {
	return a.Pad(n, n)
}

// Edge returns the coordinate of the border of a facing direction d.
func (a Area) Edge(d Direction) int {
	switch d {
	case Left:
		return a.X
	case Right:
		return a.Right()
	case Up:
		return a.Y
	default:
		return a.Bottom()
	}
}

// Beyond returns a point just outside the edge facing d, offset by gap pixels
// and aligned with the center of a on the other axis.
func (a Area) Beyond(d Direction, gap int) Point {
	c := a.Center()
	switch d {
	case Left:
		return Point{X: a.X - gap - 1, Y: c.Y}
	case Right:
		return Point{X: a.Right() + gap, Y: c.Y}
	case Up:
		return Point{X: c.X, Y: a.Y - gap - 1}
	default:
		return Point{X: c.X, Y: a.Bottom() + gap}
	}
}

// Inside returns a point just inside the edge facing d.
func (a Area) Inside(d Direction) Point {
	c := a.Center()
	switch d {
	case Left:
		return Point{X: a.X, Y: c.Y}
	case Right:
		return Point{X: a.Right() - 1, Y: c.Y}
	case Up:
		return Point{X: c.X, Y: a.Y}
	default:
		return Point{X: c.X, Y: a.Bottom() - 1}
	}
}

// NearEdge reports which edges of a lie within threshold pixels of p.
func (a Area) NearEdge(p Point, threshold int) []Direction {
	var dirs []Direction
	if abs(p.X-a.X) <= threshold {
		dirs = append(dirs, Left)
	}
	if abs(p.X-a.Right()) <= threshold {
		dirs = append(dirs, Right)
	}
	if abs(p.Y-a.Y) <= threshold {
		dirs = append(dirs, Up)
	}
	if abs(p.Y-a.Bottom()) <= threshold {
		dirs = append(dirs, Down)
	}
	return dirs
}

// Distance returns the squared distance from p to the closest point of a.
func (a Area) Distance(p Point) int {
	cx := min(max(p.X, a.X), a.Right())
	cy := min(max(p.Y, a.Y), a.Bottom())
	return p.Distance(Point{X: cx, Y: cy})
}

// CenteredIn returns an area of the given size centered in a.
func (a Area) CenteredIn(width, height int) Area {
	width, height = min(width, a.Width), min(height, a.Height)
	return NewArea(a.X+(a.Width-width)/2, a.Y+(a.Height-height)/2, width, height)
}

// Shift returns a with its edge facing d moved outward by delta pixels.
func (a Area) Shift(d Direction, delta int) Area {
	switch d {
	case Left:
		return NewArea(a.X-delta, a.Y, a.Width+delta, a.Height)
	case Right:
		return NewArea(a.X, a.Y, a.Width+delta, a.Height)
	case Up:
		return NewArea(a.X, a.Y-delta, a.Width, a.Height+delta)
	default:
		return NewArea(a.X, a.Y, a.Width, a.Height+delta)
	}
}

func clampRatio(r, lo, hi float64) float64 {
	return math.Min(math.Max(r, lo), hi)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package tiling

import "math/bits"

// Squared keeps the tree balanced so that windows form a grid. Leaves on the
// shallowest incomplete level are split in quadrant order (top-left,
// top-right, bottom-left, bottom-right, then recursively), and the split
// orientation alternates between levels.
type Squared struct {
	count int
	op    TreeOperation
	level int
	index int
	depth int
	last  Direction
}

func NewSquared() *Squared {
	return &Squared{}
}

func (s *Squared) Name() string { return StrategySquared }

func (s *Squared) Init(count int, op TreeOperation) {
	s.count = count
	s.op = op
	s.depth = 0
	s.level, s.index = 0, 0
	if count > 0 {
		s.level = bits.Len(uint(count)) - 1
		s.index = count - 1<<s.level
	}
	s.last = Right
}

// levelOrientation returns the split orientation used at depth d.
func levelOrientation(d int) Orientation {
	if d%2 == 0 {
		return Vertical
	}
	return Horizontal
}

func (s *Squared) Next() Step {
	d := s.depth
	s.depth++
	if d < s.level {
		// Reading the quadrant index from its low bits makes consecutive
		// insertions alternate between sibling subtrees.
		first := (s.index>>d)&1 == 0
		s.last = Toward(levelOrientation(d), first)
		return Step{Direction: s.last}
	}
	s.last = Toward(levelOrientation(d), false)
	return Step{Direction: s.last}
}

func (s *Squared) Complete() Split {
	split := Split{Orientation: s.last.Axis(), Ratio: 50}
	s.depth = 0
	return split
}

func (s *Squared) Clone() LayoutStrategy {
	c := *s
	return &c
}

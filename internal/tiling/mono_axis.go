package tiling

// MonoAxis stacks every window along a single axis in equally sized strips.
type MonoAxis struct {
	// Axis is the orientation of the split lines between strips.
	Axis Orientation
	// GrowFirst makes new windows appear on the top/left end of the stack.
	GrowFirst bool

	count int
	depth int
	coeff int
}

// NewMonoAxisHorizontal arranges windows side by side in columns.
func NewMonoAxisHorizontal(growFirst bool) *MonoAxis {
	return &MonoAxis{Axis: Vertical, GrowFirst: growFirst}
}

// NewMonoAxisVertical arranges windows on top of each other in rows.
func NewMonoAxisVertical(growFirst bool) *MonoAxis {
	return &MonoAxis{Axis: Horizontal, GrowFirst: growFirst}
}

func (m *MonoAxis) Name() string {
	if m.Axis == Vertical {
		return StrategyMonoAxisHorizontal
	}
	return StrategyMonoAxisVertical
}

func (m *MonoAxis) Init(count int, op TreeOperation) {
	m.depth = 0
	if op == OpInsert {
		m.count = count
		m.coeff = 2
		return
	}
	// Removal sizes strips for the leaves that remain.
	m.count = count - 1
	m.coeff = 1
}

func (m *MonoAxis) direction() Direction {
	return Toward(m.Axis, m.GrowFirst)
}

// ratio returns the share of the first child at the current depth: one strip
// on the growing side, the rest of the stack on the other.
func (m *MonoAxis) ratio() float64 {
	slots := m.count - m.depth + m.coeff
	if slots < 1 {
		slots = 1
	}
	single := 100 / float64(slots)
	if m.GrowFirst {
		return 100 - single
	}
	return single
}

func (m *MonoAxis) Next() Step {
	m.depth++
	o, r := m.Axis, m.ratio()
	return Step{Direction: m.direction(), Orientation: &o, Ratio: &r}
}

func (m *MonoAxis) Complete() Split {
	s := Split{Orientation: m.Axis, Ratio: 50}
	if m.coeff == 2 {
		s.Ratio = m.ratio()
	}
	m.depth = 0
	return s
}

func (m *MonoAxis) Clone() LayoutStrategy {
	c := *m
	return &c
}

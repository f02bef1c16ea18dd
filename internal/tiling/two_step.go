package tiling

import "fmt"

// TwoStep alternates between two directions at each level of the descent.
type TwoStep struct {
	First  Direction
	Second Direction
	Ratio  float64

	count int
	step  int
	last  Direction
}

// NewTwoStep returns a strategy alternating first and second. The two
// directions must lie on different axes, otherwise every split would stack
// along the same line.
func NewTwoStep(first, second Direction, ratio float64) (*TwoStep, error) {
	if first.Axis() == second.Axis() {
		return nil, fmt.Errorf("two_step directions %s and %s share the same axis", first, second)
	}
	return &TwoStep{First: first, Second: second, Ratio: ratio, last: first}, nil
}

func (t *TwoStep) Name() string { return StrategyTwoStep }

func (t *TwoStep) Init(count int, op TreeOperation) {
	t.count = count
	t.step = 0
	t.last = t.First
}

func (t *TwoStep) Next() Step {
	if t.step%2 == 0 {
		t.last = t.First
	} else {
		t.last = t.Second
	}
	t.step++
	return Step{Direction: t.last}
}

func (t *TwoStep) Complete() Split {
	s := Split{Orientation: t.last.Axis(), Ratio: firstSplitRatio(t.Ratio, t.count)}
	t.step = 0
	return s
}

func (t *TwoStep) Clone() LayoutStrategy {
	c := *t
	return &c
}

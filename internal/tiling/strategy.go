package tiling

import "fmt"

// TreeOperation identifies the structural edit a strategy is driving.
type TreeOperation int

const (
	OpInsert TreeOperation = iota
	OpRemove
)

// Step is what a strategy answers at each recursion level: the side to
// descend into and an optional override of the traversed node's split.
type Step struct {
	Direction   Direction
	Orientation *Orientation
	Ratio       *float64
}

// Split describes the split created at the bottom of an insertion.
type Split struct {
	Orientation Orientation
	Ratio       float64
}

// LayoutStrategy generates split decisions for one insertion or removal.
// A strategy never inspects the tree: it only sees the leaf count and
// operation given to Init plus its own counters.
type LayoutStrategy interface {
	// Init resets the per-traversal state.
	Init(count int, op TreeOperation)
	// Next is called once per traversed level.
	Next() Step
	// Complete returns the split for the new leaf. On removal it is called
	// anyway to reset state symmetrically.
	Complete() Split
	Clone() LayoutStrategy
	Name() string
}

const (
	StrategyGoldenRatio        = "golden_ratio"
	StrategyMonoAxisHorizontal = "mono_axis_horizontal"
	StrategyMonoAxisVertical   = "mono_axis_vertical"
	StrategyTwoStep            = "two_step"
	StrategySquared            = "squared"
)

// StrategyNames lists every registered strategy name.
var StrategyNames = []string{
	StrategyGoldenRatio,
	StrategyMonoAxisHorizontal,
	StrategyMonoAxisVertical,
	StrategyTwoStep,
	StrategySquared,
}

// StrategyParams carries the tunables of every strategy; each one reads only
// the fields it needs.
type StrategyParams struct {
	Clockwise bool
	Vertical  bool
	Ratio     float64
	GrowFirst bool
	First     Direction
	Second    Direction
}

// DefaultStrategyParams returns the parameters used when nothing is configured.
func DefaultStrategyParams() StrategyParams {
	return StrategyParams{
		Clockwise: true,
		Ratio:     50,
		First:     Right,
		Second:    Down,
	}
}

// NewStrategy builds a strategy by name.
func NewStrategy(name string, p StrategyParams) (LayoutStrategy, error) {
	switch name {
	case StrategyGoldenRatio:
		return NewGoldenRatio(p.Clockwise, p.Vertical, p.Ratio), nil
	case StrategyMonoAxisHorizontal:
		return NewMonoAxisHorizontal(p.GrowFirst), nil
	case StrategyMonoAxisVertical:
		return NewMonoAxisVertical(p.GrowFirst), nil
	case StrategyTwoStep:
		return NewTwoStep(p.First, p.Second, p.Ratio)
	case StrategySquared:
		return NewSquared(), nil
	}
	return nil, fmt.Errorf("unknown layout strategy: %q", name)
}

func firstSplitRatio(configured float64, count int) float64 {
	if count == 1 && configured > 0 {
		return clampRatio(configured, 0, 100)
	}
	return 50
}

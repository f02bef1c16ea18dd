package tiling

var (
	clockwiseCycle        = [4]Direction{Right, Down, Left, Up}
	counterClockwiseCycle = [4]Direction{Right, Up, Left, Down}
)

// GoldenRatio spirals new windows inward, rotating the descent direction at
// every level.
type GoldenRatio struct {
	Clockwise bool
	Vertical  bool
	Ratio     float64

	count int
	step  int
	last  Direction
}

// NewGoldenRatio returns a spiral strategy. vertical selects whether the first
// split places the windows side by side; ratio applies to that split only.
func NewGoldenRatio(clockwise, vertical bool, ratio float64) *GoldenRatio {
	return &GoldenRatio{Clockwise: clockwise, Vertical: vertical, Ratio: ratio}
}

func (g *GoldenRatio) Name() string { return StrategyGoldenRatio }

func (g *GoldenRatio) Init(count int, op TreeOperation) {
	g.count = count
	g.step = 0
	g.last = g.direction(0)
}

func (g *GoldenRatio) direction(step int) Direction {
	cycle := clockwiseCycle
	if !g.Clockwise {
		cycle = counterClockwiseCycle
	}
	start := 0
	if !g.Vertical {
		start = len(cycle) - 1
	}
	return cycle[(start+step)%len(cycle)]
}

func (g *GoldenRatio) Next() Step {
	g.last = g.direction(g.step)
	g.step++
	return Step{Direction: g.last}
}

func (g *GoldenRatio) Complete() Split {
	s := Split{Orientation: g.last.Axis(), Ratio: firstSplitRatio(g.Ratio, g.count)}
	g.step = 0
	return s
}

func (g *GoldenRatio) Clone() LayoutStrategy {
	c := *g
	return &c
}

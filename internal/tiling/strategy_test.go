package tiling

import (
	"testing"
)

func insertAll(t *AreaTree[string], ids ...string) {
	for _, id := range ids {
		t.Insert(id)
	}
}

func TestGoldenRatio_HorizontalClockwiseCyclesUpRightDown(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 800), NewGoldenRatio(true, false, 50))
	insertAll(tree, "A", "B", "C")

	if got := tree.Len(); got != 3 {
		t.Fatalf("expected 3 leaves, got %d", got)
	}
	if got, want := tree.String(), "H50(V50(B,C),A)"; got != want {
		t.Fatalf("unexpected tree shape: got %s want %s", got, want)
	}

	want := map[string]Area{
		"B": {X: 0, Y: 0, Width: 500, Height: 400},
		"C": {X: 500, Y: 0, Width: 500, Height: 400},
		"A": {X: 0, Y: 400, Width: 1000, Height: 400},
	}
	for _, l := range tree.Leaves(0, nil) {
		if l.Viewbox != want[l.ID] {
			t.Fatalf("leaf %s: got %v want %v", l.ID, l.Viewbox, want[l.ID])
		}
	}

	tree.Insert("D")
	if got, want := tree.String(), "H50(V50(B,H50(C,D)),A)"; got != want {
		t.Fatalf("fourth insert should go Down: got %s want %s", got, want)
	}
}

func TestGoldenRatio_RatioAppliesToFirstSplitOnly(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), NewGoldenRatio(true, true, 70))
	insertAll(tree, "A", "B", "C")

	if got, want := tree.String(), "V70(A,H50(B,C))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	a, _ := tree.Leaf("A")
	if a.Viewbox.Width != 700 {
		t.Fatalf("expected first window width 700, got %d", a.Viewbox.Width)
	}
}

func TestGoldenRatio_CounterClockwise(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), NewGoldenRatio(false, true, 50))
	insertAll(tree, "A", "B", "C")

	if got, want := tree.String(), "V50(A,H50(C,B))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestMonoAxisHorizontal_EqualStripsInInsertionOrder(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 600), NewMonoAxisHorizontal(false))
	insertAll(tree, "A", "B", "C", "D")

	leaves := tree.Leaves(0, nil)
	if len(leaves) != 4 {
		t.Fatalf("expected 4 leaves, got %d", len(leaves))
	}
	order := []string{"A", "B", "C", "D"}
	for i, l := range leaves {
		if l.ID != order[i] {
			t.Fatalf("leaf %d: expected %s, got %s", i, order[i], l.ID)
		}
		if l.Viewbox.Width != 250 || l.Viewbox.Height != 600 {
			t.Fatalf("leaf %s: expected 250x600 strip, got %v", l.ID, l.Viewbox)
		}
		if l.Viewbox.X != i*250 {
			t.Fatalf("leaf %s: expected x=%d, got %d", l.ID, i*250, l.Viewbox.X)
		}
	}
}

func TestMonoAxisHorizontal_RemoveKeepsStripsEven(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 600), NewMonoAxisHorizontal(false))
	insertAll(tree, "A", "B", "C", "D")

	if !tree.Remove("B") {
		t.Fatalf("expected B to be removed")
	}
	leaves := tree.Leaves(0, nil)
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(leaves))
	}
	for _, l := range leaves {
		if l.Viewbox.Width < 333 || l.Viewbox.Width > 334 {
			t.Fatalf("leaf %s: expected a third of the width, got %d", l.ID, l.Viewbox.Width)
		}
	}
}

func TestMonoAxisVertical_GrowFirstStacksRows(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 800, 1000), NewMonoAxisVertical(true))
	insertAll(tree, "A", "B", "C", "D")

	leaves := tree.Leaves(0, nil)
	order := []string{"D", "C", "B", "A"}
	for i, l := range leaves {
		if l.ID != order[i] {
			t.Fatalf("row %d: expected %s, got %s", i, order[i], l.ID)
		}
		if l.Viewbox.Height != 250 || l.Viewbox.Width != 800 {
			t.Fatalf("row %s: expected 800x250, got %v", l.ID, l.Viewbox)
		}
	}
}

func TestTwoStep_AlternatesDirections(t *testing.T) {
	s, err := NewTwoStep(Right, Down, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), s)
	insertAll(tree, "A", "B", "C", "D")

	if got, want := tree.String(), "V50(A,H50(B,V50(C,D)))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestTwoStep_RejectsSameAxis(t *testing.T) {
	if _, err := NewTwoStep(Left, Right, 50); err == nil {
		t.Fatalf("expected error for directions on the same axis")
	}
	if _, err := NewStrategy(StrategyTwoStep, StrategyParams{First: Up, Second: Down}); err == nil {
		t.Fatalf("expected NewStrategy to propagate the axis error")
	}
}

func TestSquared_FourWindowsFormGrid(t *testing.T) {
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), NewSquared())
	insertAll(tree, "A", "B", "C", "D")

	for _, l := range tree.Leaves(0, nil) {
		if l.Viewbox.Width != 500 || l.Viewbox.Height != 500 {
			t.Fatalf("leaf %s: expected 500x500 cell, got %v", l.ID, l.Viewbox)
		}
	}
	if got, want := tree.String(), "V50(H50(A,C),H50(B,D))"; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestSquared_GridShapes(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{5, "V50(H50(V50(A,E),C),H50(B,D))"},
		{6, "V50(H50(V50(A,E),C),H50(V50(B,F),D))"},
		{7, "V50(H50(V50(A,E),V50(C,G)),H50(V50(B,F),D))"},
		{8, "V50(H50(V50(A,E),V50(C,G)),H50(V50(B,F),V50(D,H)))"},
	}
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, tt := range tests {
		tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), NewSquared())
		insertAll(tree, ids[:tt.count]...)
		if got := tree.String(); got != tt.want {
			t.Fatalf("%d windows: got %s want %s", tt.count, got, tt.want)
		}
	}

	// Eight windows split every quadrant into two columns.
	tree := NewAreaTree[string](NewArea(0, 0, 1000, 1000), NewSquared())
	insertAll(tree, ids...)
	for _, l := range tree.Leaves(0, nil) {
		if l.Viewbox.Width != 250 || l.Viewbox.Height != 500 {
			t.Fatalf("leaf %s: expected 250x500 cell, got %v", l.ID, l.Viewbox)
		}
	}
}

func TestNewStrategy(t *testing.T) {
	for _, name := range StrategyNames {
		s, err := NewStrategy(name, DefaultStrategyParams())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("expected name %s, got %s", name, s.Name())
		}
		if s.Clone() == s {
			t.Fatalf("%s: clone must be a distinct instance", name)
		}
	}
	if _, err := NewStrategy("spiral", DefaultStrategyParams()); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

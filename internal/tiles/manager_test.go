package tiles

import (
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

func TestManager_AddTilesWindows(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	h.layout(t)

	want := map[WindowID]tiling.Area{
		1: tiling.NewArea(0, 0, 500, 800),
		2: tiling.NewArea(500, 0, 500, 400),
		3: tiling.NewArea(500, 400, 500, 400),
	}
	for id, area := range want {
		if got := h.wins.wins[id].area; got != area {
			t.Fatalf("window %d: got %v want %v", id, got, area)
		}
	}
	h.assertExclusive(t, 1, 2, 3)

	if _, err := h.m.Add(2, nil, true, false); !errors.Is(err, ErrWindowAlreadyAdded) {
		t.Fatalf("expected ErrWindowAlreadyAdded, got %v", err)
	}
}

func TestManager_AddAppliesPadding(t *testing.T) {
	s := testSettings()
	s.BorderPadding, s.TilesPadding = 10, 5
	h := newHarness(t, s, monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	h.layout(t)

	if got, want := h.wins.wins[1].area, tiling.NewArea(15, 15, 480, 770); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestManager_AddIgnoredAndUnknown(t *testing.T) {
	s := testSettings()
	s.Ignore = []*regexp.Regexp{regexp.MustCompile("^Plasma")}
	h := newHarness(t, s, monitorLeft)

	h.wins.open(1, tiling.NewArea(10, 10, 100, 100)).class = "Plasma-desktop"
	if _, err := h.m.Add(1, nil, true, false); !errors.Is(err, ErrWinNotManaged) {
		t.Fatalf("expected ErrWinNotManaged, got %v", err)
	}
	if _, err := h.m.Add(42, nil, true, false); !errors.Is(err, ErrNoWindowsInfo) {
		t.Fatalf("expected ErrNoWindowsInfo, got %v", err)
	}
}

func TestManager_FloatRule(t *testing.T) {
	s := testSettings()
	s.Rules = []Rule{{Class: regexp.MustCompile("^pavucontrol$"), Float: true, Desktop: -1}}
	h := newHarness(t, s, monitorLeft)

	h.wins.open(1, tiling.NewArea(10, 10, 100, 100)).class = "pavucontrol"
	res, err := h.m.Add(1, nil, true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != Queue || !res.Topmost {
		t.Fatalf("expected a topmost queued placement, got %+v", res)
	}
	if want := tiling.NewArea(10, 10, 250, 250); res.Area != want {
		t.Fatalf("expected minimum floating size, got %v", res.Area)
	}
	if state, _ := h.m.WindowState(1); state != StateFloating {
		t.Fatalf("expected floating, got %s", state)
	}

	res, err = h.m.Release(1)
	if err != nil || res.Kind != NoChange {
		t.Fatalf("a window floated by a rule stays floating, got %+v %v", res, err)
	}
	h.assertExclusive(t, 1)
}

func TestManager_RemoveCollapsesTree(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	if _, err := h.m.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := h.tree(t, monitorLeft).String(); got != "V50(1,3)" {
		t.Fatalf("got %s", got)
	}
	if _, err := h.m.Remove(2); !errors.Is(err, ErrWinNotManaged) {
		t.Fatalf("expected ErrWinNotManaged, got %v", err)
	}
}

func TestManager_FocalizeRoundTrip(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	before := h.tree(t, monitorLeft).String()

	if _, err := h.m.Focalize(2); err != nil {
		t.Fatalf("Focalize: %v", err)
	}
	if !h.wins.wins[1].iconic || !h.wins.wins[3].iconic {
		t.Fatalf("siblings should be minimized")
	}
	if state, _ := h.m.WindowState(2); state != StateFocalized {
		t.Fatalf("expected focalized, got %s", state)
	}
	if state, _ := h.m.WindowState(1); state != StateNormal {
		t.Fatalf("hidden sibling should stay normal, got %s", state)
	}
	h.layout(t)
	if got := h.wins.wins[2].area; got != monitorLeft.WorkArea {
		t.Fatalf("focalized window should fill the monitor, got %v", got)
	}
	h.assertExclusive(t, 1, 2, 3)

	if _, err := h.m.Focalize(2); err != nil {
		t.Fatalf("Focalize toggle: %v", err)
	}
	if h.wins.wins[1].iconic || h.wins.wins[3].iconic {
		t.Fatalf("siblings should be restored")
	}
	if got := h.tree(t, monitorLeft).String(); got != before {
		t.Fatalf("normal tree changed: got %s want %s", got, before)
	}
}

func TestManager_HalfFocalizeKeepsLargestOther(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	if _, err := h.m.HalfFocalize(2); err != nil {
		t.Fatalf("HalfFocalize: %v", err)
	}
	c, _ := h.m.Container(ContainerKey{Monitor: monitorLeft.ID})
	if got := c.Tree().String(); got != "V50(1,2)" {
		t.Fatalf("got %s", got)
	}
	if !h.wins.wins[3].iconic {
		t.Fatalf("window 3 should be minimized")
	}
	for _, id := range []WindowID{1, 2} {
		if state, _ := h.m.WindowState(id); state != StateHalfFocalized {
			t.Fatalf("window %d: expected half focalized, got %s", id, state)
		}
	}

	// Focalizing from the half focalized layer goes through the normal one.
	if _, err := h.m.Focalize(1); err != nil {
		t.Fatalf("Focalize: %v", err)
	}
	if c.Current() != LayerFocalized || c.Tree().String() != "1" {
		t.Fatalf("expected focalized layer with 1, got %s %s", c.Current(), c.Tree())
	}
}

func TestManager_RemoveWhileFocalizedRestoresSiblings(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	h.m.Focalize(1)
	if _, err := h.m.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	c, _ := h.m.Container(ContainerKey{Monitor: monitorLeft.ID})
	if c.Current() != LayerNormal {
		t.Fatalf("expected normal layer, got %s", c.Current())
	}
	if h.wins.wins[2].iconic || h.wins.wins[3].iconic {
		t.Fatalf("siblings should be restored")
	}
	if got := c.Tree().Len(); got != 2 {
		t.Fatalf("expected 2 windows, got %d", got)
	}
}

func TestManager_OnRestoreLeavesFocalizedLayer(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	h.m.Focalize(1)

	res, err := h.m.OnRestore(2)
	if err != nil || res.Kind != LayoutChanged {
		t.Fatalf("expected layout change, got %+v %v", res, err)
	}
	if state, _ := h.m.WindowState(1); state != StateNormal {
		t.Fatalf("expected normal state, got %s", state)
	}
}

func TestManager_ReleaseTogglesFloating(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)

	res, err := h.m.Release(2)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if res.Kind != Queue || res.Window != 2 {
		t.Fatalf("expected queued placement, got %+v", res)
	}
	if h.tree(t, monitorLeft).Contains(2) {
		t.Fatalf("floating window still tiled")
	}
	h.assertExclusive(t, 1, 2)

	if err := h.m.Apply(res, false); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !h.wins.wins[2].topmost {
		t.Fatalf("floating window should be topmost")
	}
	if got := h.wins.wins[1].area; got != monitorLeft.WorkArea {
		t.Fatalf("remaining window should fill the monitor, got %v", got)
	}

	res, err = h.m.Release(2)
	if err != nil || res.Kind != Dequeue {
		t.Fatalf("expected dequeue, got %+v %v", res, err)
	}
	if state, _ := h.m.WindowState(2); state != StateNormal {
		t.Fatalf("expected normal, got %s", state)
	}
	if h.wins.wins[2].topmost {
		t.Fatalf("tiled window should not be topmost")
	}
	h.assertExclusive(t, 1, 2)
}

func TestManager_AsMaximizedSuspendsMonitor(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)

	res, err := h.m.AsMaximized(1)
	if err != nil {
		t.Fatalf("AsMaximized: %v", err)
	}
	if res.Kind != Queue || res.Area != monitorLeft.WorkArea || !res.Topmost {
		t.Fatalf("unexpected result %+v", res)
	}
	if state, _ := h.m.WindowState(1); state != StateMaximized {
		t.Fatalf("expected maximized, got %s", state)
	}
	h.assertExclusive(t, 1, 2)

	moves := h.m.Layout()
	if len(moves) != 1 || moves[0].Window != 1 {
		t.Fatalf("only the maximized window should be laid out, got %+v", moves)
	}

	if _, err := h.m.AsMaximized(1); err != nil {
		t.Fatalf("AsMaximized toggle: %v", err)
	}
	if state, _ := h.m.WindowState(1); state != StateNormal {
		t.Fatalf("expected normal, got %s", state)
	}
	if got := h.tree(t, monitorLeft).Len(); got != 2 {
		t.Fatalf("expected 2 tiled windows, got %d", got)
	}
}

func TestManager_AddRestoresMaximizedMonitor(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.m.AsMaximized(1)
	h.add(t, 2, monitorLeft)

	if state, _ := h.m.WindowState(1); state != StateNormal {
		t.Fatalf("adding to a maximized monitor should tile the maximized window, got %s", state)
	}
	h.assertExclusive(t, 1, 2)
}

func TestManager_SwitchDesktopReinstatesFreshestLayer(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	h.m.Focalize(1)

	h.m.SwitchDesktop(1)
	if got := h.tree(t, monitorLeft).Len(); got != 0 {
		t.Fatalf("new desktop should start empty, got %d windows", got)
	}
	if got := len(h.m.VisibleManagedWindows()); got != 0 {
		t.Fatalf("expected no visible windows, got %d", got)
	}
	h.add(t, 3, monitorLeft)
	h.assertExclusive(t, 1, 2, 3)

	h.m.SwitchDesktop(0)
	if state, _ := h.m.WindowState(1); state != StateFocalized {
		t.Fatalf("expected focalized layer back, got %s", state)
	}
	if _, ok := h.m.inactive[ContainerKey{Desktop: 1, Monitor: monitorLeft.ID}]; !ok {
		t.Fatalf("desktop 1 container should be kept aside")
	}
}

func TestManager_AddSwitchesToDesktopOfWindow(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.m.SwitchDesktop(2)

	if _, err := h.m.Add(1, nil, false, true); !errors.Is(err, ErrWindowAlreadyAdded) {
		t.Fatalf("expected ErrWindowAlreadyAdded, got %v", err)
	}
	res, err := h.m.Add(1, nil, false, false)
	if err != nil || res.Kind != LayoutChanged {
		t.Fatalf("expected desktop switch, got %+v %v", res, err)
	}
	if h.m.Desktop() != 0 {
		t.Fatalf("expected desktop 0, got %d", h.m.Desktop())
	}
}

func TestManager_SwitchDesktopDropsStickyFloatingFromTree(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.m.SwitchDesktop(1)
	h.add(t, 2, monitorLeft)
	h.m.Release(2)

	// Simulate the same sticky window being tiled on desktop 0 as well.
	h.m.inactive[ContainerKey{Desktop: 0, Monitor: monitorLeft.ID}].container.NormalTree().Insert(2)
	h.m.SwitchDesktop(0)

	if h.tree(t, monitorLeft).Contains(2) {
		t.Fatalf("floating window must not stay tiled")
	}
	h.assertExclusive(t, 1, 2)
}

func TestManager_SwapAcrossMonitors(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	h.add(t, 3, monitorRight)

	if _, err := h.m.SwapWindows(2, 3); err != nil {
		t.Fatalf("SwapWindows: %v", err)
	}
	if got := h.tree(t, monitorLeft).String(); got != "V50(1,3)" {
		t.Fatalf("left: got %s", got)
	}
	if got := h.tree(t, monitorRight).String(); got != "2" {
		t.Fatalf("right: got %s", got)
	}
	h.assertExclusive(t, 1, 2, 3)
}

func TestManager_MoveInDirection(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)

	if _, err := h.m.MoveInDirection(1, tiling.Right, false); err != nil {
		t.Fatalf("MoveInDirection swap: %v", err)
	}
	if got := h.tree(t, monitorLeft).String(); got != "V50(2,1)" {
		t.Fatalf("got %s", got)
	}

	// Nothing on the right of 1 on this monitor: it goes to the next one.
	if _, err := h.m.MoveInDirection(1, tiling.Right, false); err != nil {
		t.Fatalf("MoveInDirection across monitors: %v", err)
	}
	if got := h.tree(t, monitorRight).String(); got != "1" {
		t.Fatalf("right: got %s", got)
	}
	if got := h.tree(t, monitorLeft).String(); got != "2" {
		t.Fatalf("left: got %s", got)
	}

	res, err := h.m.MoveInDirection(1, tiling.Right, false)
	if err != nil || res.Kind != NoChange {
		t.Fatalf("moving past the last monitor should do nothing, got %+v %v", res, err)
	}
}

func TestManager_MoveInDirectionInsert(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	// V50(1,H50(2,3)): moving 3 up with insert puts it above 2.
	if _, err := h.m.MoveInDirection(3, tiling.Up, true); err != nil {
		t.Fatalf("MoveInDirection: %v", err)
	}
	if got := h.tree(t, monitorLeft).String(); got != "V50(1,H50(3,2))" {
		t.Fatalf("got %s", got)
	}
}

func TestManager_FocusNeighborPrefersRecentlyFocused(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	h.m.OnFocus(3)
	h.m.OnFocus(1)

	if _, err := h.m.FocusNeighbor(tiling.Right); err != nil {
		t.Fatalf("FocusNeighbor: %v", err)
	}
	if h.wins.focused != 3 {
		t.Fatalf("expected 3 to be focused, got %d", h.wins.focused)
	}
	if latest := h.m.History()[0]; latest != 3 {
		t.Fatalf("history not updated, latest is %d", latest)
	}

	if _, err := h.m.FocusNeighbor(tiling.Up); err != nil {
		t.Fatalf("FocusNeighbor: %v", err)
	}
	if h.wins.focused != 2 {
		t.Fatalf("expected 2 to be focused, got %d", h.wins.focused)
	}
}

func TestManager_FocusNeighborAcrossMonitors(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorRight)

	if _, err := h.m.FocusNeighbor(tiling.Right); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow without focus history, got %v", err)
	}
	h.m.OnFocus(1)
	if _, err := h.m.FocusNeighbor(tiling.Right); err != nil {
		t.Fatalf("FocusNeighbor: %v", err)
	}
	if h.wins.focused != 2 {
		t.Fatalf("expected 2 to be focused, got %d", h.wins.focused)
	}
}

func TestManager_ResizeDragsSplit(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	h.layout(t)

	if _, err := h.m.Resize(1, tiling.NewArea(0, 0, 600, 800)); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	h.layout(t)
	if got := h.wins.wins[2].area; got != tiling.NewArea(600, 0, 400, 800) {
		t.Fatalf("neighbour should shrink, got %v", got)
	}

	if _, err := h.m.ResizeDirection(2, tiling.Left, 5000); err != nil {
		t.Fatalf("ResizeDirection: %v", err)
	}
	h.layout(t)
	if got := h.wins.wins[2].area.Width; got != 900 {
		t.Fatalf("resize should be clamped to 90%%, got width %d", got)
	}
}

func TestManager_IgnoresMinimizedWindowsInLayout(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	h.wins.wins[2].iconic = true
	res, _ := h.m.OnMinimize(2)
	if res.Kind != LayoutChanged {
		t.Fatalf("expected layout change, got %s", res.Kind)
	}
	h.layout(t)
	if got := h.wins.wins[3].area; got != tiling.NewArea(500, 0, 500, 800) {
		t.Fatalf("expected 3 to take the whole column, got %v", got)
	}
}

func TestManager_PeekToggles(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)

	if _, err := h.m.Peek(monitorLeft.ID, tiling.Left, 30); err != nil {
		t.Fatalf("Peek: %v", err)
	}
	h.layout(t)
	if got := h.wins.wins[1].area; got != tiling.NewArea(300, 0, 700, 800) {
		t.Fatalf("got %v", got)
	}

	h.m.Peek(monitorLeft.ID, tiling.Left, 30)
	h.layout(t)
	if got := h.wins.wins[1].area; got != monitorLeft.WorkArea {
		t.Fatalf("peek should be undone, got %v", got)
	}

	var cnf *ContainerNotFoundError
	if _, err := h.m.Peek("HDMI-9", tiling.Left, 30); !errors.As(err, &cnf) {
		t.Fatalf("expected ContainerNotFoundError, got %v", err)
	}
}

func TestManager_UpdateMonitorsAdoptsOrphans(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorRight)

	h.m.UpdateMonitors([]Monitor{monitorLeft})
	if _, ok := h.m.Container(ContainerKey{Monitor: monitorRight.ID}); ok {
		t.Fatalf("container of the unplugged monitor should be gone")
	}
	if got := h.tree(t, monitorLeft).Len(); got != 2 {
		t.Fatalf("expected both windows on the remaining monitor, got %d", got)
	}
	h.assertExclusive(t, 1, 2)
}

func TestManager_PauseUpdates(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)

	h.m.PauseUpdates(true)
	if h.mover.cancelled != 1 {
		t.Fatalf("pausing should cancel the running animation")
	}
	h.layout(t)
	if len(h.mover.batches) != 0 {
		t.Fatalf("no layout should run while paused")
	}
	h.m.PauseUpdates(false)
	h.layout(t)
	if len(h.mover.batches) != 1 {
		t.Fatalf("expected one layout pass, got %d", len(h.mover.batches))
	}
}

func TestManager_MoveToSwapsOrInserts(t *testing.T) {
	tests := []struct {
		name      string
		behavior  MoveBehavior
		wantLeft  string
		wantRight string
	}{
		{name: "swap", behavior: MoveSwap, wantLeft: "2", wantRight: "1"},
		{name: "insert", behavior: MoveInsert, wantLeft: "_", wantRight: "H50(2,1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.MoveBehavior = tt.behavior
			h := newHarness(t, s, monitorLeft, monitorRight)
			h.add(t, 1, monitorLeft)
			h.add(t, 2, monitorRight)

			// Drop 1 in the bottom band of 2.
			if _, err := h.m.MoveTo(1, tiling.Point{X: 1500, Y: 750}); err != nil {
				t.Fatalf("MoveTo: %v", err)
			}
			if got := h.tree(t, monitorLeft).String(); got != tt.wantLeft {
				t.Fatalf("left: got %s want %s", got, tt.wantLeft)
			}
			if got := h.tree(t, monitorRight).String(); got != tt.wantRight {
				t.Fatalf("right: got %s want %s", got, tt.wantRight)
			}
			h.assertExclusive(t, 1, 2)
		})
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		err  error
		want slog.Level
	}{
		{ErrNoWindow, slog.LevelDebug},
		{ErrWinNotManaged, slog.LevelDebug},
		{ErrNoWindowsInfo, slog.LevelWarn},
		{&ContainerNotFoundError{Refresh: true}, slog.LevelWarn},
		{&VDError{Err: errors.New("boom")}, slog.LevelError},
		{errors.New("other"), slog.LevelError},
	}
	for _, tt := range tests {
		if got := Severity(tt.err); got != tt.want {
			t.Fatalf("Severity(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if !NeedsRefresh(&ContainerNotFoundError{Refresh: true}) || NeedsRefresh(ErrNoWindow) {
		t.Fatalf("NeedsRefresh mismatch")
	}
}

func TestManager_CurrentWindows(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 3, monitorLeft)
	h.add(t, 1, monitorRight)
	h.add(t, 2, monitorLeft)
	h.m.Release(2)
	h.m.Focalize(3)

	got := h.m.CurrentWindows()
	want := []WindowID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}

	h.m.SwitchDesktop(1)
	if got := h.m.CurrentWindows(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("only the floating window follows the desktop switch, got %v", got)
	}
}

func TestManager_RemoveOnInactiveDesktopRestoresHiddenWindows(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	h.m.Focalize(1)
	h.m.SwitchDesktop(1)

	if _, err := h.m.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if h.wins.wins[2].iconic || h.wins.wins[3].iconic {
		t.Fatalf("windows hidden by the focalized layer should be restored")
	}

	h.m.SwitchDesktop(0)
	h.layout(t)
	c, _ := h.m.Container(ContainerKey{Monitor: monitorLeft.ID})
	if c.Current() != LayerNormal {
		t.Fatalf("expected normal layer, got %s", c.Current())
	}
	if got := len(h.m.Layout()); got != 2 {
		t.Fatalf("expected 2 windows laid out, got %d", got)
	}
	h.assertExclusive(t, 2, 3)
}

func TestManager_UpdateMonitorsRestoresAdoptedHiddenWindows(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft, monitorRight)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorRight)
	h.add(t, 3, monitorRight)
	h.m.Focalize(2)
	if !h.wins.wins[3].iconic {
		t.Fatalf("focalize should minimize the sibling")
	}
	h.m.SwitchDesktop(1)

	h.m.UpdateMonitors([]Monitor{monitorLeft})
	if h.wins.wins[3].iconic {
		t.Fatalf("adopted windows should be restored")
	}

	h.m.SwitchDesktop(0)
	if got := h.tree(t, monitorLeft).Len(); got != 3 {
		t.Fatalf("expected 3 windows on the remaining monitor, got %d", got)
	}
	if got := len(h.m.Layout()); got != 3 {
		t.Fatalf("expected 3 windows laid out, got %d", got)
	}
	h.assertExclusive(t, 1, 2, 3)
}

func TestManager_ReleaseKeepsFloatingWhenTilingFails(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	h.add(t, 1, monitorLeft)
	h.add(t, 2, monitorLeft)
	if _, err := h.m.Release(2); err != nil {
		t.Fatalf("Release: %v", err)
	}

	s := testSettings()
	s.Ignore = []*regexp.Regexp{regexp.MustCompile("^term$")}
	h.m.SetSettings(s)

	if _, err := h.m.Release(2); !errors.Is(err, ErrWinNotManaged) {
		t.Fatalf("expected ErrWinNotManaged, got %v", err)
	}
	if state, ok := h.m.WindowState(2); !ok || state != StateFloating {
		t.Fatalf("window should stay floating, got %s %v", state, ok)
	}
	h.assertExclusive(t, 1, 2)
}

func TestManager_UnmaximizeIntoFocalizedMonitor(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
	}
	if _, err := h.m.AsMaximized(1); err != nil {
		t.Fatalf("AsMaximized: %v", err)
	}
	if _, err := h.m.Focalize(2); err != nil {
		t.Fatalf("Focalize: %v", err)
	}

	res, err := h.m.AsMaximized(1)
	if err != nil || res.Kind != LayoutChanged {
		t.Fatalf("expected layout change, got %+v %v", res, err)
	}
	c, _ := h.m.Container(ContainerKey{Monitor: monitorLeft.ID})
	if c.Current() != LayerNormal {
		t.Fatalf("expected normal layer, got %s", c.Current())
	}
	if state, _ := h.m.WindowState(1); state != StateNormal {
		t.Fatalf("expected normal, got %s", state)
	}
	if h.wins.wins[3].iconic {
		t.Fatalf("window hidden by the focalized layer should be restored")
	}
	laidOut := false
	for _, mv := range h.m.Layout() {
		if mv.Window == 1 {
			laidOut = true
		}
	}
	if !laidOut {
		t.Fatalf("unmaximized window should be laid out")
	}
	h.assertExclusive(t, 1, 2, 3)
}

func TestManager_SetSettingsKeepsFocusHistory(t *testing.T) {
	h := newHarness(t, testSettings(), monitorLeft)
	for id := WindowID(1); id <= 3; id++ {
		h.add(t, id, monitorLeft)
		h.m.OnFocus(id)
	}

	s := testSettings()
	s.FocusHistorySize = 2
	h.m.SetSettings(s)

	got := h.m.History()
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Fatalf("expected [3 2], got %v", got)
	}
}

package tiles

import (
	"fmt"
	"testing"
	"time"

	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

type fakeWindow struct {
	area    tiling.Area
	visible bool
	iconic  bool
	topmost bool
	class   string
	title   string
	desktop int
}

type fakeWindows struct {
	wins    map[WindowID]*fakeWindow
	focused WindowID
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{wins: make(map[WindowID]*fakeWindow)}
}

func (f *fakeWindows) open(id WindowID, area tiling.Area) *fakeWindow {
	w := &fakeWindow{area: area, visible: true, class: "term"}
	f.wins[id] = w
	return w
}

func (f *fakeWindows) get(id WindowID) (*fakeWindow, error) {
	w, ok := f.wins[id]
	if !ok {
		return nil, fmt.Errorf("no window %d", id)
	}
	return w, nil
}

func (f *fakeWindows) WindowArea(id WindowID) (tiling.Area, error) {
	w, err := f.get(id)
	if err != nil {
		return tiling.Area{}, err
	}
	return w.area, nil
}

func (f *fakeWindows) WindowCenter(id WindowID) (tiling.Point, error) {
	w, err := f.get(id)
	if err != nil {
		return tiling.Point{}, err
	}
	return w.area.Center(), nil
}

func (f *fakeWindows) IsVisible(id WindowID) bool {
	w, err := f.get(id)
	return err == nil && w.visible
}

func (f *fakeWindows) IsIconic(id WindowID) bool {
	w, err := f.get(id)
	return err == nil && w.iconic
}

func (f *fakeWindows) Focus(id WindowID) error {
	if _, err := f.get(id); err != nil {
		return err
	}
	f.focused = id
	return nil
}

func (f *fakeWindows) Minimize(id WindowID) error {
	w, err := f.get(id)
	if err != nil {
		return err
	}
	w.iconic = true
	return nil
}

func (f *fakeWindows) Restore(id WindowID) error {
	w, err := f.get(id)
	if err != nil {
		return err
	}
	w.iconic = false
	return nil
}

func (f *fakeWindows) MoveResize(id WindowID, area tiling.Area) error {
	w, err := f.get(id)
	if err != nil {
		return err
	}
	w.area = area
	return nil
}

func (f *fakeWindows) SetTopmost(id WindowID, topmost bool) error {
	w, err := f.get(id)
	if err != nil {
		return err
	}
	w.topmost = topmost
	return nil
}

func (f *fakeWindows) WindowInfo(id WindowID) (platform.Window, error) {
	w, err := f.get(id)
	if err != nil {
		return platform.Window{}, err
	}
	return platform.Window{ID: id, AppID: w.class, Title: w.title, Bounds: w.area}, nil
}

type fakeDesktops struct {
	current int
	wins    *fakeWindows
}

func (d *fakeDesktops) CurrentDesktop() (int, error) { return d.current, nil }

func (d *fakeDesktops) WindowDesktop(id WindowID) (int, error) {
	w, err := d.wins.get(id)
	if err != nil {
		return 0, err
	}
	return w.desktop, nil
}

func (d *fakeDesktops) MoveToDesktop(id WindowID, desktop int) error {
	w, err := d.wins.get(id)
	if err != nil {
		return err
	}
	w.desktop = desktop
	return nil
}

// fakeMover applies moves immediately.
type fakeMover struct {
	wins      *fakeWindows
	batches   [][]Move
	animated  []bool
	cancelled int
}

func (f *fakeMover) Move(moves []Move, animate bool) error {
	f.batches = append(f.batches, moves)
	f.animated = append(f.animated, animate)
	for _, mv := range moves {
		if err := f.wins.MoveResize(mv.Window, mv.To); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMover) Cancel() { f.cancelled++ }

type harness struct {
	m     *Manager
	wins  *fakeWindows
	desk  *fakeDesktops
	mover *fakeMover
}

var (
	monitorLeft  = Monitor{ID: "DP-1", WorkArea: tiling.NewArea(0, 0, 1000, 800)}
	monitorRight = Monitor{ID: "DP-2", WorkArea: tiling.NewArea(1000, 0, 1000, 800)}
)

func testSettings() Settings {
	s := DefaultSettings()
	s.TilesPadding, s.BorderPadding, s.FocalizedPadding = 0, 0, 0
	return s
}

func newHarness(t *testing.T, settings Settings, monitors ...Monitor) *harness {
	t.Helper()
	wins := newFakeWindows()
	desk := &fakeDesktops{wins: wins}
	mover := &fakeMover{wins: wins}

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := NewManager(Config{
		Settings: settings,
		Windows:  wins,
		Desktops: desk,
		Mover:    mover,
		Now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
	}, monitors)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &harness{m: m, wins: wins, desk: desk, mover: mover}
}

// add opens a small window centered in monitor and adds it.
func (h *harness) add(t *testing.T, id WindowID, monitor Monitor) {
	t.Helper()
	c := monitor.WorkArea.Center()
	h.wins.open(id, tiling.NewArea(c.X-50, c.Y-50, 100, 100))
	res, err := h.m.Add(id, nil, true, false)
	if err != nil {
		t.Fatalf("Add(%d): %v", id, err)
	}
	if res.Kind != LayoutChanged {
		t.Fatalf("Add(%d): expected layout change, got %s", id, res.Kind)
	}
}

func (h *harness) tree(t *testing.T, monitor Monitor) *Tree {
	t.Helper()
	c, ok := h.m.Container(ContainerKey{Desktop: h.m.Desktop(), Monitor: monitor.ID})
	if !ok {
		t.Fatalf("no active container for %s", monitor.ID)
	}
	return c.NormalTree()
}

func (h *harness) layout(t *testing.T) {
	t.Helper()
	if err := h.m.UpdateLayout(false, nil); err != nil {
		t.Fatalf("UpdateLayout: %v", err)
	}
}

// assertExclusive checks that every window lives in exactly one place.
func (h *harness) assertExclusive(t *testing.T, ids ...WindowID) {
	t.Helper()
	for _, id := range ids {
		n := 0
		if _, ok := h.m.floating[id]; ok {
			n++
		}
		if _, ok := h.m.maximized[id]; ok {
			n++
		}
		for _, c := range h.m.active {
			if c.Contains(id) {
				n++
			}
		}
		for _, ic := range h.m.inactive {
			if ic.container.Contains(id) {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("window %d found in %d places", id, n)
		}
		if _, ok := h.m.WindowState(id); !ok {
			t.Fatalf("window %d has no state", id)
		}
	}
}

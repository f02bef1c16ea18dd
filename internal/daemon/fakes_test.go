package daemon

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/policastro/mondrian-sub000/internal/config"
	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiles"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

type fakeWin struct {
	area    tiling.Area
	iconic  bool
	class   string
	desktop int
	topmost bool
}

// fakeBackend is a window system with one or more displays. It is shared by
// the test goroutine and the loop goroutine.
type fakeBackend struct {
	mu       sync.Mutex
	displays []platform.Display
	wins     map[tiles.WindowID]*fakeWin
	active   tiles.WindowID
	desktop  int
	buttons  bool
	pointer  tiling.Point
	closed   []tiles.WindowID
	moveErr  error
}

func newFakeBackend(displays ...platform.Display) *fakeBackend {
	return &fakeBackend{displays: displays, wins: make(map[tiles.WindowID]*fakeWin)}
}

func (f *fakeBackend) open(id tiles.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wins[id] = &fakeWin{area: tiling.NewArea(100, 100, 300, 300), class: "term"}
}

func (f *fakeBackend) area(id tiles.WindowID) tiling.Area {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wins[id].area
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) win(id tiles.WindowID) (*fakeWin, error) {
	w, ok := f.wins[id]
	if !ok {
		return nil, fmt.Errorf("no window %d", id)
	}
	return w, nil
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Display(nil), f.displays...), nil
}

func (f *fakeBackend) ActiveWindow() (tiles.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func (f *fakeBackend) Candidates() ([]platform.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]platform.Window, 0, len(f.wins))
	for id, w := range f.wins {
		out = append(out, platform.Window{ID: id, AppID: w.class, Bounds: w.area})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBackend) Manageable(id tiles.WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.wins[id]
	return ok
}

func (f *fakeBackend) Pointer() (tiling.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pointer, nil
}

func (f *fakeBackend) ButtonsDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buttons
}

func (f *fakeBackend) WindowArea(id tiles.WindowID) (tiling.Area, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return tiling.Area{}, err
	}
	return w.area, nil
}

func (f *fakeBackend) WindowCenter(id tiles.WindowID) (tiling.Point, error) {
	a, err := f.WindowArea(id)
	return a.Center(), err
}

func (f *fakeBackend) IsVisible(id tiles.WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.wins[id]
	return ok
}

func (f *fakeBackend) IsIconic(id tiles.WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	return err == nil && w.iconic
}

func (f *fakeBackend) Focus(id tiles.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.win(id); err != nil {
		return err
	}
	f.active = id
	return nil
}

func (f *fakeBackend) Minimize(id tiles.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return err
	}
	w.iconic = true
	return nil
}

func (f *fakeBackend) Restore(id tiles.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return err
	}
	w.iconic = false
	return nil
}

func (f *fakeBackend) MoveResize(id tiles.WindowID, area tiling.Area) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil {
		return f.moveErr
	}
	w, err := f.win(id)
	if err != nil {
		return err
	}
	w.area = area
	return nil
}

func (f *fakeBackend) SetTopmost(id tiles.WindowID, topmost bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return err
	}
	w.topmost = topmost
	return nil
}

func (f *fakeBackend) WindowInfo(id tiles.WindowID) (platform.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return platform.Window{}, err
	}
	return platform.Window{ID: id, AppID: w.class, Bounds: w.area}, nil
}

func (f *fakeBackend) Close(id tiles.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBackend) CurrentDesktop() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desktop, nil
}

func (f *fakeBackend) WindowDesktop(id tiles.WindowID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return 0, err
	}
	return w.desktop, nil
}

func (f *fakeBackend) MoveToDesktop(id tiles.WindowID, desktop int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.win(id)
	if err != nil {
		return err
	}
	w.desktop = desktop
	return nil
}

var display = platform.Display{
	ID:       "DP-1",
	Primary:  true,
	Bounds:   tiling.NewArea(0, 0, 1000, 800),
	WorkArea: tiling.NewArea(0, 0, 1000, 800),
}

// testConfig lays windows out in unpadded columns.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Layout.Strategy = tiling.StrategyMonoAxisHorizontal
	cfg.Layout.TilesPadding = 0
	cfg.Layout.BorderPadding = 0
	cfg.General.FreeMoveInMonitor = false
	cfg.General.GestureDebounceMs = 10
	cfg.Animation.Enabled = false
	return cfg
}

func newTestLoop(t *testing.T, backend *fakeBackend, cfg *config.Config) *Loop {
	t.Helper()
	l, err := NewLoop(LoopConfig{
		Backend: backend,
		Config:  cfg,
		Load:    func() (*config.Config, error) { return testConfig(), nil },
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	return l
}

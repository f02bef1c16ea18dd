package tiles

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// inactiveContainer is a container of a virtual desktop that is not shown.
type inactiveContainer struct {
	container *Container
	since     time.Time
}

// Config holds the collaborators of a Manager.
type Config struct {
	Settings Settings
	Windows  Windows
	Desktops Desktops
	Mover    Mover
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager owns every container and the windows that escape tiling. It is
// not safe for concurrent use: a single goroutine must own it.
type Manager struct {
	settings Settings
	windows  Windows
	desktops Desktops
	mover    Mover
	logger   *slog.Logger
	now      func() time.Time

	monitors  []Monitor
	desktop   int
	active    map[ContainerKey]*Container
	inactive  map[ContainerKey]inactiveContainer
	floating  map[WindowID]FloatingProperties
	maximized map[WindowID]ContainerKey
	peeked    map[ContainerKey]tiling.Area
	history   *FocusHistory
	paused    bool
}

// NewManager returns a manager for the given monitors on the current
// virtual desktop.
func NewManager(cfg Config, monitors []Monitor) (*Manager, error) {
	if cfg.Windows == nil || cfg.Desktops == nil || cfg.Mover == nil {
		return nil, errors.New("tiles: windows, desktops and mover are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	desktop, err := cfg.Desktops.CurrentDesktop()
	if err != nil {
		return nil, &VDError{Err: err}
	}

	m := &Manager{
		settings:  cfg.Settings,
		windows:   cfg.Windows,
		desktops:  cfg.Desktops,
		mover:     cfg.Mover,
		logger:    logger.With("component", "tiles"),
		now:       now,
		desktop:   desktop,
		active:    make(map[ContainerKey]*Container),
		inactive:  make(map[ContainerKey]inactiveContainer),
		floating:  make(map[WindowID]FloatingProperties),
		maximized: make(map[WindowID]ContainerKey),
		peeked:    make(map[ContainerKey]tiling.Area),
		history:   NewFocusHistory(cfg.Settings.FocusHistorySize),
	}
	m.UpdateMonitors(monitors)
	return m, nil
}

// Desktop returns the current virtual desktop.
func (m *Manager) Desktop() int { return m.desktop }

// Monitors returns the known monitors.
func (m *Manager) Monitors() []Monitor {
	return append([]Monitor(nil), m.monitors...)
}

// Settings returns the active settings.
func (m *Manager) Settings() Settings { return m.settings }

// SetSettings applies new settings to every container.
func (m *Manager) SetSettings(s Settings) {
	m.settings = s
	strategy := s.newStrategy()
	for _, c := range m.active {
		c.SetStrategy(strategy, s.InsertThreshold)
	}
	for _, ic := range m.inactive {
		ic.container.SetStrategy(strategy, s.InsertThreshold)
	}
	m.history = m.history.Resized(s.FocusHistorySize)
}

// Container returns the active container of key.
func (m *Manager) Container(key ContainerKey) (*Container, bool) {
	c, ok := m.active[key]
	return c, ok
}

// ActiveKeys returns the keys of the active containers in monitor order.
func (m *Manager) ActiveKeys() []ContainerKey {
	keys := make([]ContainerKey, 0, len(m.active))
	for _, mon := range m.monitors {
		k := m.key(mon.ID)
		if _, ok := m.active[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// History returns the focus history, most recent first.
func (m *Manager) History() []WindowID { return m.history.IDs() }

func (m *Manager) key(monitor string) ContainerKey {
	return ContainerKey{Desktop: m.desktop, Monitor: monitor}
}

func (m *Manager) newContainer(area tiling.Area) *Container {
	return NewContainer(area, m.settings.newStrategy(), m.settings.InsertThreshold)
}

func (m *Manager) monitor(id string) (Monitor, bool) {
	for _, mon := range m.monitors {
		if mon.ID == id {
			return mon, true
		}
	}
	return Monitor{}, false
}

// findTiled returns the active container tiling win.
func (m *Manager) findTiled(win WindowID) (ContainerKey, *Container, bool) {
	for k, c := range m.active {
		if c.Contains(win) {
			return k, c, true
		}
	}
	return ContainerKey{}, nil, false
}

// findInactive returns the inactive container tiling win.
func (m *Manager) findInactive(win WindowID) (ContainerKey, *Container, bool) {
	for k, ic := range m.inactive {
		if ic.container.Contains(win) {
			return k, ic.container, true
		}
	}
	return ContainerKey{}, nil, false
}

// containerAt returns the active container whose monitor covers p.
func (m *Manager) containerAt(p tiling.Point) (ContainerKey, *Container, bool) {
	for _, mon := range m.monitors {
		if !mon.WorkArea.Contains(p) {
			continue
		}
		k := m.key(mon.ID)
		if c, ok := m.active[k]; ok {
			return k, c, true
		}
	}
	return ContainerKey{}, nil, false
}

// nearestContainer returns the container at p or, failing that, the one
// whose monitor is the closest to p.
func (m *Manager) nearestContainer(p tiling.Point) (ContainerKey, *Container, error) {
	if k, c, ok := m.containerAt(p); ok {
		return k, c, nil
	}
	best, bestDist := -1, 0
	for i, mon := range m.monitors {
		if _, ok := m.active[m.key(mon.ID)]; !ok {
			continue
		}
		d := mon.WorkArea.Distance(p)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return ContainerKey{}, nil, &ContainerNotFoundError{Refresh: true}
	}
	k := m.key(m.monitors[best].ID)
	return k, m.active[k], nil
}

// WindowState returns how win is managed.
func (m *Manager) WindowState(win WindowID) (WindowTileState, bool) {
	if _, ok := m.floating[win]; ok {
		return StateFloating, true
	}
	if _, ok := m.maximized[win]; ok {
		return StateMaximized, true
	}
	_, c, ok := m.findTiled(win)
	if !ok {
		if _, _, ok := m.findInactive(win); ok {
			return StateNormal, true
		}
		return StateNormal, false
	}
	if c.IsShown(win) {
		switch c.Current() {
		case LayerFocalized:
			return StateFocalized, true
		case LayerHalfFocalized:
			return StateHalfFocalized, true
		}
	}
	return StateNormal, true
}

// IsManaged reports whether win is tracked in any way.
func (m *Manager) IsManaged(win WindowID) bool {
	_, ok := m.WindowState(win)
	return ok
}

// restoreLayer brings c back to its normal layer and restores the windows
// the previous layer hid.
func (m *Manager) restoreLayer(c *Container) {
	for _, id := range c.Restore(m.now()) {
		if err := m.windows.Restore(id); err != nil {
			m.logger.Debug("restore window failed", "window", id, "error", err)
		}
	}
}

// unmaximizeOn puts the maximized windows of key back in its normal tree.
func (m *Manager) unmaximizeOn(key ContainerKey, c *Container) {
	for win, k := range m.maximized {
		if k != key {
			continue
		}
		delete(m.maximized, win)
		if err := m.windows.SetTopmost(win, false); err != nil {
			m.logger.Debug("clear topmost failed", "window", win, "error", err)
		}
		c.NormalTree().Insert(win)
	}
}

// prepare makes the normal layer of c the active one.
func (m *Manager) prepare(key ContainerKey, c *Container) {
	m.restoreLayer(c)
	m.unmaximizeOn(key, c)
	m.unpeek(key, c)
	c.Touch(m.now())
}

// hasMaximized reports whether a maximized window covers key.
func (m *Manager) hasMaximized(key ContainerKey) (WindowID, bool) {
	for win, k := range m.maximized {
		if k == key {
			return win, true
		}
	}
	return 0, false
}

// Add starts managing win. preferPosition chooses the monitor, the window
// center being used when nil. Rules are applied when applyRules is set.
// A window tiled on another virtual desktop switches to that desktop unless
// avoidDesktopSwitch is set.
func (m *Manager) Add(win WindowID, preferPosition *tiling.Point, applyRules, avoidDesktopSwitch bool) (Result, error) {
	if state, ok := m.WindowState(win); ok && state != StateNormal && state != StateHalfFocalized {
		return resultNoChange, nil
	}
	if _, _, ok := m.findTiled(win); ok {
		return resultNoChange, ErrWindowAlreadyAdded
	}
	if k, _, ok := m.findInactive(win); ok {
		if avoidDesktopSwitch || k.Desktop == m.desktop {
			return resultNoChange, ErrWindowAlreadyAdded
		}
		m.logger.Debug("window tiled on another desktop", "window", win, "desktop", k.Desktop)
		return m.SwitchDesktop(k.Desktop), nil
	}

	info, err := m.windows.WindowInfo(win)
	if err != nil {
		return resultNoChange, fmt.Errorf("%w: %v", ErrNoWindowsInfo, err)
	}
	if m.settings.ignored(info) {
		return resultNoChange, ErrWinNotManaged
	}

	var point tiling.Point
	if preferPosition != nil {
		point = *preferPosition
	} else if point, err = m.windows.WindowCenter(win); err != nil {
		return resultNoChange, fmt.Errorf("%w: %v", ErrNoWindowsInfo, err)
	}

	if applyRules {
		if rule, ok := m.settings.matchRule(info); ok {
			if rule.Monitor != "" {
				if mon, ok := m.monitor(rule.Monitor); ok {
					point = mon.WorkArea.Center()
				}
			}
			if rule.Float {
				return m.float(win, point, true)
			}
			if rule.Desktop >= 0 && rule.Desktop != m.desktop {
				return m.addToDesktop(win, point, rule.Desktop)
			}
		}
	}

	key, c, err := m.nearestContainer(point)
	if err != nil {
		return resultNoChange, err
	}
	m.prepare(key, c)
	c.NormalTree().Insert(win)
	m.logger.Debug("window added", "window", win, "container", key, "class", info.AppID)
	return resultLayoutChanged, nil
}

// addToDesktop sends win to another virtual desktop and tiles it in the
// container that desktop has for the monitor nearest to point.
func (m *Manager) addToDesktop(win WindowID, point tiling.Point, desktop int) (Result, error) {
	if err := m.desktops.MoveToDesktop(win, desktop); err != nil {
		return resultNoChange, &VDError{Err: err}
	}
	key, _, err := m.nearestContainer(point)
	if err != nil {
		return resultNoChange, err
	}
	key.Desktop = desktop
	ic, ok := m.inactive[key]
	if !ok {
		mon, _ := m.monitor(key.Monitor)
		ic = inactiveContainer{container: m.newContainer(mon.WorkArea), since: m.now()}
	}
	ic.container.NormalTree().Insert(win)
	m.inactive[key] = ic
	return resultNoChange, nil
}

// float makes win a floating window sized at least MinFloatingDim.
func (m *Manager) float(win WindowID, point tiling.Point, locked bool) (Result, error) {
	m.floating[win] = FloatingProperties{Locked: locked}

	area, err := m.windows.WindowArea(win)
	if err != nil {
		return resultNoChange, fmt.Errorf("%w: %v", ErrNoWindowsInfo, err)
	}
	dim := m.settings.MinFloatingDim
	target := tiling.NewArea(area.X, area.Y, max(area.Width, dim), max(area.Height, dim))
	if _, c, err := m.nearestContainer(point); err == nil {
		if monitor := c.Area(); !monitor.ContainsArea(target) {
			target = monitor.CenteredIn(target.Width, target.Height)
		}
	}
	return Result{Kind: Queue, Window: win, Area: target, Topmost: true}, nil
}

// Remove stops managing win.
func (m *Manager) Remove(win WindowID) (Result, error) {
	m.history.Remove(win)
	if _, ok := m.floating[win]; ok {
		delete(m.floating, win)
		return resultNoChange, nil
	}
	if _, ok := m.maximized[win]; ok {
		delete(m.maximized, win)
		return resultLayoutChanged, nil
	}
	if key, c, ok := m.findTiled(win); ok {
		m.restoreLayer(c)
		c.NormalTree().Remove(win)
		c.Touch(m.now())
		m.logger.Debug("window removed", "window", win, "container", key)
		return resultLayoutChanged, nil
	}
	if _, c, ok := m.findInactive(win); ok {
		m.restoreLayer(c)
		c.NormalTree().Remove(win)
		return resultNoChange, nil
	}
	return resultNoChange, ErrWinNotManaged
}

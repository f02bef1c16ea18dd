package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/policastro/mondrian-sub000/internal/animation"
	"github.com/policastro/mondrian-sub000/internal/config"
	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiles"
)

const queueSize = 512

// LoopConfig holds the collaborators of a Loop.
type LoopConfig struct {
	Backend    platform.Backend
	Config     *config.Config
	ConfigPath string
	// Load reads the configuration again on reload. Reloading is refused
	// when nil.
	Load       func() (*config.Config, error)
	// OnReload runs on the loop goroutine after a configuration was applied.
	OnReload   func(*config.Config)
	Logger     *slog.Logger
}

// Loop is the only goroutine touching the tiles manager. Window system
// events, user actions, timers and animation reports are all queued as
// commands and processed in order.
type Loop struct {
	backend    platform.Backend
	manager    *tiles.Manager
	player     *animation.Player
	logger     *slog.Logger
	load       func() (*config.Config, error)
	onReload   func(*config.Config)
	configPath string
	started    time.Time

	cmds chan command

	// Owned by the loop goroutine.
	cfg        *config.Config
	iconic     map[tiles.WindowID]bool
	gesture    *gesture
	gestureGen uint64
}

// NewLoop builds the manager for the current monitors and desktop.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	if cfg.Backend == nil || cfg.Config == nil {
		return nil, errors.New("daemon: backend and config are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		backend:    cfg.Backend,
		logger:     logger.With("component", "loop"),
		load:       cfg.Load,
		onReload:   cfg.OnReload,
		configPath: cfg.ConfigPath,
		started:    time.Now(),
		cmds:       make(chan command, queueSize),
		cfg:        cfg.Config,
		iconic:     make(map[tiles.WindowID]bool),
	}

	animCfg := cfg.Config.AnimationConfig()
	animCfg.Logger = logger
	animCfg.OnDone = func(d animation.Done) { l.post(animationDone{done: d}) }
	player, err := animation.NewPlayer(cfg.Backend, animCfg)
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	l.player = player

	settings, err := cfg.Config.Settings()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	monitors, err := l.monitors()
	if err != nil {
		return nil, err
	}
	manager, err := tiles.NewManager(tiles.Config{
		Settings: settings,
		Windows:  cfg.Backend,
		Desktops: cfg.Backend,
		Mover:    player,
		Logger:   logger,
	}, monitors)
	if err != nil {
		return nil, err
	}
	l.manager = manager
	return l, nil
}

func (l *Loop) String() string { return "command-loop" }

// Serve tiles the existing windows and processes commands until ctx is
// cancelled.
func (l *Loop) Serve(ctx context.Context) error {
	l.logger.Info("command loop started", "desktop", l.manager.Desktop(), "monitors", len(l.manager.Monitors()))
	defer l.player.Cancel()
	defer l.stopGesture()

	l.reconcile()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			l.handle(cmd)
		}
	}
}

func (l *Loop) handle(cmd command) {
	l.logger.Debug("command", "name", cmd.name())
	switch c := cmd.(type) {
	case eventCommand:
		l.onEvent(c.ev)
	case actionCommand:
		c.reply <- l.runAction(c.action, c.window)
	case reloadCommand:
		c.reply <- l.reload()
	case queryCommand:
		c.fn()
		close(c.done)
	case gestureCheck:
		l.onGestureCheck(c)
	case animationDone:
		l.onAnimationDone(c.done)
	case reconcileCommand:
		l.reconcile()
	}
}

// post queues cmd without blocking. It is safe from any goroutine.
func (l *Loop) post(cmd command) bool {
	select {
	case l.cmds <- cmd:
		return true
	default:
		l.logger.Warn("command queue full, dropping command", "name", cmd.name())
		return false
	}
}

func (l *Loop) send(ctx context.Context, cmd command) error {
	select {
	case l.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues a window system event.
func (l *Loop) Post(ev Event) {
	l.post(eventCommand{ev: ev})
}

// Reconcile queues a synchronization with the window system.
func (l *Loop) Reconcile() {
	l.post(reconcileCommand{})
}

// Trigger queues action on the focused window without waiting. It is meant
// for callers that must not block, such as key press callbacks.
func (l *Loop) Trigger(action ipc.Action) {
	l.post(actionCommand{action: action, reply: make(chan error, 1)})
}

// Do runs action on window, or on the focused window when window is zero,
// and waits for the outcome.
func (l *Loop) Do(ctx context.Context, action ipc.Action, window tiles.WindowID) error {
	reply := make(chan error, 1)
	if err := l.send(ctx, actionCommand{action: action, window: window, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload reads the configuration again and applies it.
func (l *Loop) Reload(ctx context.Context) error {
	reply := make(chan error, 1)
	if err := l.send(ctx, reloadCommand{reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// query runs fn on the loop goroutine.
func (l *Loop) query(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.send(ctx, queryCommand{fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) monitors() ([]tiles.Monitor, error) {
	displays, err := l.backend.Displays()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	monitors := make([]tiles.Monitor, 0, len(displays))
	for _, d := range displays {
		monitors = append(monitors, tiles.Monitor{ID: d.ID, WorkArea: d.WorkArea})
	}
	return monitors, nil
}

// apply logs err at the level it deserves or performs what res asks for.
func (l *Loop) apply(op string, res tiles.Result, err error) error {
	if err != nil {
		l.logger.Log(context.Background(), tiles.Severity(err), op+" failed", "error", err)
		if tiles.NeedsRefresh(err) {
			l.refreshLayout()
		}
		return err
	}
	if err := l.manager.Apply(res, true); err != nil {
		l.logger.Warn("layout update failed", "op", op, "error", err)
		return err
	}
	return nil
}

// refreshLayout re-reads the monitors and places every window again.
func (l *Loop) refreshLayout() {
	if monitors, err := l.monitors(); err == nil {
		l.manager.UpdateMonitors(monitors)
	}
	if err := l.manager.UpdateLayout(false, nil); err != nil {
		l.logger.Warn("layout refresh failed", "error", err)
	}
}

func (l *Loop) onEvent(ev Event) {
	win := ev.Window
	switch ev.Kind {
	case WindowOpened:
		if !l.backend.Manageable(win) {
			return
		}
		l.iconic[win] = l.backend.IsIconic(win)
		res, err := l.manager.Add(win, nil, true, false)
		l.apply("add", res, err)
	case WindowClosed:
		delete(l.iconic, win)
		if l.gesture != nil && l.gesture.window == win {
			l.abortGesture()
		}
		res, err := l.manager.Remove(win)
		l.apply("remove", res, err)
	case WindowConfigured:
		l.onConfigured(win)
	case WindowStateChanged:
		l.onStateChanged(win)
	case WindowFocused:
		active, err := l.backend.ActiveWindow()
		if err != nil || active == 0 {
			return
		}
		res, err := l.manager.OnFocus(active)
		l.apply("focus", res, err)
	case DesktopChanged:
		res, err := l.manager.RefreshDesktop()
		l.apply("switch desktop", res, err)
	case MonitorsChanged:
		monitors, err := l.monitors()
		if err != nil {
			l.logger.Warn("monitor refresh failed", "error", err)
			return
		}
		l.apply("update monitors", l.manager.UpdateMonitors(monitors), nil)
	}
}

func (l *Loop) onStateChanged(win tiles.WindowID) {
	iconic := l.backend.IsIconic(win)
	was, known := l.iconic[win]
	l.iconic[win] = iconic

	switch {
	case iconic && !was:
		res, err := l.manager.OnMinimize(win)
		l.apply("minimize", res, err)
	case !iconic && known && was:
		res, err := l.manager.OnRestore(win)
		l.apply("restore", res, err)
	case l.manager.IsManaged(win) && !l.backend.Manageable(win):
		// Fullscreen windows leave the layout until they come back.
		if state, _ := l.manager.WindowState(win); state == tiles.StateNormal {
			res, err := l.manager.Remove(win)
			l.apply("remove", res, err)
		}
	case !l.manager.IsManaged(win) && l.backend.Manageable(win):
		res, err := l.manager.Add(win, nil, true, true)
		l.apply("add", res, err)
	}
}

func (l *Loop) onAnimationDone(d animation.Done) {
	switch {
	case d.Err != nil:
		l.logger.Debug("transition ended with errors", "transition", d.ID)
	case d.Cancelled:
		l.logger.Debug("transition cancelled", "transition", d.ID)
	default:
		l.logger.Debug("transition done", "transition", d.ID, "windows", len(d.Moves))
	}
}

// reload applies a freshly loaded configuration. The previous one stays
// when loading fails.
func (l *Loop) reload() error {
	if l.load == nil {
		return errors.New("reload not supported")
	}
	cfg, err := l.load()
	if err != nil {
		l.logger.Error("config reload failed", "error", err)
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	animCfg := cfg.AnimationConfig()
	if err := l.player.Reconfigure(animCfg); err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	l.cfg = cfg
	l.manager.SetSettings(settings)
	l.logger.Info("config reloaded", "strategy", cfg.Layout.Strategy)
	if l.onReload != nil {
		l.onReload(cfg)
	}
	return l.manager.UpdateLayout(false, nil)
}

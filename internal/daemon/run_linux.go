//go:build linux

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/policastro/mondrian-sub000/internal/config"
	"github.com/policastro/mondrian-sub000/internal/hotkeys"
	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/runtimepath"
	"github.com/policastro/mondrian-sub000/internal/x11"
)

// Options configures Run.
type Options struct {
	// ConfigPath overrides the default configuration file.
	ConfigPath string
	// SocketPath overrides the default IPC socket.
	SocketPath string
	Logger     *slog.Logger
}

// Run connects to the X server and manages windows until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	load := func() (*config.Config, error) {
		res, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	bindings, err := hotkeys.Parse(cfg.Hotkeys)
	if err != nil {
		return fmt.Errorf("invalid hotkeys: %w", err)
	}

	socketPath := opts.SocketPath
	if socketPath == "" {
		if socketPath, err = runtimepath.SocketPath(); err != nil {
			return fmt.Errorf("resolve IPC socket path: %w", err)
		}
	}
	if ipc.NewClientAt(socketPath).Ping() {
		return errors.New("another daemon is already running")
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer backend.Disconnect()
	conn := backend.Conn()

	var keys *hotkeys.Handler
	loop, err := NewLoop(LoopConfig{
		Backend:    backend,
		Config:     cfg,
		ConfigPath: configPath,
		Load:       load,
		OnReload: func(c *config.Config) {
			b, err := hotkeys.Parse(c.Hotkeys)
			if err != nil {
				logger.Warn("some hotkeys were not bound", "error", err)
			}
			if err := keys.Bind(b); err != nil {
				logger.Warn("some hotkeys were not bound", "error", err)
			}
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	keys = hotkeys.NewHandler(conn, loop.Trigger, logger)
	if err := keys.Bind(bindings); err != nil {
		logger.Warn("some hotkeys were not bound", "error", err)
	}

	reload := func() {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := loop.Reload(rctx); err != nil {
			logger.Error("reload failed", "error", err)
		}
	}

	super := NewSupervisor(logger)
	Add(super, loop)
	Add(super, x11.NewListener(conn, func(ev x11.Event) { loop.Post(FromX11(ev)) }, logger))
	Add(super, ipc.NewServer(socketPath, loop, logger))
	if interval := cfg.ReconcileInterval(); interval > 0 {
		Add(super, NewReconciler(ReconcilerConfig{Interval: interval, Logger: logger}, loop.Reconcile))
	}
	if _, err := os.Stat(configPath); err == nil {
		Add(super, config.NewWatcher(configPath, reload, logger))
	}
	Add(super, NewServiceFunc("sighup", func(ctx context.Context) error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-hup:
				logger.Info("SIGHUP received, reloading")
				reload()
			}
		}
	}))

	logger.Info("daemon started", "config", configPath, "socket", socketPath)
	err = super.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

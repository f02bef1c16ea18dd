//go:build !linux

package daemon

import (
	"context"
	"errors"
	"log/slog"
)

// Options configures Run.
type Options struct {
	ConfigPath string
	SocketPath string
	Logger     *slog.Logger
}

// Run is only supported on Linux with an X11 session.
func Run(ctx context.Context, opts Options) error {
	return errors.New("mondrian daemon requires Linux with an X11 session")
}

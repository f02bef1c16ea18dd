package tiles

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoWindow is returned when an operation has no focused or target window.
	ErrNoWindow = errors.New("no window")
	// ErrWindowAlreadyAdded is returned when a window is already managed.
	ErrWindowAlreadyAdded = errors.New("window already added")
	// ErrNoWindowsInfo is returned when the window system could not be queried.
	ErrNoWindowsInfo = errors.New("window information unavailable")
	// ErrWinNotManaged is returned for windows the manager does not track.
	ErrWinNotManaged = errors.New("window not managed")
	// ErrNoContainerAtPoint is returned when no monitor covers a point.
	ErrNoContainerAtPoint = errors.New("no container at point")
)

// ContainerNotFoundError reports a missing container. When Refresh is set the
// caller should recompute the whole layout since bookkeeping and the window
// system may have drifted apart.
type ContainerNotFoundError struct {
	Key     ContainerKey
	Refresh bool
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("container not found: %s", e.Key)
}

// VDError wraps a virtual desktop query failure.
type VDError struct {
	Err error
}

func (e *VDError) Error() string {
	return fmt.Sprintf("virtual desktop: %v", e.Err)
}

func (e *VDError) Unwrap() error { return e.Err }

// NeedsRefresh reports whether err asks for a full layout update.
func NeedsRefresh(err error) bool {
	var cnf *ContainerNotFoundError
	return errors.As(err, &cnf) && cnf.Refresh
}

// Severity returns the log level an operation error deserves.
func Severity(err error) slog.Level {
	var cnf *ContainerNotFoundError
	var vd *VDError
	switch {
	case err == nil:
		return slog.LevelDebug
	case errors.Is(err, ErrNoWindow),
		errors.Is(err, ErrWindowAlreadyAdded),
		errors.Is(err, ErrWinNotManaged),
		errors.Is(err, ErrNoContainerAtPoint):
		return slog.LevelDebug
	case errors.Is(err, ErrNoWindowsInfo), errors.As(err, &cnf):
		return slog.LevelWarn
	case errors.As(err, &vd):
		return slog.LevelError
	}
	return slog.LevelError
}

package daemon

import (
	"fmt"

	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/tiles"
)

// runAction executes a user action. Actions that need a window use the
// focused one when window is zero.
func (l *Loop) runAction(a ipc.Action, window tiles.WindowID) error {
	l.logger.Debug("action", "action", a.String(), "window", window)

	switch a.Kind {
	case ipc.ActionFocus:
		res, err := l.manager.FocusNeighbor(a.Direction)
		return l.apply(a.String(), res, err)
	case ipc.ActionPeek:
		ratio := l.cfg.General.PeekRatio
		if a.Amount > 0 {
			ratio = float64(a.Amount)
		}
		res, err := l.manager.Peek("", a.Direction, ratio)
		return l.apply(a.String(), res, err)
	case ipc.ActionPause:
		paused := !l.manager.Paused()
		l.manager.PauseUpdates(paused)
		l.logger.Info("layout updates", "paused", paused)
		if !paused {
			return l.manager.UpdateLayout(false, nil)
		}
		return nil
	case ipc.ActionRetile:
		l.reconcile()
		return l.manager.UpdateLayout(false, nil)
	case ipc.ActionReload:
		return l.reload()
	}

	win, err := l.target(window)
	if err != nil {
		return err
	}

	var res tiles.Result
	switch a.Kind {
	case ipc.ActionSwap:
		res, err = l.manager.MoveInDirection(win, a.Direction, false)
	case ipc.ActionMove:
		res, err = l.manager.MoveInDirection(win, a.Direction, true)
	case ipc.ActionResize:
		px := a.Amount
		if px == 0 {
			px = l.cfg.General.ResizeStep
		}
		res, err = l.manager.ResizeDirection(win, a.Direction, px)
	case ipc.ActionFocalize:
		res, err = l.manager.Focalize(win)
	case ipc.ActionHalfFocalize:
		res, err = l.manager.HalfFocalize(win)
	case ipc.ActionRelease:
		res, err = l.manager.Release(win)
	case ipc.ActionMaximize:
		res, err = l.manager.AsMaximized(win)
	case ipc.ActionInvert:
		res, err = l.manager.Invert(win)
	case ipc.ActionClose:
		return l.backend.Close(win)
	default:
		return fmt.Errorf("unsupported action %q", a.Kind)
	}
	return l.apply(a.String(), res, err)
}

// target returns window, or the focused window when window is zero.
func (l *Loop) target(window tiles.WindowID) (tiles.WindowID, error) {
	if window != 0 {
		return window, nil
	}
	active, err := l.backend.ActiveWindow()
	if err != nil || active == 0 {
		return 0, tiles.ErrNoWindow
	}
	return active, nil
}

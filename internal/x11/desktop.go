package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value of windows shown on every
// desktop.
const stickyDesktop = 0xFFFFFFFF

// sourcePager marks client messages as direct user actions.
const sourcePager = 2

// CurrentDesktop returns the current virtual desktop (_NET_CURRENT_DESKTOP).
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get current desktop: %w", err)
	}
	return int(desktop), nil
}

// WindowDesktop returns the desktop of win, or -1 when it is sticky.
func (c *Connection) WindowDesktop(win xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, win)
	if err != nil {
		return 0, fmt.Errorf("get desktop of window %d: %w", win, err)
	}
	if desktop == stickyDesktop {
		return -1, nil
	}
	return int(desktop), nil
}

// DesktopCount returns the number of virtual desktops.
func (c *Connection) DesktopCount() (int, error) {
	count, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get desktop count: %w", err)
	}
	return int(count), nil
}

// SetWindowDesktop asks the window manager to move win to desktop.
func (c *Connection) SetWindowDesktop(win xproto.Window, desktop int) error {
	if err := c.sendRootMessage(win, "_NET_WM_DESKTOP", uint32(desktop), sourcePager); err != nil {
		return fmt.Errorf("move window %d to desktop %d: %w", win, desktop, err)
	}
	return nil
}

// FocusWindow activates and raises win through _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(win xproto.Window) error {
	if err := c.sendRootMessage(win, "_NET_ACTIVE_WINDOW", sourcePager); err != nil {
		return fmt.Errorf("focus window %d: %w", win, err)
	}
	return nil
}

// ActiveWindow returns the focused client window.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// Package x11 talks to the X server through xgb/xgbutil: EWMH desktops,
// RandR monitors, client window operations and the event listener.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection wraps the xgbutil connection and the root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
	randr bool
}

// NewConnection connects to $DISPLAY and initializes keybind and RandR.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	keybind.Initialize(xu)

	c := &Connection{XUtil: xu, Root: xu.RootWin()}
	if err := randr.Init(xu.Conn()); err == nil {
		c.randr = true
	}
	return c, nil
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// HasRandR reports whether the RandR extension is available.
func (c *Connection) HasRandR() bool {
	return c.randr
}

// sendRootMessage sends an EWMH client message about win to the root window.
// The messages are built by hand because the xgbutil ewmh request helpers
// panic with this library version on some atoms.
func (c *Connection) sendRootMessage(win xproto.Window, atom string, data ...uint32) error {
	typ, err := xprop.Atm(c.XUtil, atom)
	if err != nil {
		return fmt.Errorf("intern %s: %w", atom, err)
	}
	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

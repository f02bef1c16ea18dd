package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

const (
	stateRemove = 0
	stateAdd    = 1
)

const iconicState = 3

// Clients returns the managed client windows (_NET_CLIENT_LIST).
func (c *Connection) Clients() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get client list: %w", err)
	}
	return clients, nil
}

// Geometry returns the outer area of win in root coordinates, frame
// decorations included.
func (c *Connection) Geometry(win xproto.Window) (tiling.Area, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return tiling.Area{}, fmt.Errorf("get geometry of window %d: %w", win, err)
	}
	pos, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return tiling.Area{}, fmt.Errorf("translate coordinates of window %d: %w", win, err)
	}
	left, right, top, bottom := c.FrameExtents(win)
	return tiling.NewArea(
		int(pos.DstX)-left,
		int(pos.DstY)-top,
		int(geom.Width)+left+right,
		int(geom.Height)+top+bottom,
	), nil
}

// MoveResize places the outer frame of win on area.
func (c *Connection) MoveResize(win xproto.Window, area tiling.Area) error {
	// A maximized window ignores geometry requests with most window managers.
	c.unmaximize(win)

	left, right, top, bottom := c.FrameExtents(win)
	width := max(area.Width-left-right, 1)
	height := max(area.Height-top-bottom, 1)
	if err := ewmh.MoveresizeWindow(c.XUtil, win, area.X, area.Y, width, height); err != nil {
		xwindow.New(c.XUtil, win).MoveResize(area.X, area.Y, width, height)
	}
	return nil
}

func (c *Connection) unmaximize(win xproto.Window) {
	for _, state := range []string{"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"} {
		if c.HasState(win, state) {
			ewmh.WmStateReq(c.XUtil, win, stateRemove, state)
		}
	}
}

// FrameExtents returns the decoration sizes of win, zero when unknown.
func (c *Connection) FrameExtents(win xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// States returns the _NET_WM_STATE atoms of win.
func (c *Connection) States(win xproto.Window) []string {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return nil
	}
	return states
}

// HasState reports whether win carries the given _NET_WM_STATE atom.
func (c *Connection) HasState(win xproto.Window, state string) bool {
	for _, s := range c.States(win) {
		if s == state {
			return true
		}
	}
	return false
}

// IsHidden reports whether win is minimized.
func (c *Connection) IsHidden(win xproto.Window) bool {
	return c.HasState(win, "_NET_WM_STATE_HIDDEN")
}

// IsMapped reports whether win is viewable.
func (c *Connection) IsMapped(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// IsNormalWindow reports whether win is an ordinary application window.
// Windows without a type are treated as normal.
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_TOOLBAR", "_NET_WM_WINDOW_TYPE_MENU":
			return false
		}
	}
	return len(types) == 0
}

// IsTransient reports whether win declares a parent through
// WM_TRANSIENT_FOR.
func (c *Connection) IsTransient(win xproto.Window) bool {
	parent, err := icccm.WmTransientForGet(c.XUtil, win)
	return err == nil && parent != 0
}

// Minimize iconifies win through WM_CHANGE_STATE.
func (c *Connection) Minimize(win xproto.Window) error {
	if err := c.sendRootMessage(win, "WM_CHANGE_STATE", iconicState); err != nil {
		return fmt.Errorf("minimize window %d: %w", win, err)
	}
	return nil
}

// Restore maps an iconified window again without focusing it.
func (c *Connection) Restore(win xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), win).Check(); err != nil {
		return fmt.Errorf("restore window %d: %w", win, err)
	}
	return nil
}

// SetAbove adds or removes _NET_WM_STATE_ABOVE on win.
func (c *Connection) SetAbove(win xproto.Window, above bool) error {
	action := stateRemove
	if above {
		action = stateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, win, action, "_NET_WM_STATE_ABOVE"); err != nil {
		return fmt.Errorf("set above on window %d: %w", win, err)
	}
	return nil
}

// CloseWindow asks win to close itself through WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(win xproto.Window) error {
	protocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	del, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(del), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// Class returns the WM_CLASS class of win.
func (c *Connection) Class(win xproto.Window) string {
	class, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(class.Class)
}

// Title returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// PID returns _NET_WM_PID, zero when unset.
func (c *Connection) PID(win xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, win)
	if err != nil {
		return 0
	}
	return int(pid)
}

// Pointer returns the cursor position in root coordinates.
func (c *Connection) Pointer() (tiling.Point, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return tiling.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return tiling.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

// ButtonsDown reports whether a mouse button is held.
func (c *Connection) ButtonsDown() bool {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return false
	}
	const buttons = xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2 | xproto.KeyButMaskButton3
	return reply.Mask&buttons != 0
}

//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/policastro/mondrian-sub000/internal/tiling"
	"github.com/policastro/mondrian-sub000/internal/x11"
)

// LinuxBackend implements Backend over an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a new X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

// Conn returns the underlying X11 connection.
func (b *LinuxBackend) Conn() *x11.Connection {
	return b.conn
}

// Disconnect closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, errors.New("x11 backend connection is nil")
	}
	return b.conn, nil
}

// Displays returns the monitors, primary first and then by position.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{ID: m.Name, Primary: m.Primary, Bounds: m.Bounds, WorkArea: m.WorkArea})
	}
	sort.SliceStable(displays, func(i, j int) bool {
		if displays[i].Primary != displays[j].Primary {
			return displays[i].Primary
		}
		if displays[i].Bounds.X != displays[j].Bounds.X {
			return displays[i].Bounds.X < displays[j].Bounds.X
		}
		return displays[i].Bounds.Y < displays[j].Bounds.Y
	})
	return displays, nil
}

// ActiveWindow returns the focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// Candidates lists the manageable client windows.
func (b *LinuxBackend) Candidates() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.Clients()
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(clients))
	for _, win := range clients {
		id := WindowID(win)
		if !b.Manageable(id) {
			continue
		}
		info, err := b.WindowInfo(id)
		if err != nil {
			continue
		}
		windows = append(windows, info)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].ID < windows[j].ID })
	return windows, nil
}

// Manageable reports whether id is a normal, non-transient, non-fullscreen
// window.
func (b *LinuxBackend) Manageable(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	win := xproto.Window(id)
	if !conn.IsNormalWindow(win) || conn.IsTransient(win) {
		return false
	}
	return !conn.HasState(win, "_NET_WM_STATE_FULLSCREEN") && !conn.HasState(win, "_NET_WM_STATE_SKIP_TASKBAR")
}

// Pointer returns the cursor position.
func (b *LinuxBackend) Pointer() (tiling.Point, error) {
	conn, err := b.connection()
	if err != nil {
		return tiling.Point{}, err
	}
	return conn.Pointer()
}

// ButtonsDown reports whether a mouse button is held.
func (b *LinuxBackend) ButtonsDown() bool {
	conn, err := b.connection()
	return err == nil && conn.ButtonsDown()
}

// WindowArea returns the outer area of id.
func (b *LinuxBackend) WindowArea(id WindowID) (tiling.Area, error) {
	conn, err := b.connection()
	if err != nil {
		return tiling.Area{}, err
	}
	return conn.Geometry(xproto.Window(id))
}

// WindowCenter returns the center of the outer area of id.
func (b *LinuxBackend) WindowCenter(id WindowID) (tiling.Point, error) {
	area, err := b.WindowArea(id)
	if err != nil {
		return tiling.Point{}, err
	}
	return area.Center(), nil
}

// IsVisible reports whether id is mapped.
func (b *LinuxBackend) IsVisible(id WindowID) bool {
	conn, err := b.connection()
	return err == nil && conn.IsMapped(xproto.Window(id))
}

// IsIconic reports whether id is minimized.
func (b *LinuxBackend) IsIconic(id WindowID) bool {
	conn, err := b.connection()
	return err == nil && conn.IsHidden(xproto.Window(id))
}

func (b *LinuxBackend) Focus(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(id))
}

func (b *LinuxBackend) Minimize(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Minimize(xproto.Window(id))
}

func (b *LinuxBackend) Restore(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Restore(xproto.Window(id))
}

func (b *LinuxBackend) MoveResize(id WindowID, area tiling.Area) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResize(xproto.Window(id), area)
}

// SetTopmost keeps id above the tiled windows.
func (b *LinuxBackend) SetTopmost(id WindowID, topmost bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetAbove(xproto.Window(id), topmost)
}

// WindowInfo returns the metadata of id.
func (b *LinuxBackend) WindowInfo(id WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}
	win := xproto.Window(id)
	area, err := conn.Geometry(win)
	if err != nil {
		return Window{}, fmt.Errorf("window %d: %w", id, err)
	}
	return Window{
		ID:     id,
		PID:    conn.PID(win),
		AppID:  conn.Class(win),
		Title:  conn.Title(win),
		Bounds: area,
	}, nil
}

// Close asks id to close.
func (b *LinuxBackend) Close(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(id))
}

func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.CurrentDesktop()
}

// WindowDesktop returns the desktop of id, -1 for sticky windows.
func (b *LinuxBackend) WindowDesktop(id WindowID) (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.WindowDesktop(xproto.Window(id))
}

func (b *LinuxBackend) MoveToDesktop(id WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowDesktop(xproto.Window(id), desktop)
}

// Package platform describes the window system capabilities the daemon
// needs and implements them for X11.
package platform

import "github.com/policastro/mondrian-sub000/internal/tiling"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display is a monitor and the part of it windows may be tiled on.
type Display struct {
	// ID is stable across reconfigurations (the output name on X11).
	ID       string
	Primary  bool
	Bounds   tiling.Area
	WorkArea tiling.Area
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds tiling.Area
}

// Backend abstracts window-system operations.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	// Candidates lists the windows that may be tiled, on every desktop.
	Candidates() ([]Window, error)
	Manageable(id WindowID) bool
	Pointer() (tiling.Point, error)
	ButtonsDown() bool

	WindowArea(id WindowID) (tiling.Area, error)
	WindowCenter(id WindowID) (tiling.Point, error)
	IsVisible(id WindowID) bool
	IsIconic(id WindowID) bool
	Focus(id WindowID) error
	Minimize(id WindowID) error
	Restore(id WindowID) error
	MoveResize(id WindowID, area tiling.Area) error
	SetTopmost(id WindowID, topmost bool) error
	WindowInfo(id WindowID) (Window, error)
	Close(id WindowID) error

	CurrentDesktop() (int, error)
	WindowDesktop(id WindowID) (int, error)
	MoveToDesktop(id WindowID, desktop int) error
}

package tiles

import (
	"fmt"

	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// WindowID identifies a window.
type WindowID = platform.WindowID

// Tree is the area tree used for every layer.
type Tree = tiling.AreaTree[WindowID]

// ContainerKey identifies the container of a monitor on a virtual desktop.
type ContainerKey struct {
	Desktop int
	Monitor string
}

func (k ContainerKey) String() string {
	return fmt.Sprintf("%s@%d", k.Monitor, k.Desktop)
}

// Monitor is a physical output and the area windows may be tiled in.
type Monitor struct {
	ID       string
	WorkArea tiling.Area
}

// WindowTileState is the way a managed window is laid out.
type WindowTileState int

const (
	StateNormal WindowTileState = iota
	StateFloating
	StateMaximized
	StateFocalized
	StateHalfFocalized
)

func (s WindowTileState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateFloating:
		return "floating"
	case StateMaximized:
		return "maximized"
	case StateFocalized:
		return "focalized"
	case StateHalfFocalized:
		return "half_focalized"
	}
	return "unknown"
}

// FloatingProperties is what the manager remembers about a floating window.
type FloatingProperties struct {
	Minimized bool
	// Locked is set when a window rule made the window float; Release does
	// not tile it back.
	Locked bool
}

// ResultKind tells the caller what an operation requires.
type ResultKind int

const (
	// NoChange means nothing has to be redrawn.
	NoChange ResultKind = iota
	// LayoutChanged asks for a full layout update.
	LayoutChanged
	// Queue asks to place one window directly, bypassing the trees.
	Queue
	// Dequeue means a directly placed window went back to the trees.
	Dequeue
)

func (k ResultKind) String() string {
	switch k {
	case LayoutChanged:
		return "layout_changed"
	case Queue:
		return "queue"
	case Dequeue:
		return "dequeue"
	}
	return "no_change"
}

// Result is returned by every manager operation.
type Result struct {
	Kind    ResultKind
	Window  WindowID
	Area    tiling.Area
	Topmost bool
}

var (
	resultNoChange      = Result{Kind: NoChange}
	resultLayoutChanged = Result{Kind: LayoutChanged}
)

// Move is one window placement emitted by a layout update.
type Move struct {
	Window  WindowID
	From    tiling.Area
	To      tiling.Area
	Topmost bool
}

// Windows is the per-window capability set the manager needs from the
// window system.
type Windows interface {
	WindowArea(id WindowID) (tiling.Area, error)
	WindowCenter(id WindowID) (tiling.Point, error)
	IsVisible(id WindowID) bool
	IsIconic(id WindowID) bool
	Focus(id WindowID) error
	Minimize(id WindowID) error
	Restore(id WindowID) error
	MoveResize(id WindowID, area tiling.Area) error
	SetTopmost(id WindowID, topmost bool) error
	WindowInfo(id WindowID) (platform.Window, error)
}

// Desktops exposes the virtual desktops of the window system.
type Desktops interface {
	CurrentDesktop() (int, error)
	WindowDesktop(id WindowID) (int, error)
	MoveToDesktop(id WindowID, desktop int) error
}

// Mover applies window placements, possibly animated.
type Mover interface {
	Move(moves []Move, animate bool) error
	Cancel()
}

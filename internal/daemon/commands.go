package daemon

import (
	"github.com/policastro/mondrian-sub000/internal/animation"
	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/tiles"
	"github.com/policastro/mondrian-sub000/internal/x11"
)

// EventKind classifies window system events.
type EventKind int

const (
	WindowOpened EventKind = iota
	WindowClosed
	WindowConfigured
	WindowStateChanged
	WindowFocused
	DesktopChanged
	MonitorsChanged
)

func (k EventKind) String() string {
	switch k {
	case WindowOpened:
		return "window_opened"
	case WindowClosed:
		return "window_closed"
	case WindowConfigured:
		return "window_configured"
	case WindowStateChanged:
		return "window_state_changed"
	case WindowFocused:
		return "window_focused"
	case DesktopChanged:
		return "desktop_changed"
	case MonitorsChanged:
		return "monitors_changed"
	}
	return "unknown"
}

// Event is a window system notification.
type Event struct {
	Kind   EventKind
	Window tiles.WindowID
}

var x11Kinds = map[x11.EventKind]EventKind{
	x11.WindowOpened:       WindowOpened,
	x11.WindowClosed:       WindowClosed,
	x11.WindowConfigured:   WindowConfigured,
	x11.WindowStateChanged: WindowStateChanged,
	x11.WindowFocused:      WindowFocused,
	x11.DesktopChanged:     DesktopChanged,
	x11.MonitorsChanged:    MonitorsChanged,
}

// FromX11 translates an X11 listener event.
func FromX11(ev x11.Event) Event {
	return Event{Kind: x11Kinds[ev.Kind], Window: tiles.WindowID(ev.Window)}
}

// command is anything the loop goroutine processes.
type command interface {
	name() string
}

type eventCommand struct{ ev Event }

type actionCommand struct {
	action ipc.Action
	window tiles.WindowID
	reply  chan error
}

type reloadCommand struct{ reply chan error }

type queryCommand struct {
	fn   func()
	done chan struct{}
}

type gestureCheck struct {
	window tiles.WindowID
	gen    uint64
}

type animationDone struct{ done animation.Done }

type reconcileCommand struct{}

func (c eventCommand) name() string { return c.ev.Kind.String() }
func (c actionCommand) name() string { return c.action.String() }
func (reloadCommand) name() string { return "reload" }
func (queryCommand) name() string { return "query" }
func (gestureCheck) name() string { return "gesture_check" }
func (animationDone) name() string { return "animation_done" }
func (reconcileCommand) name() string { return "reconcile" }

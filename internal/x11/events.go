package x11

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EventKind classifies the window system events the daemon reacts to.
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

// Event is a translated X event.
type Event struct {
	Kind   EventKind
	Window xproto.Window
}

// Listener translates X events into Events. Client windows are tracked
// through _NET_CLIENT_LIST so reparenting window managers work the same as
// non-reparenting ones.
type Listener struct {
	conn   *Connection
	sink   func(Event)
	logger *slog.Logger

	mu      sync.Mutex
	clients map[xproto.Window]struct{}
}

// NewListener creates a listener delivering events to sink. sink runs on
// the X event goroutine.
func NewListener(conn *Connection, sink func(Event), logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		conn:    conn,
		sink:    sink,
		logger:  logger.With("component", "x11"),
		clients: make(map[xproto.Window]struct{}),
	}
}

func (l *Listener) String() string { return "x11-listener" }

// Serve runs the X event loop until ctx is done.
func (l *Listener) Serve(ctx context.Context) error {
	xu := l.conn.XUtil
	root := xwindow.New(xu, l.conn.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(l.onRootProperty).Connect(xu, l.conn.Root)

	if l.conn.randr {
		randr.SelectInput(xu.Conn(), l.conn.Root, randr.NotifyMaskScreenChange)
		xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
			if _, ok := ev.(randr.ScreenChangeNotifyEvent); ok {
				l.emit(Event{Kind: MonitorsChanged})
			}
			return true
		}).Connect(xu)
	}

	clients, err := l.conn.Clients()
	if err != nil {
		return err
	}
	for _, win := range clients {
		l.track(win)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		xevent.Main(xu)
	}()

	select {
	case <-ctx.Done():
		xevent.Quit(xu)
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (l *Listener) emit(ev Event) {
	l.logger.Debug("x event", "kind", ev.Kind, "window", ev.Window)
	l.sink(ev)
}

func (l *Listener) onRootProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	switch name {
	case "_NET_CLIENT_LIST":
		l.syncClients()
	case "_NET_ACTIVE_WINDOW":
		if win, err := l.conn.ActiveWindow(); err == nil && win != 0 {
			l.emit(Event{Kind: WindowFocused, Window: win})
		}
	case "_NET_CURRENT_DESKTOP":
		l.emit(Event{Kind: DesktopChanged})
	case "_NET_WORKAREA":
		l.emit(Event{Kind: MonitorsChanged})
	}
}

// syncClients diffs the client list against the tracked windows.
func (l *Listener) syncClients() {
	clients, err := l.conn.Clients()
	if err != nil {
		l.logger.Warn("client list unavailable", "error", err)
		return
	}
	current := make(map[xproto.Window]struct{}, len(clients))
	for _, win := range clients {
		current[win] = struct{}{}
		if l.track(win) {
			l.emit(Event{Kind: WindowOpened, Window: win})
		}
	}

	l.mu.Lock()
	var gone []xproto.Window
	for win := range l.clients {
		if _, ok := current[win]; !ok {
			gone = append(gone, win)
			delete(l.clients, win)
		}
	}
	l.mu.Unlock()

	for _, win := range gone {
		xevent.Detach(l.conn.XUtil, win)
		l.emit(Event{Kind: WindowClosed, Window: win})
	}
}

// track starts listening on win. It reports whether win was new.
func (l *Listener) track(win xproto.Window) bool {
	l.mu.Lock()
	if _, ok := l.clients[win]; ok {
		l.mu.Unlock()
		return false
	}
	l.clients[win] = struct{}{}
	l.mu.Unlock()

	xu := l.conn.XUtil
	if err := xwindow.New(xu, win).Listen(xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange); err != nil {
		l.logger.Debug("cannot listen on window", "window", win, "error", err)
	}
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		l.emit(Event{Kind: WindowConfigured, Window: ev.Window})
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if name, err := xprop.AtomName(xu, ev.Atom); err == nil && (name == "_NET_WM_STATE" || name == "_NET_WM_DESKTOP") {
			l.emit(Event{Kind: WindowStateChanged, Window: ev.Window})
		}
	}).Connect(xu, win)
	return true
}

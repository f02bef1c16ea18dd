// Package hotkeys binds global key sequences to layout actions.
package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/x11"
)

// Binding is a key sequence such as "Mod4-Shift-h" and its action.
type Binding struct {
	Keys   string
	Action ipc.Action
}

// Parse validates every command of bindings and returns them sorted by
// key sequence.
func Parse(bindings map[string]string) ([]Binding, error) {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	out := make([]Binding, 0, len(keys))
	for _, k := range keys {
		a, err := ipc.ParseAction(bindings[k])
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %s: %w", k, err))
			continue
		}
		out = append(out, Binding{Keys: k, Action: a})
	}
	return out, errors.Join(errs...)
}

// Handler manages global keyboard shortcuts. Callbacks run on the X event
// goroutine, so trigger must not block.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	trigger func(ipc.Action)
	logger  *slog.Logger

	mu    sync.Mutex
	bound []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, trigger func(ipc.Action), logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})
	return &Handler{
		xu:      conn.XUtil,
		root:    conn.Root,
		trigger: trigger,
		logger:  logger.With("component", "hotkeys"),
	}
}

// Bind replaces the current bindings. Sequences that cannot be grabbed are
// skipped and reported together.
func (h *Handler) Bind(bindings []Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.Detach(h.xu, h.root)
	h.bound = h.bound[:0]

	var errs []error
	for _, b := range bindings {
		action := b.Action
		err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			h.logger.Debug("hotkey", "action", action.String())
			h.trigger(action)
		}).Connect(h.xu, h.root, b.Keys, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("bind %s: %w", b.Keys, err))
			continue
		}
		h.bound = append(h.bound, b.Keys)
	}
	h.logger.Info("hotkeys bound", "count", len(h.bound))
	return errors.Join(errs...)
}

// Bound returns the key sequences currently grabbed.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the lock modifiers in base,
// including none.
func ignoreMasks(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}
	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

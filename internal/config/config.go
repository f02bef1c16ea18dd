package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// GoldenRatio configures the golden_ratio strategy.
type GoldenRatio struct {
	Clockwise bool    `yaml:"clockwise"`
	Vertical  bool    `yaml:"vertical"`
	Ratio     float64 `yaml:"ratio"` // first split, 10-90
}

// MonoAxis configures the mono_axis_* strategies.
type MonoAxis struct {
	GrowFirst bool `yaml:"grow_first"`
}

// TwoStep configures the two_step strategy.
type TwoStep struct {
	First  string  `yaml:"first"`  // left, right, up, down
	Second string  `yaml:"second"` // must be on the other axis
	Ratio  float64 `yaml:"ratio"`
}

// Layout selects the tiling strategy and the spacing around tiles.
type Layout struct {
	Strategy         string      `yaml:"strategy"`
	GoldenRatio      GoldenRatio `yaml:"golden_ratio"`
	MonoAxis         MonoAxis    `yaml:"mono_axis"`
	TwoStep          TwoStep     `yaml:"two_step"`
	TilesPadding     int         `yaml:"tiles_padding"`
	BorderPadding    int         `yaml:"border_padding"`
	FocalizedPadding int         `yaml:"focalized_padding"`
	InsertThreshold  int         `yaml:"insert_threshold"` // percent, 0-50
}

// MoveBehavior values.
const (
	MoveBehaviorSwap   = "swap"
	MoveBehaviorInsert = "insert"
)

// General holds the daemon behaviour knobs.
type General struct {
	MoveBehavior      string  `yaml:"move_behavior"`
	FreeMoveInMonitor bool    `yaml:"free_move_in_monitor"`
	MinFloatingDim    int     `yaml:"min_floating_dim"`
	NearEdge          int     `yaml:"near_edge"` // pixels from a tile border that insert instead of swap
	FocusHistorySize  int     `yaml:"focus_history_size"`
	GestureDebounceMs int     `yaml:"gesture_debounce_ms"`
	ReconcileInterval int     `yaml:"reconcile_interval_s"` // 0 disables the reconciler
	DesktopRefresh    bool    `yaml:"desktop_refresh"`      // reconciler also re-reads the current desktop
	ResizeStep        int     `yaml:"resize_step"`          // pixels per keyboard resize
	PeekRatio         float64 `yaml:"peek_ratio"`           // percent of the monitor uncovered by peek
}

// Animation configures window transitions.
type Animation struct {
	Enabled    bool   `yaml:"enabled"`
	Type       string `yaml:"type"`
	DurationMs int    `yaml:"duration_ms"`
	FPS        int    `yaml:"fps"`
}

// Rule changes how matching windows are managed. Class and Title are
// regular expressions; at least one must be set.
type Rule struct {
	Class   string `yaml:"class,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Float   bool   `yaml:"float,omitempty"`
	Monitor string `yaml:"monitor,omitempty"`
	Desktop *int   `yaml:"desktop,omitempty"`
}

// Config is the effective configuration.
type Config struct {
	Layout    Layout            `yaml:"layout"`
	General   General           `yaml:"general"`
	Animation Animation         `yaml:"animation"`
	Rules     []Rule            `yaml:"rules,omitempty"`
	Hotkeys   map[string]string `yaml:"hotkeys,omitempty"`
	Ignore    []string          `yaml:"ignore,omitempty"`
	LogLevel  string            `yaml:"log_level"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Layout: Layout{
			Strategy:         "golden_ratio",
			GoldenRatio:      GoldenRatio{Clockwise: true, Vertical: true, Ratio: 50},
			TwoStep:          TwoStep{First: "right", Second: "down", Ratio: 50},
			TilesPadding:     4,
			BorderPadding:    4,
			FocalizedPadding: 40,
			InsertThreshold:  25,
		},
		General: General{
			MoveBehavior:      MoveBehaviorSwap,
			MinFloatingDim:    250,
			NearEdge:          20,
			FocusHistorySize:  16,
			GestureDebounceMs: 250,
			ReconcileInterval: 5,
			DesktopRefresh:    true,
			ResizeStep:        50,
			PeekRatio:         30,
		},
		Animation: Animation{
			Enabled:    false,
			Type:       "ease_out_cubic",
			DurationMs: 180,
			FPS:        60,
		},
		Hotkeys: map[string]string{
			"Mod4-h":       "focus left",
			"Mod4-l":       "focus right",
			"Mod4-k":       "focus up",
			"Mod4-j":       "focus down",
			"Mod4-Shift-h": "swap left",
			"Mod4-Shift-l": "swap right",
			"Mod4-Shift-k": "swap up",
			"Mod4-Shift-j": "swap down",
			"Mod4-f":       "focalize",
			"Mod4-Shift-f": "half-focalize",
			"Mod4-m":       "maximize",
			"Mod4-space":   "release",
			"Mod4-i":       "invert",
		},
		LogLevel: "info",
	}
}

// HotkeyKeys returns the bound key sequences in lexical order.
func (c *Config) HotkeyKeys() []string {
	return sortedKeys(c.Hotkeys)
}

// Write saves cfg as YAML to path, creating the directory if needed.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

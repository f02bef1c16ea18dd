package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "rules.yaml"
//	  - "conf.d"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// The Raw types mirror the file layout. A nil field was not written by any
// file and keeps its default.

type RawGoldenRatio struct {
	Clockwise *bool    `yaml:"clockwise"`
	Vertical  *bool    `yaml:"vertical"`
	Ratio     *float64 `yaml:"ratio"`
}

type RawMonoAxis struct {
	GrowFirst *bool `yaml:"grow_first"`
}

type RawTwoStep struct {
	First  *string  `yaml:"first"`
	Second *string  `yaml:"second"`
	Ratio  *float64 `yaml:"ratio"`
}

type RawLayout struct {
	Strategy         *string         `yaml:"strategy"`
	GoldenRatio      *RawGoldenRatio `yaml:"golden_ratio"`
	MonoAxis         *RawMonoAxis    `yaml:"mono_axis"`
	TwoStep          *RawTwoStep     `yaml:"two_step"`
	TilesPadding     *int            `yaml:"tiles_padding"`
	BorderPadding    *int            `yaml:"border_padding"`
	FocalizedPadding *int            `yaml:"focalized_padding"`
	InsertThreshold  *int            `yaml:"insert_threshold"`
}

type RawGeneral struct {
	MoveBehavior      *string  `yaml:"move_behavior"`
	FreeMoveInMonitor *bool    `yaml:"free_move_in_monitor"`
	MinFloatingDim    *int     `yaml:"min_floating_dim"`
	NearEdge          *int     `yaml:"near_edge"`
	FocusHistorySize  *int     `yaml:"focus_history_size"`
	GestureDebounceMs *int     `yaml:"gesture_debounce_ms"`
	ReconcileInterval *int     `yaml:"reconcile_interval_s"`
	DesktopRefresh    *bool    `yaml:"desktop_refresh"`
	ResizeStep        *int     `yaml:"resize_step"`
	PeekRatio         *float64 `yaml:"peek_ratio"`
}

type RawAnimation struct {
	Enabled    *bool   `yaml:"enabled"`
	Type       *string `yaml:"type"`
	DurationMs *int    `yaml:"duration_ms"`
	FPS        *int    `yaml:"fps"`
}

type RawConfig struct {
	Include   IncludeList       `yaml:"include"`
	Layout    *RawLayout        `yaml:"layout"`
	General   *RawGeneral       `yaml:"general"`
	Animation *RawAnimation     `yaml:"animation"`
	Rules     []Rule            `yaml:"rules"`
	Hotkeys   map[string]string `yaml:"hotkeys"`
	Ignore    []string          `yaml:"ignore"`
	LogLevel  *string           `yaml:"log_level"`
}

// merge applies overlay on top of c. Rules and ignore lists accumulate,
// hotkeys are merged per key sequence and an empty command unbinds a key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil
	if overlay.Layout != nil {
		merged := mergeRawLayout(deref(out.Layout), *overlay.Layout)
		out.Layout = &merged
	}
	if overlay.General != nil {
		merged := mergeRawGeneral(deref(out.General), *overlay.General)
		out.General = &merged
	}
	if overlay.Animation != nil {
		merged := mergeRawAnimation(deref(out.Animation), *overlay.Animation)
		out.Animation = &merged
	}
	if len(overlay.Rules) > 0 {
		out.Rules = append(append([]Rule(nil), out.Rules...), overlay.Rules...)
	}
	if len(overlay.Ignore) > 0 {
		out.Ignore = append(append([]string(nil), out.Ignore...), overlay.Ignore...)
	}
	if overlay.Hotkeys != nil {
		hotkeys := make(map[string]string, len(out.Hotkeys)+len(overlay.Hotkeys))
		for k, v := range out.Hotkeys {
			hotkeys[k] = v
		}
		for k, v := range overlay.Hotkeys {
			hotkeys[k] = v
		}
		out.Hotkeys = hotkeys
	}
	out.LogLevel = pick(out.LogLevel, overlay.LogLevel)
	return out
}

func mergeRawLayout(base, overlay RawLayout) RawLayout {
	out := base
	out.Strategy = pick(out.Strategy, overlay.Strategy)
	if overlay.GoldenRatio != nil {
		g := deref(out.GoldenRatio)
		g.Clockwise = pick(g.Clockwise, overlay.GoldenRatio.Clockwise)
		g.Vertical = pick(g.Vertical, overlay.GoldenRatio.Vertical)
		g.Ratio = pick(g.Ratio, overlay.GoldenRatio.Ratio)
		out.GoldenRatio = &g
	}
	if overlay.MonoAxis != nil {
		m := deref(out.MonoAxis)
		m.GrowFirst = pick(m.GrowFirst, overlay.MonoAxis.GrowFirst)
		out.MonoAxis = &m
	}
	if overlay.TwoStep != nil {
		t := deref(out.TwoStep)
		t.First = pick(t.First, overlay.TwoStep.First)
		t.Second = pick(t.Second, overlay.TwoStep.Second)
		t.Ratio = pick(t.Ratio, overlay.TwoStep.Ratio)
		out.TwoStep = &t
	}
	out.TilesPadding = pick(out.TilesPadding, overlay.TilesPadding)
	out.BorderPadding = pick(out.BorderPadding, overlay.BorderPadding)
	out.FocalizedPadding = pick(out.FocalizedPadding, overlay.FocalizedPadding)
	out.InsertThreshold = pick(out.InsertThreshold, overlay.InsertThreshold)
	return out
}

func mergeRawGeneral(base, overlay RawGeneral) RawGeneral {
	out := base
	out.MoveBehavior = pick(out.MoveBehavior, overlay.MoveBehavior)
	out.FreeMoveInMonitor = pick(out.FreeMoveInMonitor, overlay.FreeMoveInMonitor)
	out.MinFloatingDim = pick(out.MinFloatingDim, overlay.MinFloatingDim)
	out.NearEdge = pick(out.NearEdge, overlay.NearEdge)
	out.FocusHistorySize = pick(out.FocusHistorySize, overlay.FocusHistorySize)
	out.GestureDebounceMs = pick(out.GestureDebounceMs, overlay.GestureDebounceMs)
	out.ReconcileInterval = pick(out.ReconcileInterval, overlay.ReconcileInterval)
	out.DesktopRefresh = pick(out.DesktopRefresh, overlay.DesktopRefresh)
	out.ResizeStep = pick(out.ResizeStep, overlay.ResizeStep)
	out.PeekRatio = pick(out.PeekRatio, overlay.PeekRatio)
	return out
}

func mergeRawAnimation(base, overlay RawAnimation) RawAnimation {
	out := base
	out.Enabled = pick(out.Enabled, overlay.Enabled)
	out.Type = pick(out.Type, overlay.Type)
	out.DurationMs = pick(out.DurationMs, overlay.DurationMs)
	out.FPS = pick(out.FPS, overlay.FPS)
	return out
}

// pick returns overlay when it was written, base otherwise.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

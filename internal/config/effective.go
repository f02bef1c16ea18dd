package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/policastro/mondrian-sub000/internal/animation"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(path string, format string, args ...any) error {
	return &ValidationError{Path: path, Err: fmt.Errorf(format, args...)}
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if l := raw.Layout; l != nil {
		setIf(&cfg.Layout.Strategy, l.Strategy)
		if g := l.GoldenRatio; g != nil {
			setIf(&cfg.Layout.GoldenRatio.Clockwise, g.Clockwise)
			setIf(&cfg.Layout.GoldenRatio.Vertical, g.Vertical)
			setIf(&cfg.Layout.GoldenRatio.Ratio, g.Ratio)
		}
		if m := l.MonoAxis; m != nil {
			setIf(&cfg.Layout.MonoAxis.GrowFirst, m.GrowFirst)
		}
		if t := l.TwoStep; t != nil {
			setIf(&cfg.Layout.TwoStep.First, t.First)
			setIf(&cfg.Layout.TwoStep.Second, t.Second)
			setIf(&cfg.Layout.TwoStep.Ratio, t.Ratio)
		}
		setIf(&cfg.Layout.TilesPadding, l.TilesPadding)
		setIf(&cfg.Layout.BorderPadding, l.BorderPadding)
		setIf(&cfg.Layout.FocalizedPadding, l.FocalizedPadding)
		setIf(&cfg.Layout.InsertThreshold, l.InsertThreshold)
	}

	if g := raw.General; g != nil {
		setIf(&cfg.General.MoveBehavior, g.MoveBehavior)
		setIf(&cfg.General.FreeMoveInMonitor, g.FreeMoveInMonitor)
		setIf(&cfg.General.MinFloatingDim, g.MinFloatingDim)
		setIf(&cfg.General.NearEdge, g.NearEdge)
		setIf(&cfg.General.FocusHistorySize, g.FocusHistorySize)
		setIf(&cfg.General.GestureDebounceMs, g.GestureDebounceMs)
		setIf(&cfg.General.ReconcileInterval, g.ReconcileInterval)
		setIf(&cfg.General.DesktopRefresh, g.DesktopRefresh)
		setIf(&cfg.General.ResizeStep, g.ResizeStep)
		setIf(&cfg.General.PeekRatio, g.PeekRatio)
	}

	if a := raw.Animation; a != nil {
		setIf(&cfg.Animation.Enabled, a.Enabled)
		setIf(&cfg.Animation.Type, a.Type)
		setIf(&cfg.Animation.DurationMs, a.DurationMs)
		setIf(&cfg.Animation.FPS, a.FPS)
	}

	cfg.Rules = append(cfg.Rules, raw.Rules...)
	cfg.Ignore = append(cfg.Ignore, raw.Ignore...)
	for key, command := range raw.Hotkeys {
		if command == "" {
			delete(cfg.Hotkeys, key)
			continue
		}
		cfg.Hotkeys[key] = command
	}
	setIf(&cfg.LogLevel, raw.LogLevel)
	return cfg
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every value. The returned error is a *ValidationError
// naming the offending key.
func (c *Config) Validate() error {
	l := c.Layout
	if !slices.Contains(tiling.StrategyNames, l.Strategy) {
		return invalid("layout.strategy", "must be one of %v, got %q", tiling.StrategyNames, l.Strategy)
	}
	if err := checkRatio("layout.golden_ratio.ratio", l.GoldenRatio.Ratio); err != nil {
		return err
	}
	if err := checkRatio("layout.two_step.ratio", l.TwoStep.Ratio); err != nil {
		return err
	}
	first, err := tiling.ParseDirection(l.TwoStep.First)
	if err != nil {
		return &ValidationError{Path: "layout.two_step.first", Err: err}
	}
	second, err := tiling.ParseDirection(l.TwoStep.Second)
	if err != nil {
		return &ValidationError{Path: "layout.two_step.second", Err: err}
	}
	if first.Axis() == second.Axis() {
		return invalid("layout.two_step.second", "must be on a different axis than %q", l.TwoStep.First)
	}
	for _, f := range []struct {
		path  string
		value int
	}{
		{"layout.tiles_padding", l.TilesPadding},
		{"layout.border_padding", l.BorderPadding},
		{"layout.focalized_padding", l.FocalizedPadding},
		{"general.min_floating_dim", c.General.MinFloatingDim},
		{"general.near_edge", c.General.NearEdge},
		{"general.gesture_debounce_ms", c.General.GestureDebounceMs},
		{"general.reconcile_interval_s", c.General.ReconcileInterval},
	} {
		if f.value < 0 {
			return invalid(f.path, "must be >= 0, got %d", f.value)
		}
	}
	if l.InsertThreshold < 0 || l.InsertThreshold > 50 {
		return invalid("layout.insert_threshold", "must be between 0 and 50, got %d", l.InsertThreshold)
	}

	g := c.General
	if g.MoveBehavior != MoveBehaviorSwap && g.MoveBehavior != MoveBehaviorInsert {
		return invalid("general.move_behavior", "must be %q or %q, got %q", MoveBehaviorSwap, MoveBehaviorInsert, g.MoveBehavior)
	}
	if g.FocusHistorySize < 1 {
		return invalid("general.focus_history_size", "must be >= 1, got %d", g.FocusHistorySize)
	}
	if g.ResizeStep < 1 {
		return invalid("general.resize_step", "must be >= 1, got %d", g.ResizeStep)
	}
	if g.PeekRatio <= 0 || g.PeekRatio > 100 {
		return invalid("general.peek_ratio", "must be in (0, 100], got %v", g.PeekRatio)
	}

	a := c.Animation
	if _, err := animation.EasingByName(a.Type); err != nil {
		return &ValidationError{Path: "animation.type", Err: err}
	}
	if a.DurationMs < 1 || a.DurationMs > 5000 {
		return invalid("animation.duration_ms", "must be between 1 and 5000, got %d", a.DurationMs)
	}
	if a.FPS < 1 || a.FPS > 240 {
		return invalid("animation.fps", "must be between 1 and 240, got %d", a.FPS)
	}

	for i, r := range c.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		if r.Class == "" && r.Title == "" {
			return invalid(path, "needs a class or a title")
		}
		if _, err := compileOptional(r.Class); err != nil {
			return &ValidationError{Path: path + ".class", Err: err}
		}
		if _, err := compileOptional(r.Title); err != nil {
			return &ValidationError{Path: path + ".title", Err: err}
		}
		if r.Desktop != nil && *r.Desktop < 0 {
			return invalid(path+".desktop", "must be >= 0, got %d", *r.Desktop)
		}
	}
	for i, pattern := range c.Ignore {
		if _, err := regexp.Compile(pattern); err != nil {
			return &ValidationError{Path: fmt.Sprintf("ignore[%d]", i), Err: err}
		}
	}
	for _, key := range c.HotkeyKeys() {
		if c.Hotkeys[key] == "" {
			return invalid("hotkeys."+key, "command is empty")
		}
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return invalid("log_level", "must be one of %v, got %q", logLevels, c.LogLevel)
	}
	return nil
}

func checkRatio(path string, ratio float64) error {
	if ratio < 10 || ratio > 90 {
		return invalid(path, "must be between 10 and 90, got %v", ratio)
	}
	return nil
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// IsValidationError reports whether err comes from Validate.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/policastro/mondrian-sub000/internal/animation"
	"github.com/policastro/mondrian-sub000/internal/tiles"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// Strategy builds the configured layout strategy.
func (c *Config) Strategy() (tiling.LayoutStrategy, error) {
	l := c.Layout
	params := tiling.DefaultStrategyParams()
	params.Clockwise = l.GoldenRatio.Clockwise
	params.Vertical = l.GoldenRatio.Vertical
	params.Ratio = l.GoldenRatio.Ratio
	params.GrowFirst = l.MonoAxis.GrowFirst
	if l.Strategy == tiling.StrategyTwoStep {
		first, err := tiling.ParseDirection(l.TwoStep.First)
		if err != nil {
			return nil, err
		}
		second, err := tiling.ParseDirection(l.TwoStep.Second)
		if err != nil {
			return nil, err
		}
		params.First, params.Second, params.Ratio = first, second, l.TwoStep.Ratio
	}
	return tiling.NewStrategy(l.Strategy, params)
}

// Settings converts the configuration into manager settings.
func (c *Config) Settings() (tiles.Settings, error) {
	strategy, err := c.Strategy()
	if err != nil {
		return tiles.Settings{}, err
	}
	s := tiles.Settings{
		Strategy:          strategy,
		InsertThreshold:   c.Layout.InsertThreshold,
		TilesPadding:      c.Layout.TilesPadding,
		BorderPadding:     c.Layout.BorderPadding,
		FocalizedPadding:  c.Layout.FocalizedPadding,
		MoveBehavior:      tiles.MoveSwap,
		FreeMoveInMonitor: c.General.FreeMoveInMonitor,
		MinFloatingDim:    c.General.MinFloatingDim,
		FocusHistorySize:  c.General.FocusHistorySize,
		AnimationsEnabled: c.Animation.Enabled,
	}
	if c.General.MoveBehavior == MoveBehaviorInsert {
		s.MoveBehavior = tiles.MoveInsert
	}
	for i, r := range c.Rules {
		rule := tiles.Rule{Float: r.Float, Monitor: r.Monitor, Desktop: -1}
		if rule.Class, err = compileOptional(r.Class); err != nil {
			return tiles.Settings{}, fmt.Errorf("rules[%d].class: %w", i, err)
		}
		if rule.Title, err = compileOptional(r.Title); err != nil {
			return tiles.Settings{}, fmt.Errorf("rules[%d].title: %w", i, err)
		}
		if r.Desktop != nil {
			rule.Desktop = *r.Desktop
		}
		s.Rules = append(s.Rules, rule)
	}
	for i, pattern := range c.Ignore {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return tiles.Settings{}, fmt.Errorf("ignore[%d]: %w", i, err)
		}
		s.Ignore = append(s.Ignore, re)
	}
	return s, nil
}

// AnimationConfig returns the animation player configuration.
func (c *Config) AnimationConfig() animation.Config {
	return animation.Config{
		Easing:   c.Animation.Type,
		Duration: time.Duration(c.Animation.DurationMs) * time.Millisecond,
		FPS:      c.Animation.FPS,
	}
}

// GestureDebounce returns how long geometry changes must settle before a
// user move or resize is handled.
func (c *Config) GestureDebounce() time.Duration {
	return time.Duration(c.General.GestureDebounceMs) * time.Millisecond
}

// ReconcileInterval returns the reconciler period, zero when disabled.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.General.ReconcileInterval) * time.Second
}

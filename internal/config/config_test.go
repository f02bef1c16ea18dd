package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/policastro/mondrian-sub000/internal/tiles"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, err := cfg.Settings(); err != nil {
		t.Fatalf("expected default settings, got %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Layout.Strategy != "golden_ratio" {
		t.Fatalf("expected golden_ratio, got %q", res.Config.Layout.Strategy)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_OverridesAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"layout:",
		"  strategy: two_step",
		"  two_step:",
		"    first: down",
		"    second: right",
		"  tiles_padding: 8",
		"general:",
		"  move_behavior: insert",
		"animation:",
		"  enabled: true",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Layout.TilesPadding != 8 || cfg.Layout.BorderPadding != 4 {
		t.Fatalf("expected padding 8 and default border 4, got %+v", cfg.Layout)
	}
	if cfg.Layout.TwoStep.Ratio != 50 {
		t.Fatalf("unset two_step.ratio should keep its default, got %v", cfg.Layout.TwoStep.Ratio)
	}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.Strategy.Name() != "two_step" || s.MoveBehavior != tiles.MoveInsert || !s.AnimationsEnabled {
		t.Fatalf("unexpected settings %+v", s)
	}

	val, src, err := Explain(res, "layout.tiles_padding")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 8 || src.Kind != SourceFile || src.Line != 6 {
		t.Fatalf("expected 8 from line 6, got %#v %#v", val, src)
	}
	if _, src, _ := Explain(res, "layout.border_padding"); src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
	if _, _, err := Explain(res, "layout.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "layout:\n  strategy: spiral\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Path != "layout.strategy" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error context %#v", verr)
	}
}

func TestLoadFromPath_IncludeOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	confD := filepath.Join(dir, "conf.d")
	if err := os.MkdirAll(confD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(confD, "10-base.yaml"), "layout:\n  tiles_padding: 5\nrules:\n  - class: ^Gimp$\n    float: true\n")
	writeFile(t, filepath.Join(confD, "20-override.yaml"), "layout:\n  tiles_padding: 6\n  border_padding: 9\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - conf.d\nlayout:\n  tiles_padding: 7\nrules:\n  - title: Picture-in-Picture\n    float: true\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Layout.TilesPadding != 7 || res.Config.Layout.BorderPadding != 9 {
		t.Fatalf("unexpected paddings %+v", res.Config.Layout)
	}
	if len(res.Config.Rules) != 2 || res.Config.Rules[0].Class != "^Gimp$" {
		t.Fatalf("expected rules to accumulate in load order, got %+v", res.Config.Rules)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	if _, err := LoadFromPath(a); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_EmptyHotkeyUnbinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hotkeys:\n  Mod4-f: \"\"\n  Mod4-p: peek left\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := res.Config.Hotkeys["Mod4-f"]; ok {
		t.Fatalf("Mod4-f should be unbound")
	}
	if res.Config.Hotkeys["Mod4-p"] != "peek left" {
		t.Fatalf("expected Mod4-p binding, got %v", res.Config.Hotkeys)
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name   string
		mutate func(c *Config)
		path   string
	}{
		{"ratio too small", func(c *Config) { c.Layout.GoldenRatio.Ratio = 5 }, "layout.golden_ratio.ratio"},
		{"two step same axis", func(c *Config) { c.Layout.TwoStep.Second = "left" }, "layout.two_step.second"},
		{"bad direction", func(c *Config) { c.Layout.TwoStep.First = "north" }, "layout.two_step.first"},
		{"negative padding", func(c *Config) { c.Layout.TilesPadding = -2 }, "layout.tiles_padding"},
		{"insert threshold", func(c *Config) { c.Layout.InsertThreshold = 60 }, "layout.insert_threshold"},
		{"move behavior", func(c *Config) { c.General.MoveBehavior = "drop" }, "general.move_behavior"},
		{"history", func(c *Config) { c.General.FocusHistorySize = 0 }, "general.focus_history_size"},
		{"easing", func(c *Config) { c.Animation.Type = "bounce" }, "animation.type"},
		{"fps", func(c *Config) { c.Animation.FPS = 0 }, "animation.fps"},
		{"empty rule", func(c *Config) { c.Rules = []Rule{{Float: true}} }, "rules[0]"},
		{"bad rule regexp", func(c *Config) { c.Rules = []Rule{{Class: "("}} }, "rules[0].class"},
		{"rule desktop", func(c *Config) { c.Rules = []Rule{{Class: "x", Desktop: &negative}} }, "rules[0].desktop"},
		{"bad ignore", func(c *Config) { c.Ignore = []string{"["} }, "ignore[0]"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestSettings_Rules(t *testing.T) {
	desktop := 2
	cfg := DefaultConfig()
	cfg.Rules = []Rule{
		{Class: "^firefox$", Desktop: &desktop},
		{Title: "Picture-in-Picture", Float: true},
	}
	cfg.Ignore = []string{"^Conky$"}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if len(s.Rules) != 2 || s.Rules[0].Desktop != 2 || s.Rules[1].Desktop != -1 {
		t.Fatalf("unexpected rules %+v", s.Rules)
	}
	if s.Rules[0].Title != nil || s.Rules[1].Class != nil {
		t.Fatalf("unset patterns must stay nil")
	}
	if len(s.Ignore) != 1 || !s.Ignore[0].MatchString("Conky") {
		t.Fatalf("unexpected ignore list %v", s.Ignore)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Layout.Strategy = "squared"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Layout.Strategy != "squared" {
		t.Fatalf("expected squared, got %q", res.Config.Layout.Strategy)
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\n")

	changed := make(chan struct{}, 1)
	w := NewWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Serve(ctx) }()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-changed:
			cancel()
			<-errCh
			return
		case <-tick.C:
			writeFile(t, path, "log_level: debug\n")
		case <-deadline:
			t.Fatalf("no change notification")
		}
	}
}

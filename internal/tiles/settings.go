package tiles

import (
	"regexp"

	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// MoveBehavior selects what dropping a window onto another tiled window does.
type MoveBehavior int

const (
	MoveSwap MoveBehavior = iota
	MoveInsert
)

// Rule matches windows by class and title and changes how they are managed.
// A nil pattern matches anything.
type Rule struct {
	Class   *regexp.Regexp
	Title   *regexp.Regexp
	Float   bool
	Monitor string
	// Desktop is the virtual desktop the window is sent to, -1 for none.
	Desktop int
}

// Matches reports whether w is selected by the rule.
func (r Rule) Matches(w platform.Window) bool {
	if r.Class == nil && r.Title == nil {
		return false
	}
	if r.Class != nil && !r.Class.MatchString(w.AppID) {
		return false
	}
	if r.Title != nil && !r.Title.MatchString(w.Title) {
		return false
	}
	return true
}

// Settings is the already validated configuration the manager works with.
type Settings struct {
	// Strategy is cloned for every layer tree.
	Strategy          tiling.LayoutStrategy
	InsertThreshold   int
	TilesPadding      int
	BorderPadding     int
	FocalizedPadding  int
	MoveBehavior      MoveBehavior
	FreeMoveInMonitor bool
	MinFloatingDim    int
	FocusHistorySize  int
	AnimationsEnabled bool
	Rules             []Rule
	Ignore            []*regexp.Regexp
}

// DefaultSettings returns the settings used without a configuration file.
func DefaultSettings() Settings {
	return Settings{
		Strategy:         tiling.NewGoldenRatio(true, true, 50),
		InsertThreshold:  tiling.DefaultInsertThreshold,
		TilesPadding:     4,
		BorderPadding:    4,
		FocalizedPadding: 40,
		MinFloatingDim:   250,
		FocusHistorySize: 16,
	}
}

func (s Settings) newStrategy() tiling.LayoutStrategy {
	if s.Strategy == nil {
		return tiling.NewGoldenRatio(true, true, 50)
	}
	return s.Strategy.Clone()
}

// matchRule returns the first rule selecting w.
func (s Settings) matchRule(w platform.Window) (Rule, bool) {
	for _, r := range s.Rules {
		if r.Matches(w) {
			return r, true
		}
	}
	return Rule{}, false
}

// ignored reports whether w must never be managed.
func (s Settings) ignored(w platform.Window) bool {
	for _, re := range s.Ignore {
		if re.MatchString(w.AppID) {
			return true
		}
	}
	return false
}

package ipc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// ActionKind names a user operation on the layout.
type ActionKind string

const (
	ActionFocus        ActionKind = "focus"
	ActionSwap         ActionKind = "swap"
	ActionMove         ActionKind = "move"
	ActionResize       ActionKind = "resize"
	ActionFocalize     ActionKind = "focalize"
	ActionHalfFocalize ActionKind = "half-focalize"
	ActionRelease      ActionKind = "release"
	ActionMaximize     ActionKind = "maximize"
	ActionInvert       ActionKind = "invert"
	ActionPeek         ActionKind = "peek"
	ActionPause        ActionKind = "pause"
	ActionRetile       ActionKind = "retile"
	ActionClose        ActionKind = "close"
	ActionReload       ActionKind = "reload"
)

type actionDef struct {
	direction bool // requires a direction argument
	amount    bool // accepts a trailing number
	usage     string
}

var actionDefs = map[ActionKind]actionDef{
	ActionFocus:        {direction: true, usage: "focus <left|right|up|down>"},
	ActionSwap:         {direction: true, usage: "swap <direction>"},
	ActionMove:         {direction: true, usage: "move <direction>"},
	ActionResize:       {direction: true, amount: true, usage: "resize <direction> [pixels, negative shrinks]"},
	ActionFocalize:     {usage: "focalize"},
	ActionHalfFocalize: {usage: "half-focalize"},
	ActionRelease:      {usage: "release"},
	ActionMaximize:     {usage: "maximize"},
	ActionInvert:       {usage: "invert"},
	ActionPeek:         {direction: true, amount: true, usage: "peek <direction> [percent]"},
	ActionPause:        {usage: "pause"},
	ActionRetile:       {usage: "retile"},
	ActionClose:        {usage: "close"},
	ActionReload:       {usage: "reload"},
}

// Action is a parsed user command such as "swap left" or "peek up 80".
type Action struct {
	Kind      ActionKind
	Direction tiling.Direction
	// Amount is the optional trailing number, zero when omitted.
	Amount int
}

func (a Action) String() string {
	def := actionDefs[a.Kind]
	parts := []string{string(a.Kind)}
	if def.direction {
		parts = append(parts, a.Direction.String())
	}
	if def.amount && a.Amount != 0 {
		parts = append(parts, strconv.Itoa(a.Amount))
	}
	return strings.Join(parts, " ")
}

// ParseAction parses a command string.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}
	kind := ActionKind(fields[0])
	def, ok := actionDefs[kind]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", fields[0])
	}
	args := fields[1:]
	a := Action{Kind: kind}

	if def.direction {
		if len(args) == 0 {
			return Action{}, fmt.Errorf("usage: %s", def.usage)
		}
		d, err := tiling.ParseDirection(args[0])
		if err != nil {
			return Action{}, err
		}
		a.Direction = d
		args = args[1:]
	}
	if def.amount && len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Action{}, fmt.Errorf("invalid amount %q: usage: %s", args[0], def.usage)
		}
		a.Amount = n
		args = args[1:]
	}
	if len(args) > 0 {
		return Action{}, fmt.Errorf("unexpected arguments %v: usage: %s", args, def.usage)
	}
	return a, nil
}

// ActionUsages returns the usage line of every action, sorted by name.
func ActionUsages() []string {
	out := make([]string, 0, len(actionDefs))
	for _, kind := range sortedActionKinds() {
		out = append(out, actionDefs[kind].usage)
	}
	return out
}

func sortedActionKinds() []ActionKind {
	kinds := make([]ActionKind, 0, len(actionDefs))
	for k := range actionDefs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

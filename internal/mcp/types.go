package mcp

import "github.com/policastro/mondrian-sub000/internal/ipc"

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action command, e.g. 'swap left', 'resize right 40', 'focalize'. See list_actions."`
	Window uint32 `json:"window,omitempty" jsonschema:"Target window id (default: focused window)"`
}

// DirectionInput is the input for the directional tools.
type DirectionInput struct {
	Direction string `json:"direction" jsonschema:"One of left, right, up, down"`
	Window    uint32 `json:"window,omitempty" jsonschema:"Target window id (default: focused window)"`
}

// WindowInput is the input for tools acting on one window.
type WindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"Target window id (default: focused window)"`
}

// EmptyInput is the input for tools without arguments.
type EmptyInput struct{}

// ActionOutput reports the action that was run.
type ActionOutput struct {
	Action string `json:"action"`
	Window uint32 `json:"window,omitempty"`
}

// StateOutput is the output for the get_state tool.
type StateOutput struct {
	ipc.StateData
}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	ipc.StatusData
}

// MonitorsOutput is the output for the list_monitors tool.
type MonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// ActionsOutput is the output for the list_actions tool.
type ActionsOutput struct {
	Actions []string `json:"actions"`
}

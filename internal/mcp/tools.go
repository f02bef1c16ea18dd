package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// run validates and forwards an action command.
func (s *Server) run(command string, window uint32) (*mcpsdk.CallToolResult, ActionOutput, error) {
	action, err := ipc.ParseAction(command)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.daemon.Run(action.String(), window); err != nil {
		s.logger.Warn("action failed", "action", action.String(), "window", window, "error", err)
		return nil, ActionOutput{}, err
	}
	s.logger.Debug("action", "action", action.String(), "window", window)
	return nil, ActionOutput{Action: action.String(), Window: window}, nil
}

func directional(verb, direction string) (string, error) {
	d, err := tiling.ParseDirection(direction)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s", verb, d), nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(args.Action, args.Window)
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	command, err := directional("focus", args.Direction)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return s.run(command, 0)
}

func (s *Server) handleSwap(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	command, err := directional("swap", args.Direction)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return s.run(command, args.Window)
}

func (s *Server) handleMove(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	command, err := directional("move", args.Direction)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return s.run(command, args.Window)
}

func (s *Server) handleFocalize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(string(ipc.ActionFocalize), args.Window)
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	state, err := s.daemon.State()
	if err != nil {
		return nil, StateOutput{}, err
	}
	return nil, StateOutput{StateData: *state}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.Status()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{StatusData: *status}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	monitors, err := s.daemon.Monitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	return nil, MonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionsOutput, error) {
	actions, err := s.daemon.Actions()
	if err != nil {
		return nil, ActionsOutput{}, err
	}
	return nil, ActionsOutput{Actions: actions}, nil
}

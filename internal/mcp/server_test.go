package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/policastro/mondrian-sub000/internal/ipc"
)

type call struct {
	action string
	window uint32
}

type fakeDaemon struct {
	calls []call
	err   error
}

func (f *fakeDaemon) Run(action string, window uint32) error {
	f.calls = append(f.calls, call{action, window})
	return f.err
}

func (f *fakeDaemon) Status() (*ipc.StatusData, error) {
	return &ipc.StatusData{Desktop: 1, Strategy: "squared", ManagedWindows: 3}, f.err
}

func (f *fakeDaemon) State() (*ipc.StateData, error) {
	return &ipc.StateData{Desktop: 1, History: []uint32{7, 8}}, f.err
}

func (f *fakeDaemon) Monitors() ([]ipc.MonitorInfo, error) {
	return []ipc.MonitorInfo{{ID: "HDMI-1"}}, f.err
}

func (f *fakeDaemon) Actions() ([]string, error) {
	return ipc.ActionUsages(), f.err
}

func TestDirectionalTools(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)
	ctx := context.Background()

	if _, out, err := s.handleFocus(ctx, nil, DirectionInput{Direction: "left", Window: 9}); err != nil || out.Action != "focus left" {
		t.Fatalf("focus: %+v %v", out, err)
	}
	if _, _, err := s.handleSwap(ctx, nil, DirectionInput{Direction: "d", Window: 5}); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if _, _, err := s.handleMove(ctx, nil, DirectionInput{Direction: "diagonal"}); err == nil {
		t.Fatalf("expected invalid direction error")
	}

	want := []call{{"focus left", 0}, {"swap down", 5}}
	if len(d.calls) != len(want) {
		t.Fatalf("got %v want %v", d.calls, want)
	}
	for i := range want {
		if d.calls[i] != want[i] {
			t.Fatalf("got %v want %v", d.calls, want)
		}
	}
}

func TestRunActionValidatesLocally(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)
	ctx := context.Background()

	if _, _, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "warp 9"}); err == nil {
		t.Fatalf("expected parse error")
	}
	if len(d.calls) != 0 {
		t.Fatalf("invalid actions must not reach the daemon")
	}

	_, out, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "Resize  UP 20", Window: 3})
	if err != nil {
		t.Fatalf("run_action: %v", err)
	}
	if out.Action != "resize up 20" || d.calls[0].action != "resize up 20" {
		t.Fatalf("action should be normalized, got %+v / %v", out, d.calls)
	}
}

func TestDaemonErrorsPropagate(t *testing.T) {
	d := &fakeDaemon{err: errors.New("daemon error: not running")}
	s := NewServer(d, nil)
	ctx := context.Background()

	if _, _, err := s.handleFocalize(ctx, nil, WindowInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if _, _, err := s.handleGetState(ctx, nil, EmptyInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestQueryTools(t *testing.T) {
	s := NewServer(&fakeDaemon{}, nil)
	ctx := context.Background()

	_, status, err := s.handleGetStatus(ctx, nil, EmptyInput{})
	if err != nil || status.Strategy != "squared" || status.ManagedWindows != 3 {
		t.Fatalf("get_status: %+v %v", status, err)
	}
	_, state, err := s.handleGetState(ctx, nil, EmptyInput{})
	if err != nil || len(state.History) != 2 {
		t.Fatalf("get_state: %+v %v", state, err)
	}
	_, mons, err := s.handleListMonitors(ctx, nil, EmptyInput{})
	if err != nil || len(mons.Monitors) != 1 || mons.Monitors[0].ID != "HDMI-1" {
		t.Fatalf("list_monitors: %+v %v", mons, err)
	}
	_, actions, err := s.handleListActions(ctx, nil, EmptyInput{})
	if err != nil || len(actions.Actions) == 0 {
		t.Fatalf("list_actions: %+v %v", actions, err)
	}
}

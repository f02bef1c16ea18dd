package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/tiles"
)

// HandleIPC answers IPC requests by queueing work on the loop.
func (l *Loop) HandleIPC(ctx context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CommandRun:
		return l.handleRun(ctx, req.Payload)
	case ipc.CommandGetStatus:
		return l.respond(ctx, l.status)
	case ipc.CommandGetState:
		return l.respond(ctx, l.state)
	case ipc.CommandGetMonitors:
		return l.respond(ctx, l.monitorsData)
	case ipc.CommandReload:
		if err := l.Reload(ctx); err != nil {
			return ipc.NewErrorResponse(fmt.Sprintf("failed to reload config: %v", err))
		}
		return ok(nil)
	case ipc.CommandListActions:
		return ok(ipc.ActionsData{Actions: ipc.ActionUsages()})
	}
	return ipc.NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
}

func (l *Loop) handleRun(ctx context.Context, payload json.RawMessage) *ipc.Response {
	var p ipc.RunPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("invalid run payload: %v", err))
	}
	action, err := ipc.ParseAction(p.Action)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	if err := l.Do(ctx, action, tiles.WindowID(p.Window)); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("%s: %v", action, err))
	}
	return ok(nil)
}

// respond builds the response data on the loop goroutine.
func (l *Loop) respond(ctx context.Context, build func() any) *ipc.Response {
	var data any
	if err := l.query(ctx, func() { data = build() }); err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return ok(data)
}

func ok(data any) *ipc.Response {
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}

func (l *Loop) status() any {
	_, animating := l.player.Running()
	return ipc.StatusData{
		Paused:         l.manager.Paused(),
		Desktop:        l.manager.Desktop(),
		Strategy:       l.cfg.Layout.Strategy,
		ManagedWindows: len(l.manager.VisibleManagedWindows()),
		UptimeSeconds:  int64(time.Since(l.started).Seconds()),
		ConfigPath:     l.configPath,
		Animating:      animating,
	}
}

func (l *Loop) state() any {
	data := ipc.StateData{Desktop: l.manager.Desktop()}
	monitorOf := make(map[tiles.WindowID]string)
	for _, key := range l.manager.ActiveKeys() {
		c, _ := l.manager.Container(key)
		info := ipc.ContainerInfo{
			Monitor: key.Monitor,
			Layer:   c.Current().String(),
			Windows: []uint32{},
			Peeked:  l.manager.IsPeeked(key),
		}
		for _, id := range c.Tree().IDs() {
			info.Windows = append(info.Windows, uint32(id))
			monitorOf[id] = key.Monitor
		}
		data.Containers = append(data.Containers, info)
	}

	for id, state := range l.manager.VisibleManagedWindows() {
		w := ipc.WindowInfo{ID: uint32(id), State: state.String(), Monitor: monitorOf[id]}
		if info, err := l.backend.WindowInfo(id); err == nil {
			w.Class, w.Title = info.AppID, info.Title
		}
		if area, err := l.backend.WindowArea(id); err == nil {
			w.X, w.Y, w.Width, w.Height = area.X, area.Y, area.Width, area.Height
		}
		data.Windows = append(data.Windows, w)
	}
	sort.Slice(data.Windows, func(i, j int) bool { return data.Windows[i].ID < data.Windows[j].ID })

	for _, id := range l.manager.History() {
		data.History = append(data.History, uint32(id))
	}
	return data
}

func (l *Loop) monitorsData() any {
	primary := make(map[string]bool)
	if displays, err := l.backend.Displays(); err == nil {
		for _, d := range displays {
			primary[d.ID] = d.Primary
		}
	}
	var data ipc.MonitorsData
	for _, m := range l.manager.Monitors() {
		a := m.WorkArea
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:      m.ID,
			Primary: primary[m.ID],
			X:       a.X,
			Y:       a.Y,
			Width:   a.Width,
			Height:  a.Height,
		})
	}
	return data
}

package daemon

import (
	"context"
	"sort"

	"github.com/policastro/mondrian-sub000/internal/platform"
	"github.com/policastro/mondrian-sub000/internal/tiles"
)

// syncPlan lists the windows to start and stop managing.
type syncPlan struct {
	add    []tiles.WindowID
	remove []tiles.WindowID
}

func (p syncPlan) empty() bool { return len(p.add) == 0 && len(p.remove) == 0 }

// planSync compares the windows on screen with the windows the manager
// holds for the current desktop.
// Candidates on other desktops are left for when their desktop is shown;
// desktopOf returns -1 for windows shown on every desktop.
func planSync(
	candidates []platform.Window,
	current []tiles.WindowID,
	managed func(tiles.WindowID) bool,
	desktopOf func(tiles.WindowID) (int, error),
	desktop int,
) syncPlan {
	var plan syncPlan
	present := make(map[tiles.WindowID]struct{}, len(candidates))
	for _, w := range candidates {
		present[w.ID] = struct{}{}
		if managed(w.ID) {
			continue
		}
		d, err := desktopOf(w.ID)
		if err != nil || (d != desktop && d >= 0) {
			continue
		}
		plan.add = append(plan.add, w.ID)
	}
	for _, id := range current {
		if _, ok := present[id]; !ok {
			plan.remove = append(plan.remove, id)
		}
	}
	sort.Slice(plan.add, func(i, j int) bool { return plan.add[i] < plan.add[j] })
	return plan
}

// reconcile brings the manager back in line with the window system, e.g.
// after missed events or at startup.
func (l *Loop) reconcile() {
	changed := false
	if l.cfg.General.DesktopRefresh {
		res, err := l.manager.RefreshDesktop()
		if err != nil {
			l.logger.Log(context.Background(), tiles.Severity(err), "desktop refresh failed", "error", err)
		} else if res.Kind != tiles.NoChange {
			changed = true
		}
	}

	candidates, err := l.backend.Candidates()
	if err != nil {
		l.logger.Warn("reconcile: failed to list windows", "error", err)
		return
	}
	plan := planSync(candidates, l.manager.CurrentWindows(), l.manager.IsManaged, l.backend.WindowDesktop, l.manager.Desktop())
	if plan.empty() {
		if changed {
			l.manager.UpdateLayout(false, nil)
		}
		return
	}

	l.logger.Debug("reconcile", "add", len(plan.add), "remove", len(plan.remove))
	for _, id := range plan.remove {
		delete(l.iconic, id)
		if _, err := l.manager.Remove(id); err != nil {
			l.logger.Log(context.Background(), tiles.Severity(err), "reconcile: remove failed", "window", id, "error", err)
		}
	}
	for _, id := range plan.add {
		l.iconic[id] = l.backend.IsIconic(id)
		res, err := l.manager.Add(id, nil, true, true)
		if err != nil {
			l.logger.Log(context.Background(), tiles.Severity(err), "reconcile: add failed", "window", id, "error", err)
			continue
		}
		if res.Kind == tiles.Queue {
			// Floating windows are placed one by one.
			l.apply("add", res, nil)
		}
	}
	if err := l.manager.UpdateLayout(false, nil); err != nil {
		l.logger.Warn("reconcile: layout update failed", "error", err)
	}
}

package tiles

// SwitchDesktop makes desktop the current virtual desktop. Every active
// container is put aside; the containers of desktop come back in the layer
// that was used last.
func (m *Manager) SwitchDesktop(desktop int) Result {
	if desktop == m.desktop {
		return resultNoChange
	}
	now := m.now()
	for k, c := range m.active {
		m.unpeek(k, c)
		m.inactive[k] = inactiveContainer{container: c, since: now}
		delete(m.active, k)
	}

	m.logger.Debug("switching desktop", "from", m.desktop, "to", desktop)
	m.desktop = desktop
	for _, mon := range m.monitors {
		k := m.key(mon.ID)
		ic, ok := m.inactive[k]
		if !ok {
			m.active[k] = m.newContainer(mon.WorkArea)
			continue
		}
		delete(m.inactive, k)
		ic.container.Reinstate()
		ic.container.SetArea(mon.WorkArea)
		m.active[k] = ic.container
	}

	// A window sticky across desktops may have been tiled here while it was
	// floating elsewhere.
	for win := range m.floating {
		if _, c, ok := m.findTiled(win); ok {
			m.restoreLayer(c)
			c.NormalTree().Remove(win)
		}
	}
	return resultLayoutChanged
}

// RefreshDesktop switches to the desktop the window system reports.
func (m *Manager) RefreshDesktop() (Result, error) {
	desktop, err := m.desktops.CurrentDesktop()
	if err != nil {
		return resultNoChange, &VDError{Err: err}
	}
	return m.SwitchDesktop(desktop), nil
}

// UpdateMonitors replaces the known monitors. Containers of unplugged
// monitors hand their windows to the first remaining monitor of the same
// desktop.
func (m *Manager) UpdateMonitors(monitors []Monitor) Result {
	m.monitors = append([]Monitor(nil), monitors...)
	present := make(map[string]Monitor, len(monitors))
	for _, mon := range monitors {
		present[mon.ID] = mon
	}

	var orphans []*Container
	for k, c := range m.active {
		mon, ok := present[k.Monitor]
		if !ok {
			m.restoreLayer(c)
			orphans = append(orphans, c)
			delete(m.active, k)
			delete(m.peeked, k)
			continue
		}
		if _, peeked := m.peeked[k]; !peeked {
			c.SetArea(mon.WorkArea)
		}
	}
	for k, ic := range m.inactive {
		mon, ok := present[k.Monitor]
		if !ok {
			m.adopt(k.Desktop, ic.container)
			delete(m.inactive, k)
			continue
		}
		ic.container.SetArea(mon.WorkArea)
	}
	for _, mon := range monitors {
		k := m.key(mon.ID)
		if _, ok := m.active[k]; !ok {
			m.active[k] = m.newContainer(mon.WorkArea)
		}
	}
	for _, c := range orphans {
		m.adopt(m.desktop, c)
	}
	for win, k := range m.maximized {
		if _, ok := present[k.Monitor]; !ok && len(monitors) > 0 {
			m.maximized[win] = ContainerKey{Desktop: k.Desktop, Monitor: monitors[0].ID}
		}
	}
	return resultLayoutChanged
}

// adopt moves the windows of an orphaned container to the first monitor of
// desktop.
func (m *Manager) adopt(desktop int, orphan *Container) {
	if len(m.monitors) == 0 {
		return
	}
	m.restoreLayer(orphan)
	k := ContainerKey{Desktop: desktop, Monitor: m.monitors[0].ID}
	var target *Container
	if c, ok := m.active[k]; ok {
		target = c
	} else if ic, ok := m.inactive[k]; ok {
		target = ic.container
	} else {
		target = m.newContainer(m.monitors[0].WorkArea)
		m.inactive[k] = inactiveContainer{container: target, since: m.now()}
	}
	for _, id := range orphan.NormalTree().IDs() {
		target.NormalTree().Insert(id)
	}
}

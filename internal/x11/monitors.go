package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

// Monitor is an enabled RandR output.
type Monitor struct {
	// Name is the output name (DP-1, HDMI-0, ...); it identifies the
	// monitor across reconfigurations.
	Name     string
	Primary  bool
	Bounds   tiling.Area
	WorkArea tiling.Area
}

// Monitors returns the enabled outputs with their work areas, docks and
// panels excluded. Without RandR the whole root window is one monitor.
func (c *Connection) Monitors() ([]Monitor, error) {
	root, err := c.rootArea()
	if err != nil {
		return nil, err
	}
	var monitors []Monitor
	if c.randr {
		monitors, err = c.randrMonitors()
		if err != nil {
			return nil, err
		}
	}
	if len(monitors) == 0 {
		monitors = []Monitor{{Name: "default", Primary: true, Bounds: root}}
	}

	struts := c.dockStruts(root)
	for i := range monitors {
		monitors[i].WorkArea = workArea(monitors[i].Bounds, root, struts)
	}
	return monitors, nil
}

func (c *Connection) rootArea() (tiling.Area, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return tiling.Area{}, fmt.Errorf("get root geometry: %w", err)
	}
	return tiling.NewArea(0, 0, int(geom.Width), int(geom.Height)), nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	resources, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}
	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(xc, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("crtc-%d", i)
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			Name:    name,
			Primary: info.Outputs[0] == primary,
			Bounds:  tiling.NewArea(int(info.X), int(info.Y), int(info.Width), int(info.Height)),
		})
	}
	return monitors, nil
}

// strut is the space a dock reserves along one root edge, restricted to a
// span of the perpendicular axis.
type strut struct {
	side  tiling.Direction
	size  int
	start int
	end   int
}

// area returns the rectangle of s in root coordinates.
func (s strut) area(root tiling.Area) tiling.Area {
	switch s.side {
	case tiling.Left:
		return tiling.NewArea(root.X, s.start, s.size, s.end-s.start+1)
	case tiling.Right:
		return tiling.NewArea(root.Right()-s.size, s.start, s.size, s.end-s.start+1)
	case tiling.Up:
		return tiling.NewArea(s.start, root.Y, s.end-s.start+1, s.size)
	default:
		return tiling.NewArea(s.start, root.Bottom()-s.size, s.end-s.start+1, s.size)
	}
}

func (c *Connection) dockStruts(root tiling.Area) []strut {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}
	var out []strut
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			out = append(out, partialStruts(sp)...)
			continue
		}
		// Some docks only set _NET_WM_STRUT, which spans the whole edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			out = append(out, partialStruts(&ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(root.Bottom() - 1), RightEndY: uint(root.Bottom() - 1),
				TopEndX: uint(root.Right() - 1), BottomEndX: uint(root.Right() - 1),
			})...)
		}
	}
	return out
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func partialStruts(sp *ewmh.WmStrutPartial) []strut {
	var out []strut
	if sp.Left > 0 {
		out = append(out, strut{side: tiling.Left, size: int(sp.Left), start: int(sp.LeftStartY), end: int(sp.LeftEndY)})
	}
	if sp.Right > 0 {
		out = append(out, strut{side: tiling.Right, size: int(sp.Right), start: int(sp.RightStartY), end: int(sp.RightEndY)})
	}
	if sp.Top > 0 {
		out = append(out, strut{side: tiling.Up, size: int(sp.Top), start: int(sp.TopStartX), end: int(sp.TopEndX)})
	}
	if sp.Bottom > 0 {
		out = append(out, strut{side: tiling.Down, size: int(sp.Bottom), start: int(sp.BottomStartX), end: int(sp.BottomEndX)})
	}
	return out
}

// workArea removes from monitor the part reserved by struts overlapping it.
func workArea(monitor, root tiling.Area, struts []strut) tiling.Area {
	var left, right, top, bottom int
	for _, s := range struts {
		overlap := s.area(root).Intersection(monitor)
		if overlap.IsZero() {
			continue
		}
		switch s.side {
		case tiling.Left:
			left = max(left, overlap.Width)
		case tiling.Right:
			right = max(right, overlap.Width)
		case tiling.Up:
			top = max(top, overlap.Height)
		case tiling.Down:
			bottom = max(bottom, overlap.Height)
		}
	}
	return tiling.NewArea(
		monitor.X+left,
		monitor.Y+top,
		max(monitor.Width-left-right, 1),
		max(monitor.Height-top-bottom, 1),
	)
}

// MonitorAt returns the monitor containing p.
func MonitorAt(monitors []Monitor, p tiling.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}

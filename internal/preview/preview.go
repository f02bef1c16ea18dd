// Package preview draws layout strategies as text for the terminal.
package preview

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/policastro/mondrian-sub000/internal/tiling"
)

const (
	DefaultWidth  = 60
	DefaultHeight = 20
)

// Leaves lays count windows out with strategy inside monitor, numbered from 1
// in insertion order.
func Leaves(strategy tiling.LayoutStrategy, count int, monitor tiling.Area) []tiling.AreaLeaf[int] {
	tree := tiling.NewAreaTree[int](monitor, strategy)
	for i := 1; i <= count; i++ {
		tree.Insert(i)
	}
	return tree.Leaves(0, nil)
}

// Summary describes the tile sizes count windows get on monitor.
func Summary(strategy tiling.LayoutStrategy, count int, monitor tiling.Area) string {
	if count < 1 {
		count = 1
	}
	leaves := Leaves(strategy, count, monitor)
	if len(leaves) == 0 {
		return "no tiles"
	}

	minW, minH := leaves[0].Viewbox.Width, leaves[0].Viewbox.Height
	maxW, maxH := minW, minH
	for _, l := range leaves[1:] {
		minW = min(minW, l.Viewbox.Width)
		minH = min(minH, l.Viewbox.Height)
		maxW = max(maxW, l.Viewbox.Width)
		maxH = max(maxH, l.Viewbox.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(leaves), minW, minH)
	}
	return fmt.Sprintf("%d tiles • min %d×%d • max %d×%d", len(leaves), minW, minH, maxW, maxH)
}

// Size returns the canvas size fitting the terminal on stdout, or the
// defaults when stdout is not a terminal.
func Size() (int, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth, DefaultHeight
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w < 5 || h < 3 {
		return DefaultWidth, DefaultHeight
	}
	return min(w, 2*DefaultWidth), min(h-2, DefaultHeight)
}

// Render returns an ASCII drawing of count windows laid out by strategy.
func Render(strategy tiling.LayoutStrategy, count, width, height int) []string {
	if strategy == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Each cell stands for a 2x2 block so a one unit gap stays visible.
	monitor := tiling.NewArea(0, 0, width*2, height*2)
	for _, l := range Leaves(strategy, count, monitor) {
		drawTile(canvas, l.Viewbox.PadFull(1), l.ID, monitor.Width, monitor.Height, width, height)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, rect tiling.Area, num int, monW, monH, canvasW, canvasH int) {
	x1 := max(rect.X*canvasW/monW, 1)
	y1 := max(rect.Y*canvasH/monH, 1)
	x2 := min(rect.Right()*canvasW/monW, canvasW-2)
	y2 := min(rect.Bottom()*canvasH/monH, canvasH-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/policastro/mondrian-sub000/internal/ipc"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mondrian status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().Status()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("paused:          %v\n", status.Paused)
	fmt.Printf("desktop:         %d\n", status.Desktop)
	fmt.Printf("strategy:        %s\n", status.Strategy)
	fmt.Printf("managed_windows: %d\n", status.ManagedWindows)
	fmt.Printf("animating:       %v\n", status.Animating)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	if status.ConfigPath != "" {
		fmt.Printf("config_path:     %s\n", status.ConfigPath)
	}
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mondrian state [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the containers and managed windows of the current desktop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output the raw state as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "state takes no arguments")
		fs.Usage()
		return 2
	}

	state, err := ipc.NewClient().State()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := printState(os.Stdout, state); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printState(w io.Writer, state *ipc.StateData) error {
	fmt.Fprintf(w, "desktop: %d\n", state.Desktop)
	for _, c := range state.Containers {
		peeked := ""
		if c.Peeked {
			peeked = " (peeked)"
		}
		fmt.Fprintf(w, "monitor %s [%s]%s: %s\n", c.Monitor, c.Layer, peeked, joinIDs(c.Windows))
	}
	if len(state.History) > 0 {
		fmt.Fprintf(w, "focus history: %s\n", joinIDs(state.History))
	}
	if len(state.Windows) == 0 {
		return nil
	}

	fmt.Fprintln(w, "")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tMONITOR\tGEOMETRY\tCLASS\tTITLE")
	for _, win := range state.Windows {
		fmt.Fprintf(tw, "0x%x\t%s\t%s\t%dx%d@%d,%d\t%s\t%s\n",
			win.ID, win.State, win.Monitor, win.Width, win.Height, win.X, win.Y, win.Class, win.Title)
	}
	return tw.Flush()
}

func joinIDs(ids []uint32) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("0x%x", id)
	}
	return strings.Join(parts, " ")
}

// parseWindowID accepts decimal or 0x-prefixed hexadecimal window ids.
func parseWindowID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func runCmd(args []string) int {
	fs := flag.NewFlagSet("cmd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mondrian cmd [--window ID] <action> [args...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a layout action on the focused window, or on --window.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions:")
		for _, usage := range ipc.ActionUsages() {
			fmt.Fprintf(os.Stderr, "  %s\n", usage)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	window := fs.String("window", "", "Target window id, decimal or 0x-prefixed")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	action := strings.Join(fs.Args(), " ")
	if _, err := ipc.ParseAction(action); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Run(action, id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

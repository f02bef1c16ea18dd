package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/policastro/mondrian-sub000/internal/config"
	"github.com/policastro/mondrian-sub000/internal/ipc"
	"github.com/policastro/mondrian-sub000/internal/preview"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mondrian layout preview [--config PATH] [--strategy NAME] [-n N]")
	fmt.Fprintln(w, "  mondrian layout actions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Strategies:")
	for _, name := range tiling.StrategyNames {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printLayoutUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "preview":
		return runLayoutPreview(args[1:])
	case "actions":
		for _, usage := range ipc.ActionUsages() {
			fmt.Println(usage)
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown layout subcommand: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runLayoutPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mondrian layout preview [--config PATH] [--strategy NAME] [-n N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Draw how N windows are laid out, using the configured strategy")
		fmt.Fprintln(os.Stderr, "and its parameters unless --strategy overrides the name.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("config", "", "Config file path (default: $XDG_CONFIG_HOME/mondrian/config.yaml)")
	strategyName := fs.String("strategy", "", "Layout strategy to preview")
	count := fs.Int("n", 4, "Number of windows")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *strategyName != "" {
		cfg.Layout.Strategy = *strategyName
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	width, height := preview.Size()
	fmt.Printf("%s: %s\n", cfg.Layout.Strategy, preview.Summary(strategy, *count, tiling.NewArea(0, 0, 1920, 1080)))
	for _, line := range preview.Render(strategy, *count, width, height) {
		fmt.Println(line)
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	console "github.com/phsym/console-slog"

	"github.com/policastro/mondrian-sub000/internal/daemon"
)

const logLevelEnv = "MONDRIAN_LOG_LEVEL"

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("mondrian", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printMainUsage(os.Stderr) }
	debug := fs.Bool("debug", false, "Enable debug logging")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	initLogger(logLevel(*debug, os.Getenv(logLevelEnv)))

	args := fs.Args()
	if len(args) == 0 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch args[0] {
	case "daemon":
		os.Exit(runDaemon(args[1:]))
	case "status":
		os.Exit(runStatus(args[1:]))
	case "state":
		os.Exit(runState(args[1:]))
	case "cmd":
		os.Exit(runCmd(args[1:]))
	case "layout":
		os.Exit(runLayout(args[1:]))
	case "config":
		os.Exit(runConfig(args[1:]))
	case "mcp":
		os.Exit(runMCP(args[1:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mondrian [--debug] <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tiling daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Show containers and managed windows")
	fmt.Fprintln(w, "  cmd <action>        Run a layout action (e.g. 'swap left')")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout preview      Draw a layout strategy in the terminal")
	fmt.Fprintln(w, "  layout actions      List the accepted actions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write the default configuration")
	fmt.Fprintln(w, "  config reload       Ask the daemon to reload its configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "The log level can also be set with %s (debug, info, warn, error).\n", logLevelEnv)
	fmt.Fprintln(w, "Run 'mondrian <command> --help' for command-specific options.")
}

// logLevel picks the log level from the --debug flag or the environment.
func logLevel(debug bool, env string) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(env))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func initLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mondrian daemon [--config PATH] [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Manage the windows of the running X session until interrupted.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: $XDG_CONFIG_HOME/mondrian/config.yaml)")
	socketPath := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/mondrian.sock)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := daemon.Run(ctx, daemon.Options{
		ConfigPath: *configPath,
		SocketPath: *socketPath,
		Logger:     slog.Default(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("daemon stopped", "error", err)
		return 1
	}
	slog.Info("daemon stopped")
	return 0
}

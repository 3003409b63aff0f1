package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/content"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/logging"
	"github.com/1broseidon/retrodesk/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}
	os.Exit(dispatch(os.Args[1], os.Args[2:]))
}

func dispatch(cmd string, args []string) int {
	switch cmd {
	case "run":
		return runDesktop(args)
	case "open":
		return runAppCommand("open", "Open an application window, or raise it if already open.", args, (*ipc.Client).Open)
	case "close":
		return runAppCommand("close", "Close an application window.", args, (*ipc.Client).Close)
	case "minimize":
		return runAppCommand("minimize", "Minimize an application window to the taskbar.", args, (*ipc.Client).Minimize)
	case "focus":
		return runAppCommand("focus", "Raise and focus an open application window.", args, (*ipc.Client).Focus)
	case "windows":
		return runWindows(args)
	case "apps":
		return runApps(args)
	case "status":
		return runStatus(args)
	case "shutdown":
		return runPower("shutdown", "Shut the desktop down.", args, (*ipc.Client).Shutdown)
	case "restart":
		return runPower("restart", "Restart a shut-down desktop.", args, (*ipc.Client).Restart)
	case "render":
		return runRender(args)
	case "config":
		return runConfig(args)
	case "mcp":
		return runMCP(args)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: retrodesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop in this terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <app>          Open an application window")
	fmt.Fprintln(w, "  close <app>         Close an application window")
	fmt.Fprintln(w, "  minimize <app>      Minimize an application window")
	fmt.Fprintln(w, "  focus <app>         Focus an application window")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "  apps                List configured applications")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "  shutdown            Shut the desktop down")
	fmt.Fprintln(w, "  restart             Restart a shut-down desktop")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  render <app>        Print an application's document")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config edit         Edit settings interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'retrodesk <command> --help' for command-specific options.")
}

// newFlagSet builds a flag set whose usage prints usage followed by the flags.
func newFlagSet(name, usage, about string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retrodesk "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, about)
		if hasFlags(fs) {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Options:")
			fs.PrintDefaults()
		}
	}
	return fs
}

func hasFlags(fs *flag.FlagSet) bool {
	n := 0
	fs.VisitAll(func(*flag.Flag) { n++ })
	return n > 0
}

// parseFlags returns -1 when parsing succeeded, or the exit code otherwise.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func newClient(socket string) *ipc.Client {
	if socket != "" {
		return ipc.NewClientAt(socket)
	}
	return ipc.NewClient()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func openLogger(cfg *config.Config, stderr bool) (*logging.Logger, error) {
	logCfg := cfg.GetLoggingConfig()
	opts := logging.Options{
		File:      logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
		Level:     cfg.LogLevel,
		Journal:   logCfg.Journal,
	}
	if stderr {
		opts.Stderr = os.Stderr
	}
	return logging.New(opts)
}

func newRenderer(cfg *config.Config, logger *logging.Logger) *content.Renderer {
	return content.New(content.Options{
		ContentDelay: cfg.Timings.ContentDelay(),
		DiagramDelay: cfg.Timings.DiagramDelay(),
		Style:        cfg.MarkdownStyle,
		Logger:       logger.Logger,
	})
}

func runDesktop(args []string) int {
	fs := newFlagSet("run", "run [--serve] [--socket PATH] [--path PATH]",
		"Start the desktop in this terminal. With --serve, other retrodesk commands\nand the MCP server can drive it over the IPC socket.")
	serve := fs.Bool("serve", false, "Start the IPC server")
	socket := fs.String("socket", "", "IPC socket path (default: $RETRODESK_SOCKET or $XDG_RUNTIME_DIR/retrodesk.sock)")
	path := fs.String("path", "", "Config file path (default: ~/.config/retrodesk/config.yaml)")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := openLogger(cfg, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	ctx, cancel := signalContext()
	defer cancel()

	err = tui.Run(ctx, tui.Options{
		Config:     cfg,
		Populator:  newRenderer(cfg, logger),
		Logger:     logger.Logger,
		Serve:      *serve,
		SocketPath: *socket,
	})
	if err != nil {
		logger.Error("desktop failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runAppCommand(name, about string, args []string, fn func(*ipc.Client, string) error) int {
	fs := newFlagSet(name, name+" [--socket PATH] <app>", about)
	socket := fs.String("socket", "", "IPC socket path")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one <app>\n", name)
		fs.Usage()
		return 2
	}
	if err := fn(newClient(*socket), fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPower(name, about string, args []string, fn func(*ipc.Client) error) int {
	fs := newFlagSet(name, name+" [--socket PATH]", about)
	socket := fs.String("socket", "", "IPC socket path")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	if err := fn(newClient(*socket)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "windows [--socket PATH] [--json]", "List the desktop's windows, front to back.")
	socket := fs.String("socket", "", "IPC socket path")
	asJSON := fs.Bool("json", false, "Print JSON")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	windows, err := newClient(*socket).ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("no windows")
		return 0
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tVISIBLE\tFOCUSED\tZ")
	for _, w := range windows {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%d\n", w.ID, w.Title, w.Visible, w.Focused, w.ZOrder)
	}
	tw.Flush()
	return 0
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "apps [--socket PATH] [--json] [--offline]",
		"List configured applications. With --offline the config file is read\ninstead of asking the running desktop.")
	socket := fs.String("socket", "", "IPC socket path")
	asJSON := fs.Bool("json", false, "Print JSON")
	offline := fs.Bool("offline", false, "Read apps from the config instead of the desktop")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}

	var apps []ipc.AppInfo
	if *offline {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, a := range cfg.Apps {
			apps = append(apps, ipc.AppInfo{
				ID:        a.ID,
				Title:     a.Title,
				Icon:      a.IconKey(),
				Desktop:   a.Desktop,
				StartMenu: a.StartMenu,
			})
		}
	} else {
		var err error
		apps, err = newClient(*socket).ListApps()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *asJSON {
		return printJSON(apps)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tICON\tDESKTOP\tSTART MENU\tOPEN")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%v\t%v\n", a.ID, a.Title, a.Icon, a.Desktop, a.StartMenu, a.Open)
	}
	tw.Flush()
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status [--socket PATH]", "Show desktop status via IPC.")
	socket := fs.String("socket", "", "IPC socket path")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := newClient(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("running:        %v\n", status.Running)
	fmt.Printf("shut_down:      %v\n", status.ShutDown)
	fmt.Printf("focused:        %s\n", status.Focused)
	fmt.Printf("open_apps:      %d\n", status.OpenApps)
	fmt.Printf("clock:          %s\n", status.Clock)
	fmt.Printf("restarts:       %d\n", status.Restarts)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("pid:            %d\n", status.PID)
	return 0
}

func runRender(args []string) int {
	fs := newFlagSet("render", "render [--width N] [--raw] [--path PATH] <app>",
		"Print an application's document to stdout, diagrams included.")
	width := fs.Int("width", 80, "Wrap width in columns")
	raw := fs.Bool("raw", false, "Print the markdown source instead of rendering it")
	path := fs.String("path", "", "Config file path")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "render requires exactly one <app>")
		fs.Usage()
		return 2
	}
	if *width < 20 {
		fmt.Fprintln(os.Stderr, "--width must be at least 20")
		return 2
	}
	id := fs.Arg(0)

	if *raw {
		md, ok := content.Markdown(id)
		fmt.Println(md)
		if !ok {
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Stderr: os.Stderr})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	ctx, cancel := signalContext()
	defer cancel()
	out, err := newRenderer(cfg, logger).Render(ctx, id, *width)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(out)
	if !content.Has(id) {
		return 1
	}
	return 0
}

package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/retrodesk/internal/content"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/wm"
)

const (
	ServerName    = "retrodesk"
	ServerVersion = "0.1.0"
)

// Desktop is the remote control surface of a running desktop. *ipc.Client
// satisfies it.
type Desktop interface {
	Open(app string) error
	Close(app string) error
	Minimize(app string) error
	Focus(app string) error
	Shutdown() error
	Restart() error
	ListWindows() ([]wm.WindowState, error)
	ListApps() ([]ipc.AppInfo, error)
	GetStatus() (*ipc.StatusData, error)
}

// Server is the MCP server that drives a running desktop over IPC.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to desktop.
func NewServer(desktop Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{desktop: desktop, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open an application window on the desktop, or bring it to the front if it is already open. The first open of an app loads its document asynchronously.",
	}, s.handleOpen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close an application window and remove its taskbar button. Fails if the app is not open.",
	}, s.handleClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Hide an application window while keeping its taskbar button. Fails if the app is not open.",
	}, s.handleMinimize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise an open application window to the front and give it focus, restoring it if minimized.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window the desktop knows about with its visibility, focus and stacking order. Windows are returned front to back.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the configured applications with their titles, icons, where they appear, and whether they are open.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether the desktop is running or shut down, the focused app, the clock and uptime.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "shutdown",
		Description: "Shut the desktop down: every window closes and the safe-to-turn-off screen appears.",
	}, s.handleShutdown)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restart",
		Description: "Restart a shut-down desktop with a fresh set of windows.",
	}, s.handleRestart)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "read_document",
		Description: "Return the markdown source of an application's document without opening its window.",
	}, s.handleReadDocument)
}

func requireApp(tool, app string) error {
	if app == "" {
		return fmt.Errorf("%s: app is required", tool)
	}
	return nil
}

// windowOf looks the app up in a fresh window listing.
func (s *Server) windowOf(app string) (WindowOutput, error) {
	windows, err := s.desktop.ListWindows()
	if err != nil {
		return WindowOutput{}, err
	}
	out := WindowOutput{App: app}
	for _, w := range windows {
		if w.ID == app {
			out.Visible = w.Visible
			out.Focused = w.Focused
			break
		}
	}
	return out, nil
}

func (s *Server) windowTool(tool, app string, fn func(string) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireApp(tool, app); err != nil {
		return nil, WindowOutput{}, err
	}
	if err := fn(app); err != nil {
		s.logger.Warn("mcp tool failed", "tool", tool, "app", app, "error", err)
		return nil, WindowOutput{}, fmt.Errorf("%s %s: %w", tool, app, err)
	}
	s.logger.Info("mcp tool", "tool", tool, "app", app)
	out, err := s.windowOf(app)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleOpen(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("open_window", args.App, s.desktop.Open)
}

func (s *Server) handleClose(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("close_window", args.App, s.desktop.Close)
}

func (s *Server) handleMinimize(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("minimize_window", args.App, s.desktop.Minimize)
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("focus_window", args.App, s.desktop.Focus)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]wm.WindowState, 0, len(windows))}
	for _, w := range windows {
		if args.VisibleOnly && !w.Visible {
			continue
		}
		if w.Focused {
			out.Focused = w.ID
		}
		out.Windows = append(out.Windows, w)
	}
	return nil, out, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	apps, err := s.desktop.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, err
	}
	if apps == nil {
		apps = []ipc.AppInfo{}
	}
	return nil, ListAppsOutput{Apps: apps}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.desktop.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Running:       st.Running,
		ShutDown:      st.ShutDown,
		Focused:       st.Focused,
		OpenApps:      st.OpenApps,
		Clock:         st.Clock,
		Restarts:      st.Restarts,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleShutdown(_ context.Context, _ *mcpsdk.CallToolRequest, _ PowerInput) (*mcpsdk.CallToolResult, PowerOutput, error) {
	if err := s.desktop.Shutdown(); err != nil {
		return nil, PowerOutput{}, fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("mcp tool", "tool", "shutdown")
	return nil, PowerOutput{ShutDown: true}, nil
}

func (s *Server) handleRestart(_ context.Context, _ *mcpsdk.CallToolRequest, _ PowerInput) (*mcpsdk.CallToolResult, PowerOutput, error) {
	if err := s.desktop.Restart(); err != nil {
		return nil, PowerOutput{}, fmt.Errorf("restart: %w", err)
	}
	s.logger.Info("mcp tool", "tool", "restart")
	return nil, PowerOutput{ShutDown: false}, nil
}

func (s *Server) handleReadDocument(_ context.Context, _ *mcpsdk.CallToolRequest, args ReadDocumentInput) (*mcpsdk.CallToolResult, ReadDocumentOutput, error) {
	if err := requireApp("read_document", args.App); err != nil {
		return nil, ReadDocumentOutput{}, err
	}
	md, found := content.Markdown(args.App)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: md},
		},
	}, ReadDocumentOutput{App: args.App, Markdown: md, Found: found}, nil
}

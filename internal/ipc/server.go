package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/retrodesk/internal/runtimepath"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// DefaultRequestTimeout bounds how long a request may wait on the desktop.
const DefaultRequestTimeout = 5 * time.Second

// ErrAlreadyRunning is returned when another desktop owns the socket.
var ErrAlreadyRunning = errors.New("another retrodesk is already running")

// Desktop is the running desktop the server drives. Implementations must
// serialize calls onto their own event loop.
type Desktop interface {
	Open(ctx context.Context, app string) error
	Close(ctx context.Context, app string) error
	Minimize(ctx context.Context, app string) error
	Focus(ctx context.Context, app string) error
	Windows(ctx context.Context) ([]wm.WindowState, error)
	Apps(ctx context.Context) ([]AppInfo, error)
	Status(ctx context.Context) (StatusData, error)
	Shutdown(ctx context.Context) error
	Restart(ctx context.Context) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desktop      Desktop
	logger       *slog.Logger
	timeout      time.Duration
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the default socket path.
func NewServer(desktop Desktop, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, desktop, logger)
}

// NewServerAt creates a server on socketPath. A stale socket left by a
// crashed desktop is removed; a live one is an error.
func NewServerAt(socketPath string, desktop Desktop, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if conn, err := net.DialTimeout("unix", socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return nil, fmt.Errorf("%w (socket %s)", ErrAlreadyRunning, socketPath)
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desktop:    desktop,
		logger:     logger,
		timeout:    DefaultRequestTimeout,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection reads one newline-terminated request and answers it.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandOpen:
		return s.handleApp(ctx, req.Payload, s.desktop.Open)
	case CommandClose:
		return s.handleApp(ctx, req.Payload, s.desktop.Close)
	case CommandMinimize:
		return s.handleApp(ctx, req.Payload, s.desktop.Minimize)
	case CommandFocus:
		return s.handleApp(ctx, req.Payload, s.desktop.Focus)
	case CommandListWindows:
		windows, err := s.desktop.Windows(ctx)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
		}
		return okResponse(WindowsData{Windows: windows})
	case CommandListApps:
		apps, err := s.desktop.Apps(ctx)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to list apps: %v", err))
		}
		return okResponse(AppsData{Apps: apps})
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandShutdown:
		if err := s.desktop.Shutdown(ctx); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to shut down: %v", err))
		}
		return okResponse(nil)
	case CommandRestart:
		if err := s.desktop.Restart(ctx); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to restart: %v", err))
		}
		return okResponse(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleApp(ctx context.Context, payload json.RawMessage, fn func(context.Context, string) error) *Response {
	var req AppPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid app payload: %v", err))
	}
	if req.App == "" {
		return NewErrorResponse("app is required")
	}
	if err := fn(ctx, req.App); err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(nil)
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.desktop.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.Running = true
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.PID = os.Getpid()
	return okResponse(status)
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for in-flight requests and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

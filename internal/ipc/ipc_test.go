package ipc

import (
	"bufio"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/retrodesk/internal/wm"
)

type fakeDesktop struct {
	mu       sync.Mutex
	calls    []string
	open     map[string]bool
	shutDown bool
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{open: map[string]bool{}}
}

func (d *fakeDesktop) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *fakeDesktop) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func (d *fakeDesktop) Open(_ context.Context, app string) error {
	d.record("open " + app)
	if app == "missing" {
		return errors.New("no window defined for application: missing")
	}
	d.mu.Lock()
	d.open[app] = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDesktop) Close(_ context.Context, app string) error {
	d.record("close " + app)
	d.mu.Lock()
	delete(d.open, app)
	d.mu.Unlock()
	return nil
}

func (d *fakeDesktop) Minimize(_ context.Context, app string) error {
	d.record("minimize " + app)
	return nil
}

func (d *fakeDesktop) Focus(_ context.Context, app string) error {
	d.record("focus " + app)
	return nil
}

func (d *fakeDesktop) Windows(context.Context) ([]wm.WindowState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []wm.WindowState
	for id := range d.open {
		out = append(out, wm.WindowState{ID: id, Title: id, Visible: true, Focused: true, ZOrder: 21, Initialized: true})
	}
	return out, nil
}

func (d *fakeDesktop) Apps(context.Context) ([]AppInfo, error) {
	return []AppInfo{{ID: "vision", Title: "1. Executive Summary", Desktop: true, StartMenu: true}}, nil
}

func (d *fakeDesktop) Status(context.Context) (StatusData, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return StatusData{ShutDown: d.shutDown, OpenApps: len(d.open), Clock: "09:05"}, nil
}

func (d *fakeDesktop) Shutdown(context.Context) error {
	d.record("shutdown")
	d.mu.Lock()
	d.shutDown = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDesktop) Restart(context.Context) error {
	d.record("restart")
	return nil
}

func startServer(t *testing.T, desktop Desktop) (*Server, *Client) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "rd.sock")
	srv, err := NewServerAt(socket, desktop, nil)
	if err != nil {
		t.Fatalf("NewServerAt() error = %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClientAt(socket)
}

func TestWindowCommandsRoundTrip(t *testing.T) {
	desktop := newFakeDesktop()
	_, client := startServer(t, desktop)

	if err := client.Open("vision"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := client.Minimize("vision"); err != nil {
		t.Fatalf("Minimize() error = %v", err)
	}
	if err := client.Focus("vision"); err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows() error = %v", err)
	}
	if len(windows) != 1 || windows[0].ID != "vision" || windows[0].ZOrder != 21 {
		t.Fatalf("ListWindows() = %+v", windows)
	}
	if err := client.Close("vision"); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := []string{"open vision", "minimize vision", "focus vision", "close vision"}
	if got := desktop.recorded(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestDesktopErrorsSurfaceToClient(t *testing.T) {
	_, client := startServer(t, newFakeDesktop())

	err := client.Open("missing")
	if err == nil || !strings.Contains(err.Error(), "desktop error: no window defined") {
		t.Fatalf("Open() error = %v", err)
	}
	if err := client.Open(""); err == nil || !strings.Contains(err.Error(), "app is required") {
		t.Fatalf("Open(\"\") error = %v", err)
	}
}

func TestStatusAddsServerFields(t *testing.T) {
	_, client := startServer(t, newFakeDesktop())

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !status.Running || status.PID == 0 || status.Clock != "09:05" {
		t.Fatalf("GetStatus() = %+v", status)
	}
	if err := client.Ping(); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestShutdownRestartAndApps(t *testing.T) {
	desktop := newFakeDesktop()
	_, client := startServer(t, desktop)

	if err := client.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	status, err := client.GetStatus()
	if err != nil || !status.ShutDown {
		t.Fatalf("GetStatus() = %+v, %v", status, err)
	}
	if err := client.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	apps, err := client.ListApps()
	if err != nil || len(apps) != 1 || apps[0].ID != "vision" {
		t.Fatalf("ListApps() = %+v, %v", apps, err)
	}
}

func TestUnknownAndMalformedRequests(t *testing.T) {
	srv, _ := startServer(t, newFakeDesktop())

	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown command", `{"command":"TILE"}`, "Unknown command: TILE"},
		{"malformed json", `{nope`, "Invalid request"},
		{"bad payload", `{"command":"OPEN","payload":"x"}`, "Invalid app payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := net.Dial("unix", srv.SocketPath())
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close()
			if _, err := conn.Write([]byte(tt.line + "\n")); err != nil {
				t.Fatalf("write: %v", err)
			}
			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !strings.Contains(line, `"status":"ERROR"`) || !strings.Contains(line, tt.want) {
				t.Fatalf("response = %s, want error containing %q", line, tt.want)
			}
		})
	}
}

func TestSecondServerRefusesLiveSocket(t *testing.T) {
	srv, _ := startServer(t, newFakeDesktop())

	_, err := NewServerAt(srv.SocketPath(), newFakeDesktop(), nil)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("NewServerAt() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestClientWithoutServer(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "none.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is retrodesk running?") {
		t.Fatalf("Ping() error = %v", err)
	}
}

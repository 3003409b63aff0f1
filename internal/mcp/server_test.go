package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// fakeDesktop keeps a tiny window list so tool results can be checked.
type fakeDesktop struct {
	windows  []wm.WindowState
	shutDown bool
	calls    []string
	err      error
}

func (f *fakeDesktop) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeDesktop) find(app string) int {
	for i, w := range f.windows {
		if w.ID == app {
			return i
		}
	}
	return -1
}

func (f *fakeDesktop) Open(app string) error {
	if err := f.record("open " + app); err != nil {
		return err
	}
	for i := range f.windows {
		f.windows[i].Focused = false
	}
	if i := f.find(app); i >= 0 {
		f.windows[i].Visible = true
		f.windows[i].Focused = true
		return nil
	}
	f.windows = append(f.windows, wm.WindowState{ID: app, Visible: true, Focused: true})
	return nil
}

func (f *fakeDesktop) Close(app string) error {
	if err := f.record("close " + app); err != nil {
		return err
	}
	i := f.find(app)
	if i < 0 {
		return errors.New("application is not open: " + app)
	}
	f.windows = append(f.windows[:i], f.windows[i+1:]...)
	return nil
}

func (f *fakeDesktop) Minimize(app string) error {
	if err := f.record("minimize " + app); err != nil {
		return err
	}
	if i := f.find(app); i >= 0 {
		f.windows[i].Visible = false
		f.windows[i].Focused = false
	}
	return nil
}

func (f *fakeDesktop) Focus(app string) error { return f.Open(app) }

func (f *fakeDesktop) Shutdown() error {
	f.shutDown = true
	return f.record("shutdown")
}

func (f *fakeDesktop) Restart() error {
	f.shutDown = false
	return f.record("restart")
}

func (f *fakeDesktop) ListWindows() ([]wm.WindowState, error) {
	return append([]wm.WindowState(nil), f.windows...), nil
}

func (f *fakeDesktop) ListApps() ([]ipc.AppInfo, error) {
	return nil, nil
}

func (f *fakeDesktop) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Running: !f.shutDown, ShutDown: f.shutDown, OpenApps: len(f.windows)}, nil
}

var _ Desktop = (*ipc.Client)(nil)

func TestWindowTools(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	ctx := context.Background()

	_, out, err := s.handleOpen(ctx, nil, AppInput{App: "vision"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !out.Visible || !out.Focused {
		t.Fatalf("open output = %+v, want visible and focused", out)
	}

	_, out, err = s.handleMinimize(ctx, nil, AppInput{App: "vision"})
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if out.Visible {
		t.Fatal("minimized window still visible")
	}

	_, out, err = s.handleFocus(ctx, nil, AppInput{App: "vision"})
	if err != nil || !out.Visible {
		t.Fatalf("focus = %+v, %v", out, err)
	}

	if _, _, err := s.handleClose(ctx, nil, AppInput{App: "vision"}); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, _, err = s.handleClose(ctx, nil, AppInput{App: "vision"})
	if err == nil || !strings.Contains(err.Error(), "not open") {
		t.Fatalf("second close err = %v, want not open", err)
	}

	want := []string{"open vision", "minimize vision", "open vision", "close vision", "close vision"}
	if strings.Join(desk.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", desk.calls, want)
	}
}

func TestWindowToolsRequireApp(t *testing.T) {
	desk := &fakeDesktop{}
	s := NewServer(desk, nil)
	handlers := map[string]func(context.Context, *mcpsdk.CallToolRequest, AppInput) (*mcpsdk.CallToolResult, WindowOutput, error){
		"open_window":     s.handleOpen,
		"close_window":    s.handleClose,
		"minimize_window": s.handleMinimize,
		"focus_window":    s.handleFocus,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			_, _, err := h(context.Background(), nil, AppInput{})
			if err == nil || !strings.Contains(err.Error(), "app is required") {
				t.Fatalf("err = %v, want app is required", err)
			}
		})
	}
	if len(desk.calls) != 0 {
		t.Fatalf("desktop called with an empty app: %v", desk.calls)
	}
}

func TestDesktopErrorsAreWrapped(t *testing.T) {
	desk := &fakeDesktop{err: errors.New("connection refused")}
	s := NewServer(desk, nil)
	_, _, err := s.handleOpen(context.Background(), nil, AppInput{App: "roadmap"})
	if err == nil || !errors.Is(err, desk.err) {
		t.Fatalf("err = %v, want wrapped desktop error", err)
	}
	if !strings.HasPrefix(err.Error(), "open_window roadmap:") {
		t.Fatalf("err = %q", err)
	}
}

func TestListWindows(t *testing.T) {
	desk := &fakeDesktop{windows: []wm.WindowState{
		{ID: "vision", Visible: true, Focused: true, ZOrder: 3},
		{ID: "roadmap", Visible: false, ZOrder: 2},
		{ID: "users", Visible: true, ZOrder: 1},
	}}
	s := NewServer(desk, nil)

	tests := []struct {
		name        string
		visibleOnly bool
		want        []string
	}{
		{"all", false, []string{"vision", "roadmap", "users"}},
		{"visible only", true, []string{"vision", "users"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{VisibleOnly: tt.visibleOnly})
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, w := range out.Windows {
				ids = append(ids, w.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
			if out.Focused != "vision" {
				t.Errorf("focused = %q, want vision", out.Focused)
			}
		})
	}
}

func TestListAppsNeverNil(t *testing.T) {
	s := NewServer(&fakeDesktop{}, nil)
	_, out, err := s.handleListApps(context.Background(), nil, ListAppsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Apps == nil {
		t.Fatal("apps is nil, want an empty list")
	}
}

func TestPowerTools(t *testing.T) {
	desk := &fakeDesktop{windows: []wm.WindowState{{ID: "vision", Visible: true}}}
	s := NewServer(desk, nil)
	ctx := context.Background()

	_, out, err := s.handleShutdown(ctx, nil, PowerInput{})
	if err != nil || !out.ShutDown {
		t.Fatalf("shutdown = %+v, %v", out, err)
	}
	_, st, err := s.handleStatus(ctx, nil, StatusInput{})
	if err != nil || !st.ShutDown || st.Running {
		t.Fatalf("status after shutdown = %+v, %v", st, err)
	}

	_, out, err = s.handleRestart(ctx, nil, PowerInput{})
	if err != nil || out.ShutDown {
		t.Fatalf("restart = %+v, %v", out, err)
	}
	_, st, _ = s.handleStatus(ctx, nil, StatusInput{})
	if !st.Running {
		t.Fatal("desktop not running after restart")
	}
}

func TestReadDocument(t *testing.T) {
	s := NewServer(&fakeDesktop{}, nil)

	res, out, err := s.handleReadDocument(context.Background(), nil, ReadDocumentInput{App: "vision"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Found || out.Markdown == "" {
		t.Fatalf("vision document = %+v", out)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(res.Content))
	}

	_, out, err = s.handleReadDocument(context.Background(), nil, ReadDocumentInput{App: "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Found || !strings.Contains(out.Markdown, "not implemented") {
		t.Fatalf("unknown document = %+v", out)
	}
}

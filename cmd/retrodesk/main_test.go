package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()
	fn()
	w.Close()
	return <-done
}

type stubDesktop struct {
	mu    sync.Mutex
	calls []string
}

func (d *stubDesktop) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *stubDesktop) recorded() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Join(d.calls, ",")
}

func (d *stubDesktop) Open(_ context.Context, app string) error {
	if app == "missing" {
		return errors.New("unknown application: missing")
	}
	d.record("open " + app)
	return nil
}

func (d *stubDesktop) Close(_ context.Context, app string) error {
	d.record("close " + app)
	return nil
}

func (d *stubDesktop) Minimize(_ context.Context, app string) error {
	d.record("minimize " + app)
	return nil
}

func (d *stubDesktop) Focus(_ context.Context, app string) error {
	d.record("focus " + app)
	return nil
}

func (d *stubDesktop) Windows(context.Context) ([]wm.WindowState, error) {
	return []wm.WindowState{{ID: "vision", Title: "Vision", Visible: true, Focused: true, ZOrder: 1}}, nil
}

func (d *stubDesktop) Apps(context.Context) ([]ipc.AppInfo, error) {
	return []ipc.AppInfo{{ID: "vision", Title: "Vision", Icon: "vision", Desktop: true, Open: true}}, nil
}

func (d *stubDesktop) Status(context.Context) (ipc.StatusData, error) {
	return ipc.StatusData{Running: true, OpenApps: 1, Focused: "vision", Clock: "09:05"}, nil
}

func (d *stubDesktop) Shutdown(context.Context) error {
	d.record("shutdown")
	return nil
}

func (d *stubDesktop) Restart(context.Context) error {
	d.record("restart")
	return nil
}

func startDesktop(t *testing.T) (*stubDesktop, string) {
	t.Helper()
	desk := &stubDesktop{}
	socket := filepath.Join(t.TempDir(), "rd.sock")
	srv, err := ipc.NewServerAt(socket, desk, nil)
	if err != nil {
		t.Fatalf("NewServerAt: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return desk, socket
}

func TestDispatchUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
		want int
	}{
		{"unknown command", "frobnicate", nil, 2},
		{"help", "help", nil, 0},
		{"open without app", "open", nil, 2},
		{"open with two apps", "open", []string{"a", "b"}, 2},
		{"open help", "open", []string{"--help"}, 0},
		{"status with args", "status", []string{"extra"}, 2},
		{"shutdown with args", "shutdown", []string{"now"}, 2},
		{"render without app", "render", nil, 2},
		{"render narrow", "render", []string{"--width", "5", "vision"}, 2},
		{"config without sub", "config", nil, 2},
		{"config unknown sub", "config", []string{"nope"}, 2},
		{"config explain without path", "config", []string{"explain"}, 2},
		{"mcp without sub", "mcp", nil, 2},
		{"mcp unknown sub", "mcp", []string{"nope"}, 2},
		{"bad flag", "windows", []string{"--bogus"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dispatch(tt.cmd, tt.args); got != tt.want {
				t.Errorf("dispatch(%q, %v) = %d, want %d", tt.cmd, tt.args, got, tt.want)
			}
		})
	}
}

func TestRemoteCommands(t *testing.T) {
	desk, socket := startDesktop(t)

	for _, cmd := range []string{"open", "minimize", "focus", "close"} {
		if rc := dispatch(cmd, []string{"--socket", socket, "vision"}); rc != 0 {
			t.Fatalf("%s rc = %d, want 0", cmd, rc)
		}
	}
	if rc := dispatch("shutdown", []string{"--socket", socket}); rc != 0 {
		t.Fatalf("shutdown rc = %d", rc)
	}
	if rc := dispatch("restart", []string{"--socket", socket}); rc != 0 {
		t.Fatalf("restart rc = %d", rc)
	}

	want := "open vision,minimize vision,focus vision,close vision,shutdown,restart"
	if got := desk.recorded(); got != want {
		t.Fatalf("calls = %s, want %s", got, want)
	}

	if rc := dispatch("open", []string{"--socket", socket, "missing"}); rc != 1 {
		t.Fatalf("open missing rc = %d, want 1", rc)
	}
}

func TestListingCommands(t *testing.T) {
	_, socket := startDesktop(t)

	out := captureStdout(t, func() {
		if rc := dispatch("windows", []string{"--socket", socket}); rc != 0 {
			t.Errorf("windows rc = %d", rc)
		}
	})
	if !strings.Contains(out, "ID") || !strings.Contains(out, "vision") {
		t.Fatalf("windows output = %q", out)
	}

	out = captureStdout(t, func() {
		if rc := dispatch("apps", []string{"--socket", socket, "--json"}); rc != 0 {
			t.Errorf("apps rc = %d", rc)
		}
	})
	if !strings.Contains(out, `"id": "vision"`) || !strings.Contains(out, `"open": true`) {
		t.Fatalf("apps output = %q", out)
	}

	out = captureStdout(t, func() {
		if rc := dispatch("status", []string{"--socket", socket}); rc != 0 {
			t.Errorf("status rc = %d", rc)
		}
	})
	if !strings.Contains(out, "focused:        vision") {
		t.Fatalf("status output = %q", out)
	}
}

func TestRemoteWithoutDesktop(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "none.sock")
	if rc := dispatch("windows", []string{"--socket", socket}); rc != 1 {
		t.Fatalf("windows rc = %d, want 1", rc)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("theme: midnight\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if rc := dispatch("config", []string{"validate", "--path", path}); rc != 0 {
			t.Errorf("validate rc = %d", rc)
		}
	})
	if !strings.HasPrefix(out, "config: ok") {
		t.Fatalf("validate output = %q", out)
	}

	out = captureStdout(t, func() {
		if rc := dispatch("config", []string{"print", "--path", path}); rc != 0 {
			t.Errorf("print rc = %d", rc)
		}
	})
	if !strings.Contains(out, "theme: midnight") {
		t.Fatalf("print output missing file value: %q", out)
	}

	out = captureStdout(t, func() {
		if rc := dispatch("config", []string{"print", "--defaults"}); rc != 0 {
			t.Errorf("print --defaults rc = %d", rc)
		}
	})
	if !strings.Contains(out, "theme: classic") {
		t.Fatalf("defaults output = %q", out)
	}

	out = captureStdout(t, func() {
		if rc := dispatch("config", []string{"explain", "--path", path, "theme"}); rc != 0 {
			t.Errorf("explain rc = %d", rc)
		}
	})
	if !strings.Contains(out, "source: file:") || !strings.Contains(out, "config.yaml:1:") {
		t.Fatalf("explain output = %q", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("window:\n  width: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rc := dispatch("config", []string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc = %d, want 1", rc)
	}
}

func TestRenderRaw(t *testing.T) {
	out := captureStdout(t, func() {
		if rc := dispatch("render", []string{"--raw", "vision"}); rc != 0 {
			t.Errorf("render rc = %d", rc)
		}
	})
	if strings.TrimSpace(out) == "" {
		t.Fatal("render --raw printed nothing")
	}

	out = captureStdout(t, func() {
		if rc := dispatch("render", []string{"--raw", "nope"}); rc != 1 {
			t.Errorf("render unknown rc = %d, want 1", rc)
		}
	})
	if !strings.Contains(out, "not implemented") {
		t.Fatalf("unknown render output = %q", out)
	}
}

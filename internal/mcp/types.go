package mcp

import (
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// AppInput names the application a window tool targets.
type AppInput struct {
	App string `json:"app" jsonschema:"required,Application id as listed by list_apps (e.g. vision, roadmap, splashScreen)"`
}

// WindowOutput reports the state of one window after a tool ran.
type WindowOutput struct {
	App     string `json:"app"`
	Visible bool   `json:"visible"`
	Focused bool   `json:"focused"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	VisibleOnly bool `json:"visible_only,omitempty" jsonschema:"When true, omit hidden windows (default: false)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []wm.WindowState `json:"windows"`
	Focused string           `json:"focused,omitempty"`
}

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []ipc.AppInfo `json:"apps"`
}

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Running       bool   `json:"running"`
	ShutDown      bool   `json:"shut_down"`
	Focused       string `json:"focused,omitempty"`
	OpenApps      int    `json:"open_apps"`
	Clock         string `json:"clock"`
	Restarts      int    `json:"restarts"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// PowerInput is the input for the shutdown and restart tools.
type PowerInput struct{}

// PowerOutput is the output for the shutdown and restart tools.
type PowerOutput struct {
	ShutDown bool `json:"shut_down"`
}

// ReadDocumentInput is the input for the read_document tool.
type ReadDocumentInput struct {
	App string `json:"app" jsonschema:"required,Application id whose document to read"`
}

// ReadDocumentOutput is the output for the read_document tool.
type ReadDocumentOutput struct {
	App      string `json:"app"`
	Markdown string `json:"markdown"`
	Found    bool   `json:"found"`
}

package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retrodesk/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen        CommandType = "OPEN"
	CommandClose       CommandType = "CLOSE"
	CommandMinimize    CommandType = "MINIMIZE"
	CommandFocus       CommandType = "FOCUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandListApps    CommandType = "LIST_APPS"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandShutdown    CommandType = "SHUTDOWN"
	CommandRestart     CommandType = "RESTART"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AppPayload names the application a window command targets.
type AppPayload struct {
	App string `json:"app"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Running       bool   `json:"running"`
	ShutDown      bool   `json:"shut_down"`
	Focused       string `json:"focused,omitempty"`
	OpenApps      int    `json:"open_apps"`
	Clock         string `json:"clock"`
	Restarts      int    `json:"restarts"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	PID           int    `json:"pid"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []wm.WindowState `json:"windows"`
}

// AppInfo describes one configured application.
type AppInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Desktop   bool   `json:"desktop"`
	StartMenu bool   `json:"start_menu"`
	Open      bool   `json:"open"`
}

// AppsData represents the data returned by LIST_APPS
type AppsData struct {
	Apps []AppInfo `json:"apps"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/retrodesk/internal/runtimepath"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// Client talks to a running desktop over its unix socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultRequestTimeout + time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is retrodesk running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) appCommand(cmd CommandType, app string) error {
	payload, err := json.Marshal(AppPayload{App: app})
	if err != nil {
		return fmt.Errorf("failed to marshal app payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: cmd, Payload: payload})
	return err
}

// Open opens (or restores and focuses) an application window.
func (c *Client) Open(app string) error {
	return c.appCommand(CommandOpen, app)
}

// Close closes an application window.
func (c *Client) Close(app string) error {
	return c.appCommand(CommandClose, app)
}

// Minimize hides an application window, keeping its taskbar button.
func (c *Client) Minimize(app string) error {
	return c.appCommand(CommandMinimize, app)
}

// Focus raises an open, visible window.
func (c *Client) Focus(app string) error {
	return c.appCommand(CommandFocus, app)
}

// Shutdown closes every window and shows the shutdown screen.
func (c *Client) Shutdown() error {
	_, err := c.sendRequest(&Request{Command: CommandShutdown})
	return err
}

// Restart boots a fresh desktop.
func (c *Client) Restart() error {
	_, err := c.sendRequest(&Request{Command: CommandRestart})
	return err
}

// ListWindows returns the open windows in registry order.
func (c *Client) ListWindows() ([]wm.WindowState, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}
	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// ListApps returns the configured applications.
func (c *Client) ListApps() ([]AppInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListApps})
	if err != nil {
		return nil, err
	}
	var data AppsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse apps data: %w", err)
	}
	return data.Apps, nil
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

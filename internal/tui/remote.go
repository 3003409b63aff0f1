package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// Remote forwards IPC requests onto the bubbletea event loop. It implements
// ipc.Desktop.
type Remote struct {
	send func(tea.Msg)
}

// NewRemote creates a Remote that delivers messages with send, normally
// (*tea.Program).Send.
func NewRemote(send func(tea.Msg)) *Remote {
	return &Remote{send: send}
}

func (r *Remote) call(ctx context.Context, fn func(m *model) (any, error)) (any, error) {
	reply := make(chan remoteReply, 1)
	msg := remoteMsg{ctx: ctx, fn: fn, reply: reply}
	// Send blocks until the program reads the message.
	go r.send(msg)
	select {
	case res := <-reply:
		return res.value, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("desktop did not respond: %w", ctx.Err())
	}
}

func (r *Remote) do(ctx context.Context, fn func(m *model) error) error {
	_, err := r.call(ctx, func(m *model) (any, error) {
		return nil, fn(m)
	})
	return err
}

// openEntry returns the registry entry of an open application.
func (m *model) openEntry(app string) (*wm.Entry, error) {
	if m.shell.ShutDown() {
		return nil, shell.ErrShutDown
	}
	e, ok := m.shell.Manager().Entry(app)
	if !ok {
		return nil, fmt.Errorf("application is not open: %s", app)
	}
	return e, nil
}

func (r *Remote) Open(ctx context.Context, app string) error {
	return r.do(ctx, func(m *model) error {
		return m.shell.Open(app)
	})
}

func (r *Remote) Close(ctx context.Context, app string) error {
	return r.do(ctx, func(m *model) error {
		if _, err := m.openEntry(app); err != nil {
			return err
		}
		m.shell.ClickClose(app)
		return nil
	})
}

func (r *Remote) Minimize(ctx context.Context, app string) error {
	return r.do(ctx, func(m *model) error {
		if _, err := m.openEntry(app); err != nil {
			return err
		}
		m.shell.ClickMinimize(app)
		return nil
	})
}

// Focus restores a minimized window or raises a visible one.
func (r *Remote) Focus(ctx context.Context, app string) error {
	return r.do(ctx, func(m *model) error {
		if _, err := m.openEntry(app); err != nil {
			return err
		}
		return m.shell.Open(app)
	})
}

func (r *Remote) Windows(ctx context.Context) ([]wm.WindowState, error) {
	v, err := r.call(ctx, func(m *model) (any, error) {
		return m.shell.Manager().Snapshot(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]wm.WindowState), nil
}

func (r *Remote) Apps(ctx context.Context) ([]ipc.AppInfo, error) {
	v, err := r.call(ctx, func(m *model) (any, error) {
		out := make([]ipc.AppInfo, 0, len(m.cfg.Apps))
		for _, a := range m.cfg.Apps {
			_, open := m.shell.Manager().Entry(a.ID)
			out = append(out, ipc.AppInfo{
				ID:        a.ID,
				Title:     a.Title,
				Icon:      a.IconKey(),
				Desktop:   a.Desktop,
				StartMenu: a.StartMenu,
				Open:      open,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ipc.AppInfo), nil
}

func (r *Remote) Status(ctx context.Context) (ipc.StatusData, error) {
	v, err := r.call(ctx, func(m *model) (any, error) {
		s := m.shell.Status()
		return ipc.StatusData{
			ShutDown: s.ShutDown,
			Focused:  s.Focused,
			OpenApps: s.OpenApps,
			Clock:    s.Clock,
			Restarts: s.Restarts,
		}, nil
	})
	if err != nil {
		return ipc.StatusData{}, err
	}
	return v.(ipc.StatusData), nil
}

func (r *Remote) Shutdown(ctx context.Context) error {
	return r.do(ctx, func(m *model) error {
		m.shell.Shutdown()
		return nil
	})
}

func (r *Remote) Restart(ctx context.Context) error {
	return r.do(ctx, func(m *model) error {
		m.restart()
		return nil
	})
}

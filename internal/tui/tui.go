package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/wm"
)

// Options configures Run.
type Options struct {
	Config    *config.Config
	Populator wm.Populator
	Logger    *slog.Logger

	// Serve starts the IPC server so other processes can drive the desktop.
	Serve bool
	// SocketPath overrides the default IPC socket path.
	SocketPath string
}

// Run shows the desktop in the terminal until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("retrodesk requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m, err := newModel(ctx, modelOptions{
		Config:    opts.Config,
		Populator: opts.Populator,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer m.loop.stop()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if opts.Serve {
		var srv *ipc.Server
		if opts.SocketPath != "" {
			srv, err = ipc.NewServerAt(opts.SocketPath, NewRemote(p.Send), logger)
		} else {
			srv, err = ipc.NewServer(NewRemote(p.Send), logger)
		}
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	logger.Info("desktop starting", "theme", m.cfg.Theme, "apps", len(m.cfg.Apps))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("desktop exited: %w", err)
	}
	logger.Info("desktop stopped")
	return nil
}

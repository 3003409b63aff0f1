package tui

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/retrodesk/internal/config"
)

// settingsModel edits the desktop settings in a form, previews the YAML
// diff and saves on confirmation.
type settingsModel struct {
	original *config.Config
	edited   *config.Config
	save     func(*config.Config) error

	width  int
	height int

	form    *huh.Form
	overlay saveOverlay
	done    bool

	// Form-bound values (strings for huh, converted on submit)
	fTheme         string
	fLogLevel      string
	fMarkdownStyle string
	fClockFormat   string
	fSplashApp     string
	fIntroApp      string
	fContentDelay  string
	fDiagramDelay  string
	fSplashHandoff string
	fOverlayDelay  string
	fWindowWidth   string
	fWindowHeight  string
}

func newSettingsModel(cfg *config.Config, save func(*config.Config) error) *settingsModel {
	s := &settingsModel{original: cfg, save: save, width: 80, height: 24}
	s.buildForm()
	return s
}

func nonNegative(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number >= 0")
	}
	return nil
}

func atLeast(floor int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < floor {
			return fmt.Errorf("must be a whole number >= %d", floor)
		}
		return nil
	}
}

func (s *settingsModel) buildForm() {
	cfg := s.original
	s.fTheme = string(cfg.Theme)
	s.fLogLevel = cfg.LogLevel
	s.fMarkdownStyle = cfg.MarkdownStyle
	s.fClockFormat = cfg.ClockFormat
	s.fSplashApp = cfg.SplashApp
	s.fIntroApp = cfg.IntroApp
	s.fContentDelay = strconv.Itoa(cfg.Timings.ContentDelayMS)
	s.fDiagramDelay = strconv.Itoa(cfg.Timings.DiagramDelayMS)
	s.fSplashHandoff = strconv.Itoa(cfg.Timings.SplashHandoffMS)
	s.fOverlayDelay = strconv.Itoa(cfg.Timings.ShutdownOverlayMS)
	s.fWindowWidth = strconv.Itoa(cfg.Window.Width)
	s.fWindowHeight = strconv.Itoa(cfg.Window.Height)

	w := max(40, s.width-4)
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("theme").
				Title("Theme").
				Description("Desktop color scheme").
				Options(
					huh.NewOption("classic", string(config.ThemeClassic)),
					huh.NewOption("midnight", string(config.ThemeMidnight)),
				).
				Value(&s.fTheme),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("error", "error"),
				).
				Value(&s.fLogLevel),

			huh.NewSelect[string]().
				Key("markdown_style").
				Title("Markdown Style").
				Description("Glamour style used for window content").
				Options(markdownStyleOptions()...).
				Value(&s.fMarkdownStyle),

			huh.NewInput().
				Key("clock_format").
				Title("Clock Format").
				Description("Go time layout shown in the taskbar").
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("clock format is required")
					}
					return nil
				}).
				Value(&s.fClockFormat),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("splash_app").
				Title("Splash App").
				Description("Closing it opens the intro app once").
				Options(s.appOptions()...).
				Value(&s.fSplashApp),

			huh.NewSelect[string]().
				Key("intro_app").
				Title("Intro App").
				Options(s.appOptions()...).
				Value(&s.fIntroApp),

			huh.NewInput().
				Key("window_width").
				Title("Window Width").
				Validate(atLeast(20)).
				Value(&s.fWindowWidth),

			huh.NewInput().
				Key("window_height").
				Title("Window Height").
				Validate(atLeast(5)).
				Value(&s.fWindowHeight),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("content_delay_ms").
				Title("Content Delay (ms)").
				Validate(nonNegative).
				Value(&s.fContentDelay),
			huh.NewInput().
				Key("diagram_delay_ms").
				Title("Diagram Delay (ms)").
				Validate(nonNegative).
				Value(&s.fDiagramDelay),
			huh.NewInput().
				Key("splash_handoff_ms").
				Title("Splash Hand-off (ms)").
				Validate(nonNegative).
				Value(&s.fSplashHandoff),
			huh.NewInput().
				Key("shutdown_overlay_ms").
				Title("Shutdown Overlay Delay (ms)").
				Validate(nonNegative).
				Value(&s.fOverlayDelay),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)
}

func markdownStyleOptions() []huh.Option[string] {
	names := make([]string, 0, len(glamourstyles.DefaultStyles))
	for name := range glamourstyles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opts = append(opts, huh.NewOption(name, name))
	}
	return opts
}

// appOptions lists every configured app plus "none", which disables the
// splash hand-off.
func (s *settingsModel) appOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, a := range s.original.Apps {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", a.Title, a.ID), a.ID))
	}
	return opts
}

// applyForm copies the form values onto a clone of the original config.
func (s *settingsModel) applyForm() *config.Config {
	cfg := cloneConfig(s.original)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Theme = config.Theme(s.fTheme)
	cfg.LogLevel = s.fLogLevel
	cfg.MarkdownStyle = s.fMarkdownStyle
	cfg.ClockFormat = strings.TrimSpace(s.fClockFormat)
	cfg.SplashApp = s.fSplashApp
	cfg.IntroApp = s.fIntroApp

	atoi := func(v string, dst *int) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
	atoi(s.fContentDelay, &cfg.Timings.ContentDelayMS)
	atoi(s.fDiagramDelay, &cfg.Timings.DiagramDelayMS)
	atoi(s.fSplashHandoff, &cfg.Timings.SplashHandoffMS)
	atoi(s.fOverlayDelay, &cfg.Timings.ShutdownOverlayMS)
	atoi(s.fWindowWidth, &cfg.Window.Width)
	atoi(s.fWindowHeight, &cfg.Window.Height)
	if cfg.Window.EdgeMargin > cfg.Window.Width {
		cfg.Window.EdgeMargin = cfg.Window.Width
	}
	return cfg
}

func (s *settingsModel) Init() tea.Cmd {
	return s.form.Init()
}

func (s *settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = ws.Width
		s.height = ws.Height
		s.form = s.form.WithWidth(max(40, ws.Width-4))
	}

	if s.overlay.active() {
		s.overlay = s.overlay.update(msg, s.edited, s.save)
		if s.overlay.phase == saveHidden {
			if s.done {
				return s, tea.Quit
			}
			// Back to an editable form with the values just entered.
			s.form.State = huh.StateNormal
			return s, s.form.Init()
		}
		if s.overlay.saved() {
			s.done = true
		}
		return s, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "esc" || km.String() == "ctrl+c") {
		return s, tea.Quit
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	switch s.form.State {
	case huh.StateCompleted:
		s.edited = s.applyForm()
		s.overlay.show(s.original, s.edited)
		return s, nil
	case huh.StateAborted:
		return s, tea.Quit
	}
	return s, cmd
}

func (s *settingsModel) View() string {
	if s.overlay.active() {
		return s.overlay.view(s.width, s.height)
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Render("retrodesk settings")
	return title + "\n\n" + s.form.View()
}

// EditSettings runs the interactive settings editor. save writes the
// confirmed config.
func EditSettings(cfg *config.Config, save func(*config.Config) error) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config edit requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if save == nil {
		save = (*config.Config).Save
	}
	if _, err := tea.NewProgram(newSettingsModel(cfg, save), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("settings editor failed: %w", err)
	}
	return nil
}

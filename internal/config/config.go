package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"gopkg.in/yaml.v3"
)

// Theme names a desktop color scheme.
type Theme string

const (
	ThemeClassic  Theme = "classic"  // Teal desktop, grey chrome.
	ThemeMidnight Theme = "midnight" // Dark desktop for dark terminals.
)

// App describes one application: a desktop icon and/or start-menu entry
// backed by a window.
type App struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	// Icon overrides the icon key; empty means the app id.
	Icon      string `yaml:"icon,omitempty"`
	Desktop   bool   `yaml:"desktop"`
	StartMenu bool   `yaml:"start_menu"`
}

// IconKey returns the icon table key for the app.
func (a App) IconKey() string {
	if a.Icon != "" {
		return a.Icon
	}
	return a.ID
}

// Timings holds the delays of the shell's asynchronous steps, in milliseconds.
type Timings struct {
	ContentDelayMS    int `yaml:"content_delay_ms"`
	DiagramDelayMS    int `yaml:"diagram_delay_ms"`
	SplashHandoffMS   int `yaml:"splash_handoff_ms"`
	ShutdownOverlayMS int `yaml:"shutdown_overlay_ms"`
	FrameMS           int `yaml:"frame_ms"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (t Timings) ContentDelay() time.Duration    { return ms(t.ContentDelayMS) }
func (t Timings) DiagramDelay() time.Duration    { return ms(t.DiagramDelayMS) }
func (t Timings) SplashHandoff() time.Duration   { return ms(t.SplashHandoffMS) }
func (t Timings) ShutdownOverlay() time.Duration { return ms(t.ShutdownOverlayMS) }
func (t Timings) Frame() time.Duration           { return ms(t.FrameMS) }

// WindowSize is the default window geometry in terminal cells.
type WindowSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// EdgeMargin is how many columns of a dragged window stay on screen.
	EdgeMargin int `yaml:"edge_margin"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	// File is the log file path (default: ~/.local/share/retrodesk/retrodesk.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
	// Journal also sends records to the systemd journal when it is reachable.
	Journal bool `yaml:"journal,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Theme         Theme         `yaml:"theme"`
	LogLevel      string        `yaml:"log_level"`
	Logging       LoggingConfig `yaml:"logging,omitempty"`
	SplashApp     string        `yaml:"splash_app"`
	IntroApp      string        `yaml:"intro_app"`
	Timings       Timings       `yaml:"timings"`
	ClockFormat   string        `yaml:"clock_format"`
	Window        WindowSize    `yaml:"window"`
	TaskbarHeight int           `yaml:"taskbar_height"`
	MarkdownStyle string        `yaml:"markdown_style"`
	Apps          []App         `yaml:"apps"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:     ThemeClassic,
		LogLevel:  "info",
		SplashApp: "splashScreen",
		IntroApp:  "prdIntro",
		Timings: Timings{
			ContentDelayMS:    80,
			DiagramDelayMS:    100,
			SplashHandoffMS:   100,
			ShutdownOverlayMS: 300,
			FrameMS:           16,
		},
		ClockFormat: "15:04",
		Window: WindowSize{
			Width:      72,
			Height:     20,
			EdgeMargin: 8,
		},
		TaskbarHeight: 1,
		MarkdownStyle: "dark",
		Apps:          BuiltinApps(),
	}
}

// App returns the configured app with the given id.
func (c *Config) App(id string) (App, bool) {
	for _, a := range c.Apps {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

// Label returns the desktop icon label of id. Apps without a desktop icon
// have no label.
func (c *Config) Label(id string) (string, bool) {
	a, ok := c.App(id)
	if !ok || !a.Desktop {
		return "", false
	}
	return a.Title, true
}

// DesktopApps returns the apps shown as desktop icons, in config order.
func (c *Config) DesktopApps() []App {
	var out []App
	for _, a := range c.Apps {
		if a.Desktop {
			out = append(out, a)
		}
	}
	return out
}

// StartMenuApps returns the apps listed in the start menu, in config order.
func (c *Config) StartMenuApps() []App {
	var out []App
	for _, a := range c.Apps {
		if a.StartMenu {
			out = append(out, a)
		}
	}
	return out
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/retrodesk/retrodesk.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates the configuration and writes it to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeClassic, ThemeMidnight:
	default:
		return &ValidationError{Path: "theme", Err: fmt.Errorf("theme must be one of: classic, midnight")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	timings := []struct {
		path  string
		value int
	}{
		{"timings.content_delay_ms", c.Timings.ContentDelayMS},
		{"timings.diagram_delay_ms", c.Timings.DiagramDelayMS},
		{"timings.splash_handoff_ms", c.Timings.SplashHandoffMS},
		{"timings.shutdown_overlay_ms", c.Timings.ShutdownOverlayMS},
	}
	for _, t := range timings {
		if t.value < 0 {
			return &ValidationError{Path: t.path, Err: fmt.Errorf("must be >= 0")}
		}
	}
	if c.Timings.FrameMS <= 0 {
		return &ValidationError{Path: "timings.frame_ms", Err: fmt.Errorf("frame_ms must be > 0")}
	}

	if strings.TrimSpace(c.ClockFormat) == "" {
		return &ValidationError{Path: "clock_format", Err: fmt.Errorf("clock_format is required")}
	}
	if c.Window.Width < 20 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be >= 20")}
	}
	if c.Window.Height < 5 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be >= 5")}
	}
	if c.Window.EdgeMargin < 1 || c.Window.EdgeMargin > c.Window.Width {
		return &ValidationError{Path: "window.edge_margin", Err: fmt.Errorf("edge_margin must be between 1 and window.width")}
	}
	if c.TaskbarHeight < 1 {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 1")}
	}
	if _, ok := styles.DefaultStyles[c.MarkdownStyle]; !ok {
		return &ValidationError{Path: "markdown_style", Err: fmt.Errorf("unknown markdown_style %q", c.MarkdownStyle)}
	}

	if len(c.Apps) == 0 {
		return &ValidationError{Path: "apps", Err: fmt.Errorf("apps must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Apps))
	for i, a := range c.Apps {
		if strings.TrimSpace(a.ID) == "" {
			return &ValidationError{Path: "apps", Err: fmt.Errorf("apps[%d] has an empty id", i)}
		}
		if _, dup := seen[a.ID]; dup {
			return &ValidationError{Path: "apps." + a.ID, Err: fmt.Errorf("duplicate app id %q", a.ID)}
		}
		seen[a.ID] = struct{}{}
		if strings.TrimSpace(a.Title) == "" {
			return &ValidationError{Path: "apps." + a.ID + ".title", Err: fmt.Errorf("app %q has an empty title", a.ID)}
		}
	}
	if c.SplashApp != "" {
		if _, ok := seen[c.SplashApp]; !ok {
			return &ValidationError{Path: "splash_app", Err: fmt.Errorf("splash_app %q not found in apps", c.SplashApp)}
		}
	}
	if c.IntroApp != "" {
		if _, ok := seen[c.IntroApp]; !ok {
			return &ValidationError{Path: "intro_app", Err: fmt.Errorf("intro_app %q not found in apps", c.IntroApp)}
		}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string
	for _, a := range c.Apps {
		if !a.Desktop && !a.StartMenu {
			warnings = append(warnings, fmt.Sprintf("app %q has neither a desktop icon nor a start menu entry; it can only be opened remotely", a.ID))
		}
	}
	if (c.SplashApp == "") != (c.IntroApp == "") {
		warnings = append(warnings, "splash_app and intro_app must both be set for the splash hand-off; it is disabled")
	}
	return warnings
}

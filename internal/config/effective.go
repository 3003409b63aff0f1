package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Theme != nil {
		cfg.Theme = *raw.Theme
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Logging != nil {
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
		if raw.Logging.Journal != nil {
			cfg.Logging.Journal = *raw.Logging.Journal
		}
	}
	if raw.SplashApp != nil {
		cfg.SplashApp = *raw.SplashApp
	}
	if raw.IntroApp != nil {
		cfg.IntroApp = *raw.IntroApp
	}
	if raw.Timings != nil {
		t := raw.Timings
		cfg.Timings.ContentDelayMS = derefInt(t.ContentDelayMS, cfg.Timings.ContentDelayMS)
		cfg.Timings.DiagramDelayMS = derefInt(t.DiagramDelayMS, cfg.Timings.DiagramDelayMS)
		cfg.Timings.SplashHandoffMS = derefInt(t.SplashHandoffMS, cfg.Timings.SplashHandoffMS)
		cfg.Timings.ShutdownOverlayMS = derefInt(t.ShutdownOverlayMS, cfg.Timings.ShutdownOverlayMS)
		cfg.Timings.FrameMS = derefInt(t.FrameMS, cfg.Timings.FrameMS)
	}
	if raw.ClockFormat != nil {
		cfg.ClockFormat = *raw.ClockFormat
	}
	if raw.Window != nil {
		cfg.Window.Width = derefInt(raw.Window.Width, cfg.Window.Width)
		cfg.Window.Height = derefInt(raw.Window.Height, cfg.Window.Height)
		cfg.Window.EdgeMargin = derefInt(raw.Window.EdgeMargin, cfg.Window.EdgeMargin)
	}
	if raw.TaskbarHeight != nil {
		cfg.TaskbarHeight = *raw.TaskbarHeight
	}
	if raw.MarkdownStyle != nil {
		cfg.MarkdownStyle = *raw.MarkdownStyle
	}
	if raw.Apps != nil {
		apps := make([]App, len(raw.Apps))
		copy(apps, raw.Apps)
		cfg.Apps = apps
	}

	return cfg, nil
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

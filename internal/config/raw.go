package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawTimings struct {
	ContentDelayMS    *int `yaml:"content_delay_ms"`
	DiagramDelayMS    *int `yaml:"diagram_delay_ms"`
	SplashHandoffMS   *int `yaml:"splash_handoff_ms"`
	ShutdownOverlayMS *int `yaml:"shutdown_overlay_ms"`
	FrameMS           *int `yaml:"frame_ms"`
}

type RawWindowSize struct {
	Width      *int `yaml:"width"`
	Height     *int `yaml:"height"`
	EdgeMargin *int `yaml:"edge_margin"`
}

type RawLoggingConfig struct {
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
	Journal   *bool   `yaml:"journal"`
}

type RawConfig struct {
	Include       IncludeList       `yaml:"include"`
	Theme         *Theme            `yaml:"theme"`
	LogLevel      *string           `yaml:"log_level"`
	Logging       *RawLoggingConfig `yaml:"logging"`
	SplashApp     *string           `yaml:"splash_app"`
	IntroApp      *string           `yaml:"intro_app"`
	Timings       *RawTimings       `yaml:"timings"`
	ClockFormat   *string           `yaml:"clock_format"`
	Window        *RawWindowSize    `yaml:"window"`
	TaskbarHeight *int              `yaml:"taskbar_height"`
	MarkdownStyle *string           `yaml:"markdown_style"`
	Apps          []App             `yaml:"apps"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Theme != nil {
		out.Theme = overlay.Theme
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := mergeRawLogging(*out.Logging, *overlay.Logging)
		out.Logging = &merged
	}
	if overlay.SplashApp != nil {
		out.SplashApp = overlay.SplashApp
	}
	if overlay.IntroApp != nil {
		out.IntroApp = overlay.IntroApp
	}
	if overlay.Timings != nil {
		if out.Timings == nil {
			out.Timings = &RawTimings{}
		}
		merged := mergeRawTimings(*out.Timings, *overlay.Timings)
		out.Timings = &merged
	}
	if overlay.ClockFormat != nil {
		out.ClockFormat = overlay.ClockFormat
	}
	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindowSize{}
		}
		merged := mergeRawWindowSize(*out.Window, *overlay.Window)
		out.Window = &merged
	}
	if overlay.TaskbarHeight != nil {
		out.TaskbarHeight = overlay.TaskbarHeight
	}
	if overlay.MarkdownStyle != nil {
		out.MarkdownStyle = overlay.MarkdownStyle
	}
	// The app table is replaced as a whole.
	if overlay.Apps != nil {
		out.Apps = overlay.Apps
	}

	return out
}

func mergeRawLogging(base RawLoggingConfig, overlay RawLoggingConfig) RawLoggingConfig {
	out := base
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	if overlay.Journal != nil {
		out.Journal = overlay.Journal
	}
	return out
}

func mergeRawTimings(base RawTimings, overlay RawTimings) RawTimings {
	out := base
	if overlay.ContentDelayMS != nil {
		out.ContentDelayMS = overlay.ContentDelayMS
	}
	if overlay.DiagramDelayMS != nil {
		out.DiagramDelayMS = overlay.DiagramDelayMS
	}
	if overlay.SplashHandoffMS != nil {
		out.SplashHandoffMS = overlay.SplashHandoffMS
	}
	if overlay.ShutdownOverlayMS != nil {
		out.ShutdownOverlayMS = overlay.ShutdownOverlayMS
	}
	if overlay.FrameMS != nil {
		out.FrameMS = overlay.FrameMS
	}
	return out
}

func mergeRawWindowSize(base RawWindowSize, overlay RawWindowSize) RawWindowSize {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.EdgeMargin != nil {
		out.EdgeMargin = overlay.EdgeMargin
	}
	return out
}

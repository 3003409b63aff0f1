package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	theme
//	log_level
//	logging.file
//	logging.max_size_mb
//	splash_app
//	intro_app
//	timings.content_delay_ms
//	clock_format
//	window.width
//	window.edge_margin
//	taskbar_height
//	markdown_style
//	apps
//	apps.<id>
//	apps.<id>.title
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Entries of a file-provided app list come from that file.
	if strings.HasPrefix(path, "apps.") {
		if src, ok := res.Sources["apps"]; ok {
			return value, src, nil
		}
		return value, Source{Kind: SourceBuiltin, Name: "apps"}, nil
	}
	if path == "apps" {
		return value, Source{Kind: SourceBuiltin, Name: "apps"}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "theme":
		return leaf(cfg.Theme)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "splash_app":
		return leaf(cfg.SplashApp)
	case "intro_app":
		return leaf(cfg.IntroApp)
	case "clock_format":
		return leaf(cfg.ClockFormat)
	case "taskbar_height":
		return leaf(cfg.TaskbarHeight)
	case "markdown_style":
		return leaf(cfg.MarkdownStyle)
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "file":
			return cfg.Logging.File, nil
		case "max_size_mb":
			return cfg.Logging.MaxSizeMB, nil
		case "max_files":
			return cfg.Logging.MaxFiles, nil
		case "journal":
			return cfg.Logging.Journal, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "timings":
		if len(parts) == 1 {
			return cfg.Timings, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "content_delay_ms":
			return cfg.Timings.ContentDelayMS, nil
		case "diagram_delay_ms":
			return cfg.Timings.DiagramDelayMS, nil
		case "splash_handoff_ms":
			return cfg.Timings.SplashHandoffMS, nil
		case "shutdown_overlay_ms":
			return cfg.Timings.ShutdownOverlayMS, nil
		case "frame_ms":
			return cfg.Timings.FrameMS, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "window":
		if len(parts) == 1 {
			return cfg.Window, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "width":
			return cfg.Window.Width, nil
		case "height":
			return cfg.Window.Height, nil
		case "edge_margin":
			return cfg.Window.EdgeMargin, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "apps":
		if len(parts) == 1 {
			return cfg.Apps, nil
		}
		app, ok := cfg.App(parts[1])
		if !ok {
			return nil, fmt.Errorf("unknown app %q", parts[1])
		}
		if len(parts) == 2 {
			return app, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[2] {
		case "title":
			return app.Title, nil
		case "icon":
			return app.IconKey(), nil
		case "desktop":
			return app.Desktop, nil
		case "start_menu":
			return app.StartMenu, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndHasBuiltinApps(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, ok := cfg.App(cfg.SplashApp); !ok {
		t.Fatalf("expected splash app %q in builtin apps", cfg.SplashApp)
	}
	if _, ok := cfg.App(cfg.IntroApp); !ok {
		t.Fatalf("expected intro app %q in builtin apps", cfg.IntroApp)
	}
	if cfg.Timings.SplashHandoff() != 100*time.Millisecond {
		t.Fatalf("expected 100ms hand-off, got %v", cfg.Timings.SplashHandoff())
	}
	if cfg.Timings.ShutdownOverlay() != 300*time.Millisecond {
		t.Fatalf("expected 300ms overlay delay, got %v", cfg.Timings.ShutdownOverlay())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
	if res.Config.ClockFormat != "15:04" {
		t.Fatalf("expected default clock format, got %q", res.Config.ClockFormat)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Apps) != len(BuiltinApps()) {
		t.Fatalf("expected builtin apps, got %d", len(res.Config.Apps))
	}
}

func TestLoadFromPath_NestedKeysMergeWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"timings:",
		"  content_delay_ms: 0",
		"window:",
		"  width: 90",
		"",
	}, "\n")
	writeConfig(t, path, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Timings.ContentDelayMS != 0 {
		t.Fatalf("expected content delay 0, got %d", res.Config.Timings.ContentDelayMS)
	}
	if res.Config.Timings.DiagramDelayMS != 100 {
		t.Fatalf("expected untouched diagram delay 100, got %d", res.Config.Timings.DiagramDelayMS)
	}
	if res.Config.Window.Width != 90 || res.Config.Window.Height != 20 {
		t.Fatalf("unexpected window size %+v", res.Config.Window)
	}

	val, src, err := Explain(res, "window.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 90 || src.Kind != SourceFile || src.Line != 4 {
		t.Fatalf("unexpected explain result %#v %#v", val, src)
	}

	_, src, err = Explain(res, "window.height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "theme: classic\nlog_level: chatty\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "log_level" {
		t.Fatalf("expected path log_level, got %q", verr.Path)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, filepath.Join(configD, "10-base.yaml"), "taskbar_height: 2\nclock_format: \"3:04PM\"\n")
	writeConfig(t, filepath.Join(configD, "20-override.yaml"), "taskbar_height: 3\n")
	writeConfig(t, filepath.Join(configD, "notes.txt"), "ignored")

	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "include: config.d\ntaskbar_height: 4\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TaskbarHeight != 4 {
		t.Fatalf("expected taskbar_height 4, got %d", res.Config.TaskbarHeight)
	}
	if res.Config.ClockFormat != "3:04PM" {
		t.Fatalf("expected clock format from include, got %q", res.Config.ClockFormat)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("expected main file last, got %v", res.Files)
	}

	_, src, err := Explain(res, "clock_format")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "10-base.yaml") {
		t.Fatalf("expected clock_format from 10-base.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeConfig(t, a, "include: b.yaml\n")
	writeConfig(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_AppsReplaceBuiltinTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
splash_app: ""
intro_app: ""
apps:
  - id: notes
    title: Notes
    desktop: true
  - id: about
    title: About
    icon: info
    start_menu: true
`
	writeConfig(t, path, strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Apps) != 2 {
		t.Fatalf("expected 2 apps, got %d", len(res.Config.Apps))
	}
	if got := res.Config.DesktopApps(); len(got) != 1 || got[0].ID != "notes" {
		t.Fatalf("unexpected desktop apps %#v", got)
	}
	if got := res.Config.StartMenuApps(); len(got) != 1 || got[0].IconKey() != "info" {
		t.Fatalf("unexpected start menu apps %#v", got)
	}
	if _, ok := res.Config.Label("about"); ok {
		t.Fatalf("app without desktop icon should have no label")
	}

	val, src, err := Explain(res, "apps.notes.title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "Notes" || src.Kind != SourceFile {
		t.Fatalf("unexpected explain result %#v %#v", val, src)
	}
}

func TestExplain_BuiltinApps(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	val, src, err := Explain(res, "apps.vision.title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "1. Executive Summary" {
		t.Fatalf("unexpected title %#v", val)
	}
	if src.Kind != SourceBuiltin {
		t.Fatalf("expected builtin source, got %#v", src)
	}

	if _, _, err := Explain(res, "apps.nope"); err == nil {
		t.Fatalf("expected error for unknown app")
	}
	if _, _, err := Explain(res, "theme.extra"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"theme", func(c *Config) { c.Theme = "neon" }, "theme"},
		{"negative delay", func(c *Config) { c.Timings.ContentDelayMS = -1 }, "timings.content_delay_ms"},
		{"zero frame", func(c *Config) { c.Timings.FrameMS = 0 }, "timings.frame_ms"},
		{"narrow window", func(c *Config) { c.Window.Width = 5 }, "window.width"},
		{"edge margin", func(c *Config) { c.Window.EdgeMargin = 0 }, "window.edge_margin"},
		{"taskbar", func(c *Config) { c.TaskbarHeight = 0 }, "taskbar_height"},
		{"markdown style", func(c *Config) { c.MarkdownStyle = "sepia" }, "markdown_style"},
		{"no apps", func(c *Config) { c.Apps = nil }, "apps"},
		{"duplicate app", func(c *Config) { c.Apps = append(c.Apps, App{ID: "vision", Title: "Again"}) }, "apps.vision"},
		{"untitled app", func(c *Config) { c.Apps = append(c.Apps, App{ID: "blank", Title: " "}) }, "apps.blank.title"},
		{"unknown splash", func(c *Config) { c.SplashApp = "boot" }, "splash_app"},
		{"unknown intro", func(c *Config) { c.IntroApp = "readme" }, "intro_app"},
		{"empty clock", func(c *Config) { c.ClockFormat = "" }, "clock_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestGetLoggingConfigDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	got := cfg.GetLoggingConfig()
	if got.MaxSizeMB != 10 || got.MaxFiles != 3 {
		t.Fatalf("unexpected rotation defaults %+v", got)
	}
	if !strings.HasSuffix(got.File, filepath.Join("retrodesk", "retrodesk.log")) {
		t.Fatalf("unexpected log file %q", got.File)
	}
}

func TestSaveWritesLoadableConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Theme = ThemeMidnight
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if res.Config.Theme != ThemeMidnight {
		t.Fatalf("expected midnight theme, got %q", res.Config.Theme)
	}
}

func TestDefaultConfigPathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "desk.yaml")
	t.Setenv(ConfigEnv, want)
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestLoadFromPath_AppErrorPointsAtEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		`splash_app: ""`,
		`intro_app: ""`,
		"apps:",
		"  - id: notes",
		"    title: Notes",
		"  - id: about",
		`    title: ""`,
		"",
	}, "\n")
	writeConfig(t, path, data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "apps.about.title" {
		t.Fatalf("path = %q, want apps.about.title", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 7 {
		t.Fatalf("source = %#v, want line 7 of %s", verr.Source, path)
	}
}

func TestLoadFromPath_IncludedAppsReplaced(t *testing.T) {
	dir := t.TempDir()
	appsDir := filepath.Join(dir, "apps.d")
	if err := os.Mkdir(appsDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(appsDir, "apps.yaml"), strings.Join([]string{
		"apps:",
		"  - id: old",
		"    title: Old",
		"",
	}, "\n"))
	writeConfig(t, filepath.Join(appsDir, ".draft.yaml"), "not: [yaml\n")
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, strings.Join([]string{
		"include: apps.d",
		`splash_app: ""`,
		`intro_app: ""`,
		"apps:",
		"  - id: new",
		"    title: New",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Apps) != 1 || res.Config.Apps[0].ID != "new" {
		t.Fatalf("apps = %#v, want only new", res.Config.Apps)
	}
	if _, ok := res.Sources["apps.old"]; ok {
		t.Fatal("source for replaced app kept")
	}
	if src := res.Sources["apps.new.title"]; src.Line != 6 {
		t.Fatalf("apps.new.title source = %#v, want line 6", src)
	}
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retrodesk/internal/config"
)

type palette struct {
	desktop       lipgloss.Color
	desktopFg     lipgloss.Color
	chrome        lipgloss.Color
	chromeFg      lipgloss.Color
	titleActive   lipgloss.Color
	titleInactive lipgloss.Color
	titleFg       lipgloss.Color
	body          lipgloss.Color
	bodyFg        lipgloss.Color
	highlight     lipgloss.Color
	highlightFg   lipgloss.Color
	errorFg       lipgloss.Color
	overlay       lipgloss.Color
	overlayFg     lipgloss.Color
}

var palettes = map[config.Theme]palette{
	config.ThemeClassic: {
		desktop:       lipgloss.Color("30"),
		desktopFg:     lipgloss.Color("15"),
		chrome:        lipgloss.Color("250"),
		chromeFg:      lipgloss.Color("16"),
		titleActive:   lipgloss.Color("18"),
		titleInactive: lipgloss.Color("244"),
		titleFg:       lipgloss.Color("15"),
		body:          lipgloss.Color("255"),
		bodyFg:        lipgloss.Color("16"),
		highlight:     lipgloss.Color("18"),
		highlightFg:   lipgloss.Color("15"),
		errorFg:       lipgloss.Color("124"),
		overlay:       lipgloss.Color("16"),
		overlayFg:     lipgloss.Color("214"),
	},
	config.ThemeMidnight: {
		desktop:       lipgloss.Color("235"),
		desktopFg:     lipgloss.Color("252"),
		chrome:        lipgloss.Color("238"),
		chromeFg:      lipgloss.Color("252"),
		titleActive:   lipgloss.Color("62"),
		titleInactive: lipgloss.Color("240"),
		titleFg:       lipgloss.Color("15"),
		body:          lipgloss.Color("234"),
		bodyFg:        lipgloss.Color("252"),
		highlight:     lipgloss.Color("62"),
		highlightFg:   lipgloss.Color("15"),
		errorFg:       lipgloss.Color("203"),
		overlay:       lipgloss.Color("16"),
		overlayFg:     lipgloss.Color("214"),
	},
}

// styles holds every lipgloss style the desktop draws with.
type styles struct {
	desktop       lipgloss.Style
	icon          lipgloss.Style
	iconSelected  lipgloss.Style
	titleActive   lipgloss.Style
	titleInactive lipgloss.Style
	titleGrabbing lipgloss.Style
	control       lipgloss.Style
	body          lipgloss.Style
	loading       lipgloss.Style
	bodyError     lipgloss.Style
	taskbar       lipgloss.Style
	startButton   lipgloss.Style
	startPressed  lipgloss.Style
	taskButton    lipgloss.Style
	taskActive    lipgloss.Style
	clock         lipgloss.Style
	menu          lipgloss.Style
	menuItem      lipgloss.Style
	menuCursor    lipgloss.Style
	menuSeparator lipgloss.Style
	overlay       lipgloss.Style
	overlayButton lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[config.ThemeClassic]
	}

	chrome := lipgloss.NewStyle().Background(p.chrome).Foreground(p.chromeFg)
	return styles{
		desktop:       lipgloss.NewStyle().Background(p.desktop).Foreground(p.desktopFg),
		icon:          lipgloss.NewStyle().Background(p.desktop).Foreground(p.desktopFg),
		iconSelected:  lipgloss.NewStyle().Background(p.highlight).Foreground(p.highlightFg),
		titleActive:   lipgloss.NewStyle().Bold(true).Background(p.titleActive).Foreground(p.titleFg),
		titleInactive: lipgloss.NewStyle().Background(p.titleInactive).Foreground(p.titleFg),
		titleGrabbing: lipgloss.NewStyle().Bold(true).Reverse(true).Background(p.titleActive).Foreground(p.titleFg),
		control:       chrome.Bold(true),
		body: lipgloss.NewStyle().
			Background(p.body).
			Foreground(p.bodyFg).
			Border(lipgloss.NormalBorder(), false, true, true, true).
			BorderForeground(p.chrome).
			BorderBackground(p.body).
			Padding(0, 1),
		loading:       lipgloss.NewStyle().Italic(true).Foreground(p.titleInactive),
		bodyError:     lipgloss.NewStyle().Bold(true).Foreground(p.errorFg),
		taskbar:       chrome,
		startButton:   chrome.Bold(true),
		startPressed:  chrome.Bold(true).Reverse(true),
		taskButton:    chrome,
		taskActive:    chrome.Bold(true).Reverse(true),
		clock:         chrome,
		menu:          chrome.Border(lipgloss.NormalBorder()).BorderForeground(p.chromeFg).BorderBackground(p.chrome),
		menuItem:      chrome,
		menuCursor:    lipgloss.NewStyle().Background(p.highlight).Foreground(p.highlightFg),
		menuSeparator: chrome.Foreground(p.titleInactive),
		overlay:       lipgloss.NewStyle().Background(p.overlay).Foreground(p.overlayFg).Bold(true),
		overlayButton: chrome.Bold(true),
	}
}

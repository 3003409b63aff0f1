package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing diff, awaiting confirm
	saveResult            // showing outcome message
)

// saveOverlay previews the pending config changes as a diff and writes them
// on confirmation.
type saveOverlay struct {
	phase        savePhase
	diffLines    []diffLine
	err          error
	scrollOffset int
}

func (s saveOverlay) active() bool {
	return s.phase != saveHidden
}

// show computes the diff and opens the preview. An invalid config goes
// straight to the result with its validation error.
func (s *saveOverlay) show(original, edited *config.Config) {
	s.err = nil
	s.scrollOffset = 0

	if err := edited.Validate(); err != nil {
		s.phase = saveResult
		s.err = err
		return
	}
	lines := computeDiffLines(original, edited)
	if len(lines) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.diffLines = lines
	s.phase = savePreview
}

func (s saveOverlay) saved() bool {
	return s.phase == saveResult && s.err == nil
}

func (s saveOverlay) update(msg tea.Msg, edited *config.Config, save func(*config.Config) error) saveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			s.err = save(edited)
			s.phase = saveResult
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			s.scrollOffset++
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

func (s saveOverlay) view(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

func boxWidth(areaW, limit int) int {
	return max(30, min(limit, areaW-8))
}

func (s saveOverlay) viewPreview(areaW, areaH int) string {
	boxW := boxWidth(areaW, 80)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hunkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	footStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	diffH := max(3, areaH-10)
	off := min(s.scrollOffset, max(0, len(s.diffLines)-diffH))
	end := min(off+diffH, len(s.diffLines))
	innerW := max(10, boxW-6)

	var lines []string
	for _, dl := range s.diffLines[off:end] {
		t := fit(dl.text, innerW-2)
		switch dl.kind {
		case diffAdded:
			lines = append(lines, addStyle.Render("+ "+t))
		case diffRemoved:
			lines = append(lines, rmStyle.Render("- "+t))
		case diffHunk:
			lines = append(lines, hunkStyle.Render(t))
		default:
			lines = append(lines, ctxStyle.Render("  "+t))
		}
	}

	content := titleStyle.Render("Save Config: Pending Changes") + "\n\n" +
		strings.Join(lines, "\n") + "\n\n" +
		footStyle.Render("enter: save  esc: back to form  j/k: scroll")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func (s saveOverlay) viewResult(areaW, areaH int) string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Render("Config saved successfully")
	}
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("press any key to dismiss")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxWidth(areaW, 60)).
		Render(msg + "\n\n" + footer)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

// cloneConfig creates a deep copy of a Config via YAML round-trip.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}

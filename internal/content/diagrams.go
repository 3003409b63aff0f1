package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// DiagramRenderer turns diagram source into markdown that replaces the
// fenced block.
type DiagramRenderer interface {
	RenderDiagram(ctx context.Context, source string, width int) (string, error)
}

// TextDiagrams renders flowcharts, sequence diagrams and gantt charts as
// titled markdown lists. Other kinds are shown as their source.
type TextDiagrams struct{}

var (
	edgePattern    = regexp.MustCompile(`^(.+?)\s*(?:-\.->|-->|==>|---)\s*(?:\|[^|]*\|\s*)?(.+)$`)
	messagePattern = regexp.MustCompile(`^([^-]+?)\s*-?->>?\s*([^:]+?)\s*:\s*(.+)$`)
	nodeLabel      = regexp.MustCompile(`^[A-Za-z0-9_]+\s*[\[\(\{]+\s*(.*?)\s*[\]\)\}]+$`)
)

func (TextDiagrams) RenderDiagram(ctx context.Context, source string, _ int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines := diagramLines(source)
	if len(lines) == 0 {
		return "", fmt.Errorf("empty diagram")
	}

	kind := strings.Fields(lines[0])[0]
	body := lines[1:]
	switch kind {
	case "graph", "flowchart":
		return flowchart(body), nil
	case "sequenceDiagram":
		return sequence(body), nil
	case "gantt":
		return gantt(body), nil
	default:
		return "**Diagram (" + kind + ")**\n\n```\n" + strings.Join(lines, "\n") + "\n```\n", nil
	}
}

func diagramLines(source string) []string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") || strings.HasPrefix(line, "classDef") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// labels remembers the display text given to node ids.
type labels map[string]string

func (l labels) name(token string) string {
	token = strings.TrimSpace(token)
	if m := nodeLabel.FindStringSubmatch(token); m != nil {
		id := strings.FieldsFunc(token, func(r rune) bool { return strings.ContainsRune("[({", r) })[0]
		l[strings.TrimSpace(id)] = m[1]
		return m[1]
	}
	if label, ok := l[token]; ok {
		return label
	}
	return token
}

func flowchart(lines []string) string {
	var b strings.Builder
	b.WriteString("**Diagram (flowchart)**\n\n")
	names := labels{}
	for _, line := range lines {
		m := edgePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fmt.Fprintf(&b, "- %s → %s\n", names.name(m[1]), names.name(m[2]))
	}
	return b.String()
}

func sequence(lines []string) string {
	var b strings.Builder
	b.WriteString("**Diagram (sequence)**\n\n")
	n := 0
	for _, line := range lines {
		m := messagePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s → %s: %s\n", n, strings.TrimSpace(m[1]), m[2], m[3])
	}
	return b.String()
}

func gantt(lines []string) string {
	var b strings.Builder
	b.WriteString("**Diagram (gantt)**\n\n")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "title "):
			fmt.Fprintf(&b, "*%s*\n\n", strings.TrimSpace(strings.TrimPrefix(line, "title ")))
		case strings.HasPrefix(line, "section "):
			fmt.Fprintf(&b, "\n**%s**\n\n", strings.TrimSpace(strings.TrimPrefix(line, "section ")))
		case strings.Contains(line, ":"):
			task := strings.TrimSpace(line[:strings.Index(line, ":")])
			fmt.Fprintf(&b, "- %s\n", task)
		}
	}
	return b.String()
}

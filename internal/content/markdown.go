package content

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownCache keeps one glamour renderer per style and wrap width.
type markdownCache struct {
	mu        sync.Mutex
	renderers map[string]*glamour.TermRenderer

	// renderMu serializes Render calls; a TermRenderer keeps block state
	// between calls.
	renderMu sync.Mutex
}

func newMarkdownCache() *markdownCache {
	return &markdownCache{renderers: map[string]*glamour.TermRenderer{}}
}

func (c *markdownCache) render(md, style string, width int) (string, error) {
	md = strings.TrimSpace(md)
	if md == "" {
		return "", nil
	}
	if width < 10 {
		width = 10
	}

	key := style + ":" + strconv.Itoa(width)
	c.mu.Lock()
	r := c.renderers[key]
	c.mu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("markdown style %q: %w", style, err)
		}
		c.mu.Lock()
		if existing := c.renderers[key]; existing != nil {
			r = existing
		} else {
			c.renderers[key] = rr
			r = rr
		}
		c.mu.Unlock()
	}

	c.renderMu.Lock()
	out, err := r.Render(md)
	c.renderMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

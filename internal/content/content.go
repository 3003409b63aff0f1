package content

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/wm"
)

//go:embed docs/*.md
var docs embed.FS

const (
	DefaultContentDelay = 80 * time.Millisecond
	DefaultDiagramDelay = 100 * time.Millisecond
	DefaultStyle        = "dark"
)

var (
	iconMarker   = regexp.MustCompile(`:icon:([A-Za-z]+):`)
	mermaidBlock = regexp.MustCompile("(?s)```mermaid\\s*\\n(.*?)```")
)

// Options configures a Renderer. Zero values select the defaults.
type Options struct {
	ContentDelay time.Duration
	DiagramDelay time.Duration
	// Style is a glamour standard style name (dark, light, notty, ascii...).
	Style    string
	Diagrams DiagramRenderer
	Logger   *slog.Logger

	// Sleep waits between rendering steps; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Renderer turns application ids into window bodies. It implements
// wm.Populator and is safe for concurrent use.
type Renderer struct {
	opts   Options
	logger *slog.Logger
	md     *markdownCache
}

// New creates a Renderer backed by the embedded documents.
func New(opts Options) *Renderer {
	if opts.ContentDelay <= 0 {
		opts.ContentDelay = DefaultContentDelay
	}
	if opts.DiagramDelay <= 0 {
		opts.DiagramDelay = DefaultDiagramDelay
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.Diagrams == nil {
		opts.Diagrams = TextDiagrams{}
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{opts: opts, logger: logger, md: newMarkdownCache()}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IDs lists the applications with a document, sorted.
func IDs() []string {
	entries, err := fs.ReadDir(docs, "docs")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := e.Name(); path.Ext(name) == ".md" {
			ids = append(ids, strings.TrimSuffix(name, ".md"))
		}
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id has a document.
func Has(id string) bool {
	_, err := fs.Stat(docs, docPath(id))
	return err == nil
}

func docPath(id string) string {
	return path.Join("docs", id+".md")
}

// Markdown returns the document for id with icon markers expanded. Unknown
// ids produce a short notice and false.
func Markdown(id string) (string, bool) {
	if strings.ContainsAny(id, "/\\.") {
		return notImplemented(id), false
	}
	raw, err := docs.ReadFile(docPath(id))
	if err != nil {
		return notImplemented(id), false
	}
	return expandIcons(string(raw)), true
}

func notImplemented(id string) string {
	return fmt.Sprintf("Content for **%s** not implemented.", id)
}

func expandIcons(md string) string {
	return iconMarker.ReplaceAllStringFunc(md, func(m string) string {
		key := iconMarker.FindStringSubmatch(m)[1]
		return icons.Lookup(key).Glyph
	})
}

// Populate generates the body for id at the given content width. Documents
// containing diagrams return a Followup that re-renders them once the
// diagram pass has run.
func (r *Renderer) Populate(ctx context.Context, id string, width int) (wm.Population, error) {
	if err := r.opts.Sleep(ctx, r.opts.ContentDelay); err != nil {
		return wm.Population{}, err
	}

	md, ok := Markdown(id)
	if !ok {
		r.logger.Warn("no content for app", "app", id)
	}
	text, err := r.md.render(md, r.opts.Style, width)
	if err != nil {
		return wm.Population{}, err
	}

	pop := wm.Population{Text: text}
	if mermaidBlock.MatchString(md) {
		pop.Followup = func(ctx context.Context) (string, error) {
			if err := r.opts.Sleep(ctx, r.opts.DiagramDelay); err != nil {
				return "", err
			}
			r.logger.Debug("rendering diagrams", "app", id)
			withDiagrams, err := r.renderDiagrams(ctx, md, width)
			if err != nil {
				return "", err
			}
			return r.md.render(withDiagrams, r.opts.Style, width)
		}
	}
	return pop, nil
}

// Render produces the final body for id in one call, diagrams included.
func (r *Renderer) Render(ctx context.Context, id string, width int) (string, error) {
	md, _ := Markdown(id)
	withDiagrams, err := r.renderDiagrams(ctx, md, width)
	if err != nil {
		return "", err
	}
	return r.md.render(withDiagrams, r.opts.Style, width)
}

func (r *Renderer) renderDiagrams(ctx context.Context, md string, width int) (string, error) {
	var firstErr error
	out := mermaidBlock.ReplaceAllStringFunc(md, func(block string) string {
		if firstErr != nil {
			return block
		}
		src := mermaidBlock.FindStringSubmatch(block)[1]
		rendered, err := r.opts.Diagrams.RenderDiagram(ctx, src, width)
		if err != nil {
			firstErr = fmt.Errorf("render diagram: %w", err)
			return block
		}
		return rendered
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// Package chat renders the shop assistant's free-text markdown replies.
package chat

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderHTML converts a reply to sanitized HTML. Single newlines become <br>,
// matching how replies are typed.
func RenderHTML(reply string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(strings.TrimSpace(reply)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// TerminalRenderer renders replies with ANSI styling for the CLI.
type TerminalRenderer struct {
	once     sync.Once
	width    int
	renderer *glamour.TermRenderer
	err      error
}

func NewTerminalRenderer(width int) *TerminalRenderer {
	if width <= 0 {
		width = 80
	}
	return &TerminalRenderer{width: width}
}

func (r *TerminalRenderer) Render(reply string) (string, error) {
	r.once.Do(func() {
		r.renderer, r.err = glamour.NewTermRenderer(
			glamour.WithStandardStyle("notty"),
			glamour.WithWordWrap(r.width),
		)
	})
	if r.err != nil {
		return reply, fmt.Errorf("create terminal renderer: %w", r.err)
	}
	out, err := r.renderer.Render(reply)
	if err != nil {
		return reply, fmt.Errorf("render reply: %w", err)
	}
	return out, nil
}

package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML_Markdown(t *testing.T) {
	out, err := RenderHTML("**Canvas Tote** is in stock.\nOrder by *Friday*.")
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>Canvas Tote</strong>")
	assert.Contains(t, out, "<em>Friday</em>")
	assert.Contains(t, out, "<br")
}

func TestRenderHTML_Lists(t *testing.T) {
	out, err := RenderHTML("Options:\n\n- Tote\n- Backpack")
	require.NoError(t, err)
	assert.Contains(t, out, "<li>Tote</li>")
}

func TestRenderHTML_StripsScripts(t *testing.T) {
	out, err := RenderHTML("hi <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderHTML_LinksAreNoFollow(t *testing.T) {
	out, err := RenderHTML("See https://bagshop.example/products")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://bagshop.example/products"`)
	assert.Contains(t, out, "nofollow")
}

func TestTerminalRenderer(t *testing.T) {
	r := NewTerminalRenderer(60)
	out, err := r.Render("# Hello\n\nA **bold** bag.")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, strings.Join(strings.Fields(out), " "), "bold")
}

package tui

import (
	"testing"

	"github.com/h0rv/imgboard/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("# Board\n\nDrop images here.", config.HelpStyleNoTTY, 40)
	assert.Contains(t, out, "Board")
	assert.Contains(t, out, "Drop images here.")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Empty(t, renderMarkdown("  \n", config.HelpStyleDark, 40))
}

func TestRenderMarkdown_UnknownStyleFallsBack(t *testing.T) {
	assert.Equal(t, "plain *text*", renderMarkdown("plain *text*\n", "no-such-style", 40))
}

func TestRenderMarkdown_CachesRenderer(t *testing.T) {
	first, err := markdownRenderer(config.HelpStyleLight, 33)
	assert.NoError(t, err)
	second, err := markdownRenderer(config.HelpStyleLight, 33)
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

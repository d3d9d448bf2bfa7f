// ABOUTME: Tests for the markdown to Slack mrkdwn renderer
// ABOUTME: Covers emphasis swap, links, headings, lists, and code blocks

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMrkdwn(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"bold", "this is **important** stuff", "this is *important* stuff"},
		{"italic", "this is *subtle* stuff", "this is _subtle_ stuff"},
		{"link", "see [the docs](https://example.com/docs)", "see <https://example.com/docs|the docs>"},
		{"heading", "# Setup\n\nfirst step", "*Setup*\n\nfirst step"},
		{"code span", "run `make build` first", "run `make build` first"},
		{
			"bullet list",
			"- one\n- two",
			"• one\n• two",
		},
		{
			"ordered list",
			"1. first\n2. second",
			"1. first\n2. second",
		},
		{
			"fenced code",
			"```\nfoo()\n```",
			"```\nfoo()\n```",
		},
		{
			"blockquote",
			"> quoted line",
			"> quoted line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderMrkdwn(tt.in))
		})
	}
}

func TestRenderMrkdwn_ParagraphsSeparated(t *testing.T) {
	got := RenderMrkdwn("first paragraph\n\nsecond paragraph")
	assert.Equal(t, "first paragraph\n\nsecond paragraph", got)
}

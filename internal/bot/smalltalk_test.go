// ABOUTME: Tests for the smalltalk matcher
// ABOUTME: Table-driven over greetings, thanks, help, status, and non-matches

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmalltalkReply(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"greeting", "hey there", "Hi! I can help with questions about our docs. What do you need?"},
		{"greeting uppercase", "HELLO bot", "Hi! I can help with questions about our docs. What do you need?"},
		{"thanks", "thanks a lot", "You're welcome! Glad it helped."},
		{"help", "what can you do", "I answer questions using our internal docs—try asking about a process or policy."},
		{"status", "are you up?", "Online and ready. If I'm slow, I'm fetching or summarising docs."},
		{"real question", "how do I request vacation days", ""},
		{"empty", "", ""},
		{"word boundary", "this is history", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, smalltalkReply(tt.text))
		})
	}
}

func TestStripMentions(t *testing.T) {
	assert.Equal(t, "how does X work", stripMentions("<@U0AB12CD3> how does X work"))
	assert.Equal(t, "hi", stripMentions("  <@UBOT>   hi "))
	assert.Equal(t, "no mention here", stripMentions("no mention here"))
}

// ABOUTME: Tests for document selection parsing and answer assembly
// ABOUTME: Uses a scripted fake client so prompts and fallbacks are verified without a network

package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbkevin/docsbot/internal/docs"
)

// fakeClient returns scripted replies in order and records prompts.
type fakeClient struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fake out of replies")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func testLibrary() *docs.Library {
	return docs.NewLibrary(map[string]string{
		"passwords.txt":     "To reset your password, open Settings and click Reset.",
		"onboarding.txt":    "Welcome aboard. First steps...",
		docs.PersonalityDoc: "Tone: dry.",
	})
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single file", "passwords.txt", []string{"passwords.txt"}},
		{"comma list with spaces", "passwords.txt, onboarding.txt", []string{"passwords.txt", "onboarding.txt"}},
		{"uppercase normalized", "PASSWORDS.TXT", []string{"passwords.txt"}},
		{"none", "none", nil},
		{"none embedded", "None of these are relevant", nil},
		{"empty", "   ", nil},
		{"trailing comma", "passwords.txt,", []string{"passwords.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSelection(tt.raw))
		})
	}
}

func TestGenerator_AnswerUsesSelectedDoc(t *testing.T) {
	fc := &fakeClient{replies: []string{
		"passwords.txt",                  // selector
		"password reset",                 // subject for the redirect line in the final prompt
		"Open Settings and click Reset.", // final answer
	}}
	g := NewGenerator(fc, nil)

	text, err := g.Answer(t.Context(), "How do I reset my password?", testLibrary())
	require.NoError(t, err)
	assert.Equal(t, "Open Settings and click Reset.", text)

	require.Len(t, fc.prompts, 3)
	assert.Contains(t, fc.prompts[0], "- passwords.txt")
	assert.NotContains(t, fc.prompts[0], docs.PersonalityDoc, "personality doc must not be selectable")
	assert.Contains(t, fc.prompts[2], "--- passwords.txt ---")
	assert.Contains(t, fc.prompts[2], "Tone: dry.")
}

func TestGenerator_AnswerRedirectsWhenNothingRelevant(t *testing.T) {
	fc := &fakeClient{replies: []string{
		"none",            // selector
		"quantum physics", // subject
	}}
	g := NewGenerator(fc, nil)

	text, err := g.Answer(t.Context(), "Explain quantum physics", testLibrary())
	require.NoError(t, err)
	assert.Equal(t, "I can't find anything about quantum physics. Try asking @tech", text)
}

func TestGenerator_AnswerRedirectsWhenSelectionInventsFiles(t *testing.T) {
	fc := &fakeClient{replies: []string{
		"made_up.txt", // selector hallucinating
		"that thing",  // subject
	}}
	g := NewGenerator(fc, nil)

	text, err := g.Answer(t.Context(), "What about that thing?", testLibrary())
	require.NoError(t, err)
	assert.Contains(t, text, "I can't find anything about that thing")
}

func TestGenerator_AnswerPropagatesClientError(t *testing.T) {
	fc := &fakeClient{err: errors.New("transport down")}
	g := NewGenerator(fc, nil)

	_, err := g.Answer(t.Context(), "anything", testLibrary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selecting documents")
}

func TestGenerator_ExtractSubjectFallsBack(t *testing.T) {
	fc := &fakeClient{err: errors.New("down")}
	g := NewGenerator(fc, nil)
	assert.Equal(t, "that topic", g.ExtractSubject(t.Context(), "whatever"))

	fc = &fakeClient{replies: []string{"   "}}
	g = NewGenerator(fc, nil)
	assert.Equal(t, "that topic", g.ExtractSubject(t.Context(), "whatever"))
}

func TestBuildContext_CapsCombinedSize(t *testing.T) {
	big := strings.Repeat("a", maxContextChars)
	lib := docs.NewLibrary(map[string]string{
		"big.txt":   big,
		"small.txt": "tiny",
	})

	ctx := buildContext([]string{"big.txt", "small.txt"}, lib)
	assert.LessOrEqual(t, len(ctx), maxContextChars+len("\n--- big.txt ---\n\n"))
	assert.Contains(t, ctx, "--- big.txt ---")
	assert.NotContains(t, ctx, "tiny", "second doc must be dropped once the cap is hit")
}

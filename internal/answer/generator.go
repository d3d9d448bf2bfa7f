// ABOUTME: Question answering over the document library
// ABOUTME: Selector prompt picks relevant docs, context is assembled capped, final prompt applies personality

package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gbkevin/docsbot/internal/docs"
)

// maxContextChars caps the combined document context fed to the final
// prompt.
const maxContextChars = 12000

// greetingsDoc is nudged to the selector for smalltalk that slipped past
// the fast path.
const greetingsDoc = "greetings_and_smalltalk.txt"

// Generator answers questions using the document library and an LLM
// client. Every method degrades to a generic error on client failure; the
// caller decides what the user sees.
type Generator struct {
	client Client
	logger *slog.Logger
}

// NewGenerator creates a Generator. Pass nil logger for default.
func NewGenerator(client Client, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client: client,
		logger: logger.With("component", "answer"),
	}
}

// Answer produces the final answer text for a question: select relevant
// documents, assemble their text into a capped context, and generate with
// the personality guidelines applied. When nothing relevant exists the
// returned text redirects the requester instead of inventing an answer.
func (g *Generator) Answer(ctx context.Context, question string, lib *docs.Library) (string, error) {
	selected, err := g.SelectDocuments(ctx, question, lib.Names())
	if err != nil {
		return "", fmt.Errorf("selecting documents: %w", err)
	}

	// Keep only names that actually exist in the library
	var chosen []string
	for _, name := range selected {
		if _, ok := lib.Get(name); ok {
			chosen = append(chosen, name)
		}
	}
	if len(chosen) == 0 {
		return g.notFound(ctx, question), nil
	}

	g.logger.Debug("documents selected", "count", len(chosen), "names", strings.Join(chosen, ","))

	docContext := buildContext(chosen, lib)

	prompt := fmt.Sprintf(`Personality guidelines:
%s

Context from docs:
%s

Question: %s

Please answer using the tone and humor guidelines above.
If the context does not contain the answer, reply with:
"%s"`, lib.Personality(), docContext, question, g.notFound(ctx, question))

	text, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SelectDocuments asks the model which documents are relevant to the
// question. Returns nil when the model answers "none" or nothing usable.
func (g *Generator) SelectDocuments(ctx context.Context, question string, names []string) ([]string, error) {
	var list strings.Builder
	for _, name := range names {
		fmt.Fprintf(&list, "- %s\n", name)
	}

	prompt := fmt.Sprintf(`We have multiple subject documents:

%s
Question: %s

Rules:
- If the message is a greeting, thanks, 'help', 'what can you do', 'who are you', or general smalltalk,
  select "%s".
- Otherwise, pick the most relevant doc(s) from the list.

Reply with a comma-separated list of filenames, or "none" if nothing is relevant.`, list.String(), question, greetingsDoc)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("selector completion: %w", err)
	}

	return parseSelection(raw), nil
}

// parseSelection turns the selector's raw reply into a list of filenames.
func parseSelection(raw string) []string {
	reply := strings.ToLower(strings.TrimSpace(raw))
	if reply == "" || strings.Contains(reply, "none") {
		return nil
	}

	var selected []string
	for _, part := range strings.Split(reply, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			selected = append(selected, name)
		}
	}
	return selected
}

// ExtractSubject pulls the question's subject in a few words for the
// not-found redirect. Any failure falls back to "that topic" so the
// redirect never blocks on a second model error.
func (g *Generator) ExtractSubject(ctx context.Context, question string) string {
	prompt := fmt.Sprintf(`Extract the main subject of this question in 1-3 words only.

Question: %s`, question)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("subject extraction failed", "error", err)
		return "that topic"
	}
	subject := strings.TrimSpace(raw)
	if subject == "" {
		return "that topic"
	}
	return subject
}

func (g *Generator) notFound(ctx context.Context, question string) string {
	return fmt.Sprintf("I can't find anything about %s. Try asking @tech", g.ExtractSubject(ctx, question))
}

// buildContext concatenates the chosen documents under per-doc headers,
// truncating at maxContextChars.
func buildContext(chosen []string, lib *docs.Library) string {
	var b strings.Builder
	for _, name := range chosen {
		text, _ := lib.Get(name)
		remaining := maxContextChars - b.Len()
		if remaining <= 0 {
			break
		}
		if len(text) > remaining {
			text = text[:remaining]
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", name, text)
	}
	return b.String()
}

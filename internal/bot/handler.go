// ABOUTME: Mention handler routing inbound events to smalltalk or the answer flow
// ABOUTME: Dedupes retried deliveries and hands real questions to the responder

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/gbkevin/docsbot/internal/dedupe"
	"github.com/gbkevin/docsbot/internal/docs"
	"github.com/gbkevin/docsbot/internal/respond"
)

// Mention is one inbound app-mention event.
type Mention struct {
	User     string
	Channel  string
	Text     string
	TS       string // ts of the triggering message, thread root for replies
	ThreadTS string // set when the mention was already inside a thread
}

// Answerer defines what the handler needs from the answer pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, lib *docs.Library) (string, error)
}

// LibraryProvider yields the current document snapshot.
type LibraryProvider interface {
	Library() *docs.Library
}

// Handler processes mention events. Each accepted mention runs
// independently; concurrency is bounded only by how many arrive at once.
type Handler struct {
	transport respond.Transport
	responder *respond.Responder
	answerer  Answerer
	library   LibraryProvider
	dedupe    *dedupe.Cache
	logger    *slog.Logger
}

// NewHandler wires the mention handler.
func NewHandler(transport respond.Transport, responder *respond.Responder, answerer Answerer, library LibraryProvider, cache *dedupe.Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		transport: transport,
		responder: responder,
		answerer:  answerer,
		library:   library,
		dedupe:    cache,
		logger:    logger.With("component", "bot"),
	}
}

// mentionPattern matches Slack user mention tokens like <@U0123ABC>.
var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

func stripMentions(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}

// HandleMention processes one mention event end to end. It never returns
// an error: every failure path is logged and degraded.
func (h *Handler) HandleMention(ctx context.Context, m Mention) {
	if h.dedupe.CheckAndMark(dedupe.MentionKey{Channel: m.Channel, EventTS: m.TS}) {
		h.logger.Debug("duplicate mention dropped", "channel", m.Channel, "event_ts", m.TS)
		return
	}

	question := stripMentions(m.Text)
	requestID := uuid.New().String()
	h.logger.Info("mention received",
		"request_id", requestID,
		"user", m.User,
		"channel", m.Channel,
		"text", question)

	// Smalltalk goes in-channel, not into a thread, and skips the
	// long-running flow entirely.
	if reply := smalltalkReply(question); reply != "" {
		text := fmt.Sprintf("<@%s> %s", m.User, reply)
		if _, err := h.transport.PostMessage(ctx, m.Channel, "", text); err != nil {
			h.logger.Warn("failed to send smalltalk reply",
				"error", err,
				"request_id", requestID,
				"channel", m.Channel)
			return
		}
		h.logger.Debug("smalltalk reply sent", "request_id", requestID)
		return
	}

	threadTS := m.ThreadTS
	if threadTS == "" {
		threadTS = m.TS
	}

	req := respond.Request{
		ID:       requestID,
		User:     m.User,
		Channel:  m.Channel,
		ThreadTS: threadTS,
		Text:     question,
	}
	h.responder.Respond(ctx, req, func(ctx context.Context) (string, error) {
		text, err := h.answerer.Answer(ctx, question, h.library.Library())
		if err != nil {
			return "", err
		}
		return RenderMrkdwn(text), nil
	})
}

// ABOUTME: Chat transport boundary consumed by the responder
// ABOUTME: Defines the message ref handle and the post/update/ephemeral operations

package respond

import "context"

// MessageRef is an opaque handle to a previously posted chat message,
// sufficient to update it in place.
type MessageRef struct {
	Channel   string
	Timestamp string
}

// Transport defines what the responder needs from the chat layer.
// All three calls are best-effort from the responder's perspective:
// errors are logged and degraded, never propagated to the request.
type Transport interface {
	// PostMessage posts text into a channel. If threadTS is non-empty the
	// message goes into that thread instead of the channel timeline.
	PostMessage(ctx context.Context, channel, threadTS, text string) (MessageRef, error)

	// UpdateMessage replaces the text of a previously posted message.
	UpdateMessage(ctx context.Context, ref MessageRef, text string) error

	// PostEphemeral sends text visible only to the given user in the channel.
	PostEphemeral(ctx context.Context, channel, user, text string) error
}

// Request describes one inbound question to answer. It is immutable and
// scoped to a single Respond call.
type Request struct {
	ID       string // correlation id for logs
	User     string // requester's Slack user id
	Channel  string // channel the mention arrived in
	ThreadTS string // ts of the triggering message; replies thread off it
	Text     string // raw question text
}

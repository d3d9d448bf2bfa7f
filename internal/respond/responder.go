// ABOUTME: Progressive response delivery for long-running answers
// ABOUTME: Races the answer computation against escalating status notices and finalizes exactly once

package respond

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Apology is the fixed user-visible text substituted when answer
// generation fails. The requester mention is prepended at delivery time.
const Apology = "😬 I hit an error processing that."

// thinkingText is the public placeholder body posted into the thread.
func thinkingText(user string) string {
	return fmt.Sprintf("🤖 <@%s> thinking…", user)
}

// Options configures a Responder.
type Options struct {
	// NoticeDelay is how long before the private "working on it" notice
	// fires. PlaceholderDelay is how long before the public placeholder
	// fires. The two are independent: both timers are armed per request
	// and both may fire when the delays are close together. Only
	// finalization suppresses them.
	NoticeDelay      time.Duration
	PlaceholderDelay time.Duration

	// Phrases overrides the rotating notice phrasings. Empty uses the
	// stock list.
	Phrases []string

	Logger *slog.Logger
}

// Responder delivers answers with time-based escalation. For each request
// it arms two one-shot timers, runs the computation, and reconciles
// whatever fired with the result: a posted placeholder is updated in
// place, otherwise the answer is posted fresh into the thread. The final
// message is delivered exactly once unless every transport call fails.
type Responder struct {
	transport        Transport
	noticeDelay      time.Duration
	placeholderDelay time.Duration
	phrases          *PhrasePicker
	logger           *slog.Logger
}

// New creates a Responder over the given transport.
func New(transport Transport, opts Options) *Responder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		transport:        transport,
		noticeDelay:      opts.NoticeDelay,
		placeholderDelay: opts.PlaceholderDelay,
		phrases:          NewPhrasePicker(opts.Phrases),
		logger:           logger.With("component", "respond"),
	}
}

// delivery is the per-request shared state. It is owned by one Respond
// call and touched only by that call's timer callbacks and finalizer.
// Every access, including the transport side effect that follows the
// completed check, happens under mu: a timer that has observed
// completed=false cannot be overtaken by the finalizer before it posts.
type delivery struct {
	mu          sync.Mutex
	completed   bool
	placeholder *MessageRef
}

// Respond runs compute and delivers its result to the request's thread.
// It blocks until the final message has been delivered (or every delivery
// path has failed and been logged). Timers that fire before completion
// send the interim notices; timers that lose the race are cancelled.
func (r *Responder) Respond(ctx context.Context, req Request, compute func(context.Context) (string, error)) {
	d := &delivery{}
	start := time.Now()

	noticeTimer := time.AfterFunc(r.noticeDelay, func() {
		r.sendNotice(ctx, d, req)
	})
	placeholderTimer := time.AfterFunc(r.placeholderDelay, func() {
		r.postPlaceholder(ctx, d, req)
	})

	answer, err := compute(ctx)
	if err != nil {
		r.logger.Error("answer computation failed",
			"error", err,
			"request_id", req.ID,
			"channel", req.Channel)
		answer = Apology
	}
	final := fmt.Sprintf("<@%s> %s", req.User, answer)

	r.finalize(ctx, d, req, final, noticeTimer, placeholderTimer)

	r.logger.Info("request finalized",
		"request_id", req.ID,
		"channel", req.Channel,
		"duration_ms", time.Since(start).Milliseconds(),
		"failed", err != nil)
}

// sendNotice fires the private "working on it" notice if the request is
// still in flight. Transport failure is logged and swallowed.
func (r *Responder) sendNotice(ctx context.Context, d *delivery, req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.completed {
		return
	}

	if err := r.transport.PostEphemeral(ctx, req.Channel, req.User, r.phrases.Pick()); err != nil {
		r.logger.Warn("failed to send working notice",
			"error", err,
			"request_id", req.ID,
			"channel", req.Channel)
		return
	}
	r.logger.Debug("working notice sent", "request_id", req.ID)
}

// postPlaceholder fires the public threaded "thinking" message if the
// request is still in flight, recording the posted message ref for the
// finalizer. This is the only write point for d.placeholder. Failure
// leaves the ref unset, which the finalizer treats as no placeholder.
func (r *Responder) postPlaceholder(ctx context.Context, d *delivery, req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.completed {
		return
	}

	ref, err := r.transport.PostMessage(ctx, req.Channel, req.ThreadTS, thinkingText(req.User))
	if err != nil {
		r.logger.Warn("failed to post placeholder",
			"error", err,
			"request_id", req.ID,
			"channel", req.Channel)
		return
	}
	d.placeholder = &ref
	r.logger.Debug("placeholder posted",
		"request_id", req.ID,
		"message_ts", ref.Timestamp)
}

// finalize marks the request completed and emits the terminal message. A
// second call for the same delivery is a no-op. Placeholder update falls
// back to a fresh threaded post; a failed fresh post is logged and not
// retried.
func (r *Responder) finalize(ctx context.Context, d *delivery, req Request, text string, timers ...*time.Timer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.completed {
		return
	}
	d.completed = true
	for _, t := range timers {
		t.Stop()
	}

	if d.placeholder != nil {
		err := r.transport.UpdateMessage(ctx, *d.placeholder, text)
		if err == nil {
			r.logger.Debug("placeholder updated with final answer",
				"request_id", req.ID,
				"message_ts", d.placeholder.Timestamp)
			return
		}
		r.logger.Warn("placeholder update failed, posting fresh",
			"error", err,
			"request_id", req.ID,
			"message_ts", d.placeholder.Timestamp)
	}

	if _, err := r.transport.PostMessage(ctx, req.Channel, req.ThreadTS, text); err != nil {
		// Terminal, best-effort: the failure is observable only here.
		r.logger.Error("final answer delivery failed",
			"error", err,
			"request_id", req.ID,
			"channel", req.Channel)
	}
}

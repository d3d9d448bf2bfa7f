// Package respond delivers answers with time-based escalation.
//
// # Overview
//
// Computing an answer can take several seconds. Rather than leaving the
// requester staring at silence, the Responder races the computation
// against two one-shot timers:
//
//   - after PlaceholderDelay, a public "thinking" message is posted into
//     the request's thread and its ref recorded for later update
//   - after NoticeDelay, a private ephemeral "working on it" notice is
//     sent to the requester, with a phrase rotated from a fixed list
//
// When the computation resolves, the finalizer reconciles whatever fired:
// if a placeholder exists it is updated in place with the final text,
// otherwise the text is posted fresh into the thread. A failed update
// falls back to a fresh post; a failed fresh post is logged and not
// retried.
//
// # Delivery state
//
// Each Respond call owns a small delivery record:
//
//	type delivery struct {
//	    mu          sync.Mutex
//	    completed   bool
//	    placeholder *MessageRef
//	}
//
// The record is never shared across requests. The mutex is held across
// both the completed check and the transport call that follows it, so a
// timer cannot observe completed=false, lose the CPU to the finalizer,
// and still emit a stale notice afterwards. That read-then-act race is
// the one failure mode this package exists to close.
//
// # Cancellation
//
// The finalizer stops both timers, so a timer that has not fired yet
// never will. A timer callback already running blocks on the mutex and
// re-checks completed, making it a no-op. completed transitions false to
// true exactly once; a duplicate finalize call returns without side
// effects.
//
// # Policy
//
// The two delays are independent knobs. Nothing prevents both the notice
// and the placeholder from firing for one slow request; only
// finalization suppresses them.
package respond

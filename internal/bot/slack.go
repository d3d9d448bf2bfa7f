// ABOUTME: Slack socket-mode runner and chat transport implementation
// ABOUTME: Bridges app_mention events to the handler and the responder's transport calls to the Web API

package bot

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/gbkevin/docsbot/internal/respond"
)

// SlackTransport implements respond.Transport over the Slack Web API.
type SlackTransport struct {
	api *slack.Client
}

// NewSlackTransport wraps a Slack API client.
func NewSlackTransport(api *slack.Client) *SlackTransport {
	return &SlackTransport{api: api}
}

func (t *SlackTransport) PostMessage(ctx context.Context, channel, threadTS, text string) (respond.MessageRef, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	ch, ts, err := t.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return respond.MessageRef{}, err
	}
	return respond.MessageRef{Channel: ch, Timestamp: ts}, nil
}

func (t *SlackTransport) UpdateMessage(ctx context.Context, ref respond.MessageRef, text string) error {
	_, _, _, err := t.api.UpdateMessageContext(ctx, ref.Channel, ref.Timestamp, slack.MsgOptionText(text, false))
	return err
}

func (t *SlackTransport) PostEphemeral(ctx context.Context, channel, user, text string) error {
	_, err := t.api.PostEphemeralContext(ctx, channel, user, slack.MsgOptionText(text, false))
	return err
}

// Runner consumes socket-mode events and dispatches mentions to the
// handler, each on its own goroutine.
type Runner struct {
	client  *socketmode.Client
	handler *Handler
	logger  *slog.Logger
}

// NewRunner creates a socket-mode runner over the given API client.
func NewRunner(api *slack.Client, handler *Handler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		client:  socketmode.New(api),
		handler: handler,
		logger:  logger.With("component", "slack"),
	}
}

// Run connects to Slack and processes events until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	go r.dispatch(ctx)
	return r.client.RunContext(ctx)
}

func (r *Runner) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-r.client.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnected:
				r.logger.Info("connected to slack")
			case socketmode.EventTypeConnectionError:
				r.logger.Warn("slack connection error", "error", evt.Data)
			case socketmode.EventTypeEventsAPI:
				apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				// Ack before handling: the answer flow can run for
				// seconds and a late ack triggers a redelivery.
				if evt.Request != nil {
					r.client.Ack(*evt.Request)
				}
				r.handleEventsAPI(ctx, apiEvent)
			}
		}
	}
}

func (r *Runner) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}
	ev, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		return
	}

	m := Mention{
		User:     ev.User,
		Channel:  ev.Channel,
		Text:     ev.Text,
		TS:       ev.TimeStamp,
		ThreadTS: ev.ThreadTimeStamp,
	}
	go r.handler.HandleMention(ctx, m)
}

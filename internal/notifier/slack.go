package notifier

import (
	"context"
	"log/slog"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/slack-go/slack"
)

// SlackNotifier posts events to Slack. If Channel is set, events are posted there. Otherwise, they are posted
// to every channel the bot is a member of.
type SlackNotifier struct {
	Logger *slog.Logger
	SlackSender
	Channel string
}

//go:generate mockery --name SlackSender
type SlackSender interface {
	PostMessageContext(context.Context, string, ...slack.MsgOption) (string, string, error)
	GetConversationsContext(context.Context, *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

var _ poller.Notifier = &SlackNotifier{}

func (s *SlackNotifier) Notify(ctx context.Context, event poller.Event) {
	channels, err := s.getChannels(ctx)
	if err != nil {
		s.Logger.Error("notifier failed to retrieve channels", "err", err)
		return
	}
	for _, channel := range channels {
		s.Logger.Debug("notifying on slack", "channel", channel)
		_, _, err = s.SlackSender.PostMessageContext(ctx, channel, slack.MsgOptionAttachments(slack.Attachment{
			Color: color(event),
			Title: "eZone: " + event.Type.String(),
			Text:  event.String(),
		}))
		if err != nil {
			s.Logger.Error("notifier failed to post message", "err", err)
		}
	}
}

func (s *SlackNotifier) getChannels(ctx context.Context) ([]string, error) {
	if s.Channel != "" {
		return []string{s.Channel}, nil
	}

	var joinedChannels []string
	var cursor string
	for {
		channels, nextCursor, err := s.SlackSender.GetConversationsContext(ctx, &slack.GetConversationsParameters{Cursor: cursor, Limit: 100})
		if err != nil {
			return nil, err
		}
		for _, channel := range channels {
			if channel.IsMember && !channel.IsArchived {
				joinedChannels = append(joinedChannels, channel.ID)
			}
		}
		if cursor = nextCursor; cursor == "" {
			break
		}
	}
	return joinedChannels, nil
}

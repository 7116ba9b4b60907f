package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Bot answers Slack slash commands to show and control the aircon unit and its zones.
type Bot struct {
	SocketModeHandler
	poller   Poller
	logger   *slog.Logger
	snapshot poller.Snapshot
	lock     sync.RWMutex
	updated  bool
}

type Poller interface {
	Subscribe() <-chan poller.Snapshot
	Unsubscribe(<-chan poller.Snapshot)
	RequestRefresh()
	SetAirconOnOff(ctx context.Context, on bool) error
	SetHVACMode(ctx context.Context, mode string) error
	SetFanSpeed(ctx context.Context, speed ezone.FanSpeed) error
	SetTargetTemperature(ctx context.Context, temperature float64) error
	SetZoneOpen(ctx context.Context, zone int, open bool) error
	SetZonePercent(ctx context.Context, zone int, percent int) error
	SetZoneName(ctx context.Context, zone int, name string) error
}

var _ Poller = &poller.Poller{}

type SocketModeHandler interface {
	HandleSlashCommand(command string, f socketmode.SocketmodeHandlerFunc)
	HandleDefault(f socketmode.SocketmodeHandlerFunc)
	RunEventLoopContext(ctx context.Context) error
}

var _ SocketModeHandler = &socketmode.SocketmodeHandler{}

type SlackSender interface {
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

func New(h SocketModeHandler, p Poller, logger *slog.Logger) *Bot {
	b := Bot{
		SocketModeHandler: h,
		poller:            p,
		logger:            logger,
	}
	commands := map[string]func(slack.SlashCommand, SlackSender) error{
		"/zones":     b.listZones,
		"/aircon":    b.showAircon,
		"/setzone":   b.setZone,
		"/setaircon": b.setAircon,
		"/refresh":   b.refresh,
	}
	for command, f := range commands {
		b.SocketModeHandler.HandleSlashCommand(command, b.handleSlashCommand(f))
	}
	b.SocketModeHandler.HandleDefault(func(event *socketmode.Event, _ *socketmode.Client) {
		b.logger.Debug("unhandled event received", "type", event.Type)
	})
	return &b
}

// Run the bot
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Debug("bot started")
	defer b.logger.Debug("bot stopped")

	errCh := make(chan error)
	go func() { errCh <- b.SocketModeHandler.RunEventLoopContext(ctx) }()

	ch := b.poller.Subscribe()
	defer b.poller.Unsubscribe(ch)

	for {
		select {
		case err := <-errCh:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("bot: %w", err)
			}
			return nil
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			b.setUpdate(snapshot)
		}
	}
}

func (b *Bot) setUpdate(snapshot poller.Snapshot) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.snapshot = snapshot
	b.updated = true
}

func (b *Bot) getUpdate() (poller.Snapshot, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.snapshot, b.updated
}

func (b *Bot) handleSlashCommand(f func(slack.SlashCommand, SlackSender) error) socketmode.SocketmodeHandlerFunc {
	return func(event *socketmode.Event, client *socketmode.Client) {
		data, ok := event.Data.(slack.SlashCommand)
		if !ok {
			b.logger.Debug("ignored", "type", event.Type)
			return
		}
		client.Ack(*event.Request)
		b.runCommand(data, client, f)
	}
}

func (b *Bot) runCommand(command slack.SlashCommand, client SlackSender, f func(slack.SlashCommand, SlackSender) error) {
	b.logger.Debug("running command", "command", command.Command, "text", command.Text)
	if err := f(command, client); err != nil {
		b.logger.Warn("command failed", "command", command.Command, "err", err)
		attachment := slack.Attachment{
			Color: "bad",
			Title: "failed: " + command.Command,
			Text:  err.Error(),
		}
		if _, err = client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionAttachments(attachment)); err != nil {
			b.logger.Error("failed to post error", "err", err)
		}
	}
}

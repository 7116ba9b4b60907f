package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/slack-go/slack"
)

var (
	ErrNoUpdates = errors.New("no updates yet. please check back later")
)

func (b *Bot) listZones(command slack.SlashCommand, client SlackSender) error {
	snapshot, ok := b.getUpdate()
	if !ok {
		return ErrNoUpdates
	}

	text := make([]string, 0, snapshot.ZoneCount())
	for id := 1; id <= snapshot.ZoneCount(); id++ {
		zone, found := snapshot.Zone(id)
		if !found {
			text = append(text, fmt.Sprintf("*Zone %d*: not responding", id))
			continue
		}
		text = append(text, "*"+zone.Label()+"*: "+zoneState(zone))
	}
	if len(text) == 0 {
		text = append(text, "no zones have been found")
	}

	attachment := slack.Attachment{
		Color: "good",
		Title: "zones",
		Text:  strings.Join(text, "\n"),
	}
	_, err := client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionAttachments(attachment))
	return err
}

func zoneState(zone ezone.Zone) string {
	state := "closed"
	if !zone.IsClosed() {
		state = fmt.Sprintf("open %d%%", zone.Position())
	}
	if zone.ActualTemp != nil {
		state = fmt.Sprintf("%.1fºC (%s)", *zone.ActualTemp, state)
	}
	return state
}

func (b *Bot) showAircon(command slack.SlashCommand, client SlackSender) error {
	snapshot, ok := b.getUpdate()
	if !ok {
		return ErrNoUpdates
	}

	attachment := slack.Attachment{
		Color: "good",
		Title: snapshot.System.Name,
		Text:  airconState(snapshot.System),
	}
	_, err := client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionAttachments(attachment))
	return err
}

func airconState(system ezone.System) string {
	if !system.AirconOn {
		return fmt.Sprintf("off. temperature: %.1fºC", system.CentralActualTemp)
	}
	return fmt.Sprintf("on. mode: %s, fan: %s. temperature: %.1fºC (target: %.1fºC)",
		system.Mode, system.FanSpeed, system.CentralActualTemp, system.CentralDesiredTemp,
	)
}

func (b *Bot) refresh(command slack.SlashCommand, client SlackSender) error {
	b.poller.RequestRefresh()
	_, err := client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionText("refreshing eZone data", false))
	return err
}

// commandTimeout bounds a write to the controller, including the refresh that follows it.
const commandTimeout = 30 * time.Second

func (b *Bot) setZone(command slack.SlashCommand, client SlackSender) error {
	cmd, err := parseSetZone(tokenizeText(command.Text)...)
	if err != nil {
		return err
	}

	snapshot, ok := b.getUpdate()
	if !ok {
		return ErrNoUpdates
	}
	zone, ok := snapshot.LookupZone(cmd.zoneName)
	if !ok {
		return fmt.Errorf("invalid zone name: %q", cmd.zoneName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	var text string
	switch cmd.action {
	case "open":
		err = b.poller.SetZoneOpen(ctx, zone.ID, true)
		text = "opens " + zone.Label()
	case "close":
		err = b.poller.SetZoneOpen(ctx, zone.ID, false)
		text = "closes " + zone.Label()
	case "percent":
		err = b.poller.SetZonePercent(ctx, zone.ID, cmd.percent)
		text = fmt.Sprintf("sets %s to %d%%", zone.Label(), cmd.percent)
	case "name":
		err = b.poller.SetZoneName(ctx, zone.ID, cmd.name)
		text = fmt.Sprintf("renames %s to %q", zone.Label(), cmd.name)
	}
	if err != nil {
		return fmt.Errorf("could not set zone: %w", err)
	}

	_, _, err = client.PostMessage(command.ChannelID, slack.MsgOptionText("<@"+command.UserID+"> "+text, false))
	return err
}

func (b *Bot) setAircon(command slack.SlashCommand, client SlackSender) error {
	cmd, err := parseSetAircon(tokenizeText(command.Text)...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	var text string
	switch cmd.action {
	case "on":
		err = b.poller.SetAirconOnOff(ctx, true)
		text = "switches the aircon on"
	case poller.HVACModeOff:
		err = b.poller.SetAirconOnOff(ctx, false)
		text = "switches the aircon off"
	case "mode":
		err = b.poller.SetHVACMode(ctx, cmd.mode.String())
		text = "sets the aircon to " + cmd.mode.String() + " mode"
	case "fan":
		err = b.poller.SetFanSpeed(ctx, cmd.fanSpeed)
		text = "sets the fan speed to " + cmd.fanSpeed.String()
	case "temp":
		err = b.poller.SetTargetTemperature(ctx, cmd.temperature)
		text = fmt.Sprintf("sets the target temperature to %.1fºC", cmd.temperature)
	}
	if err != nil {
		return fmt.Errorf("could not set aircon: %w", err)
	}

	_, _, err = client.PostMessage(command.ChannelID, slack.MsgOptionText("<@"+command.UserID+"> "+text, false))
	return err
}

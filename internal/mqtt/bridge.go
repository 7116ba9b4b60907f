package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client is the part of paho.Client used by the Bridge.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var _ Client = paho.Client(nil)

type Poller interface {
	Subscribe() <-chan poller.Snapshot
	Unsubscribe(<-chan poller.Snapshot)
	RequestRefresh()
	SetAirconOnOff(ctx context.Context, on bool) error
	SetHVACMode(ctx context.Context, mode string) error
	SetFanSpeed(ctx context.Context, speed ezone.FanSpeed) error
	SetTargetTemperature(ctx context.Context, temperature float64) error
	SetZoneOpen(ctx context.Context, zone int, open bool) error
	SetZonePosition(ctx context.Context, zone int, position int) error
	SetZoneName(ctx context.Context, zone int, name string) error
}

var _ Poller = &poller.Poller{}

// Bridge publishes each snapshot to the broker and turns messages on the command topics into poller commands.
//
// State topics (retained):
//
//	<prefix>/state               full snapshot, as JSON
//	<prefix>/zone/<id>/state     one zone, as JSON
//
// Command topics:
//
//	<prefix>/refresh
//	<prefix>/set/power           on|off
//	<prefix>/set/mode            off|cool|heat|fan
//	<prefix>/set/fan             low|medium|high
//	<prefix>/set/temperature     target temperature
//	<prefix>/set/zone/<id>/open  on|off
//	<prefix>/set/zone/<id>/position  0-100. 0 closes the zone
//	<prefix>/set/zone/<id>/name  new zone name
type Bridge struct {
	client Client
	poller Poller
	prefix string
	logger *slog.Logger
}

func New(client Client, p Poller, prefix string, logger *slog.Logger) *Bridge {
	return &Bridge{
		client: client,
		poller: p,
		prefix: strings.TrimSuffix(prefix, "/"),
		logger: logger,
	}
}

func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Debug("started")
	defer b.logger.Debug("stopped")

	for _, topic := range []string{b.topic("set/#"), b.topic("refresh")} {
		if err := wait(b.client.Subscribe(topic, 1, b.onMessage(ctx)), tokenTimeout); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	ch := b.poller.Subscribe()
	defer b.poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			b.publishSnapshot(snapshot)
		}
	}
}

func (b *Bridge) topic(path string) string {
	return b.prefix + "/" + path
}

func (b *Bridge) publishSnapshot(snapshot poller.Snapshot) {
	b.publish(b.topic("state"), snapshot)
	for _, id := range snapshot.ZoneIDs() {
		zone, _ := snapshot.Zone(id)
		b.publish(b.topic("zone/"+strconv.Itoa(id)+"/state"), zone)
	}
}

func (b *Bridge) publish(topic string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		b.logger.Error("failed to encode state", "topic", topic, "err", err)
		return
	}
	if err = wait(b.client.Publish(topic, 0, true, payload), tokenTimeout); err != nil {
		b.logger.Warn("failed to publish state", "topic", topic, "err", err)
	}
}

func (b *Bridge) onMessage(ctx context.Context) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		topic := strings.TrimPrefix(msg.Topic(), b.prefix+"/")
		payload := strings.TrimSpace(string(msg.Payload()))
		b.logger.Debug("command received", "topic", topic, "payload", payload)
		if err := b.handle(ctx, topic, payload); err != nil {
			b.logger.Warn("command failed", "topic", topic, "payload", payload, "err", err)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, topic string, payload string) error {
	if topic == "refresh" {
		b.poller.RequestRefresh()
		return nil
	}

	parts := strings.Split(strings.TrimPrefix(topic, "set/"), "/")
	switch {
	case len(parts) == 1:
		return b.handleSystem(ctx, parts[0], payload)
	case len(parts) == 3 && parts[0] == "zone":
		zone, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid zone %q: %w", parts[1], ezone.ErrInvalidArgument)
		}
		return b.handleZone(ctx, zone, parts[2], payload)
	default:
		return fmt.Errorf("unsupported topic: %s", topic)
	}
}

func (b *Bridge) handleSystem(ctx context.Context, attribute string, payload string) error {
	switch attribute {
	case "power":
		on, err := parseOnOff(payload)
		if err != nil {
			return err
		}
		return b.poller.SetAirconOnOff(ctx, on)
	case "mode":
		return b.poller.SetHVACMode(ctx, payload)
	case "fan":
		speed, err := ezone.ParseFanSpeed(payload)
		if err != nil {
			return err
		}
		return b.poller.SetFanSpeed(ctx, speed)
	case "temperature":
		temperature, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", payload, ezone.ErrInvalidArgument)
		}
		return b.poller.SetTargetTemperature(ctx, temperature)
	default:
		return fmt.Errorf("unsupported attribute: %s", attribute)
	}
}

func (b *Bridge) handleZone(ctx context.Context, zone int, attribute string, payload string) error {
	switch attribute {
	case "open":
		open, err := parseOnOff(payload)
		if err != nil {
			return err
		}
		return b.poller.SetZoneOpen(ctx, zone, open)
	case "position":
		position, err := strconv.Atoi(payload)
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", payload, ezone.ErrInvalidArgument)
		}
		return b.poller.SetZonePosition(ctx, zone, position)
	case "name":
		return b.poller.SetZoneName(ctx, zone, payload)
	default:
		return fmt.Errorf("unsupported zone attribute: %s", attribute)
	}
}

func parseOnOff(payload string) (bool, error) {
	switch strings.ToLower(payload) {
	case "on", "true", "1", "open":
		return true, nil
	case "off", "false", "0", "close", "closed":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q: %w", payload, ezone.ErrInvalidArgument)
	}
}

package poller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
)

// HVACModeOff switches the aircon unit off in SetHVACMode.
const HVACModeOff = "off"

// SetAirconOnOff switches the aircon unit on or off.
func (p *Poller) SetAirconOnOff(ctx context.Context, on bool) error {
	return p.setSystem(ctx, ezone.SystemSettings{AirconOn: &on})
}

// SetMode sets the operating mode.
func (p *Poller) SetMode(ctx context.Context, mode ezone.Mode) error {
	return p.setSystem(ctx, ezone.SystemSettings{Mode: &mode})
}

// SetFanSpeed sets the fan speed.
func (p *Poller) SetFanSpeed(ctx context.Context, speed ezone.FanSpeed) error {
	return p.setSystem(ctx, ezone.SystemSettings{FanSpeed: &speed})
}

// SetTargetTemperature sets the central target temperature.
func (p *Poller) SetTargetTemperature(ctx context.Context, temperature float64) error {
	return p.setSystem(ctx, ezone.SystemSettings{CentralDesiredTemp: &temperature})
}

// SetHVACMode accepts "off" or a mode name. "off" switches the unit off; a mode switches the unit on
// and sets the mode, in a single command.
func (p *Poller) SetHVACMode(ctx context.Context, hvacMode string) error {
	if strings.EqualFold(hvacMode, HVACModeOff) {
		return p.SetAirconOnOff(ctx, false)
	}
	mode, err := ezone.ParseMode(hvacMode)
	if err != nil {
		return err
	}
	return p.setSystem(ctx, ezone.SystemSettings{AirconOn: ezone.VarP(true), Mode: &mode})
}

// SetZoneOpen opens or closes a zone.
func (p *Poller) SetZoneOpen(ctx context.Context, zone int, open bool) error {
	return p.setZone(ctx, zone, ezone.ZoneSettings{Open: &open})
}

// SetZonePercent sets the damper opening of a zone. This also opens the zone.
func (p *Poller) SetZonePercent(ctx context.Context, zone int, percent int) error {
	return p.setZone(ctx, zone, ezone.ZoneSettings{Open: ezone.VarP(true), Percent: &percent})
}

// SetZonePosition moves the damper to position (0-100), like a cover. Position 0 closes the zone.
func (p *Poller) SetZonePosition(ctx context.Context, zone int, position int) error {
	if position == 0 {
		return p.SetZoneOpen(ctx, zone, false)
	}
	return p.SetZonePercent(ctx, zone, position)
}

// SetZoneName renames a zone on the controller.
func (p *Poller) SetZoneName(ctx context.Context, zone int, name string) error {
	return p.setZone(ctx, zone, ezone.ZoneSettings{Name: &name})
}

// SetSystemName renames the controller.
func (p *Poller) SetSystemName(ctx context.Context, name string) error {
	return p.command(ctx, "changeName", func(ctx context.Context) (string, error) {
		return p.client.ChangeSystemName(ctx, name)
	})
}

// SetZoneTimer sets the timer schedule. The schedule is passed to the controller as-is.
func (p *Poller) SetZoneTimer(ctx context.Context, timer ezone.ZoneTimer) error {
	return p.command(ctx, "setZoneTimer", func(ctx context.Context) (string, error) {
		return p.client.SetZoneTimer(ctx, timer)
	})
}

// ZoneTimer returns the controller's timer schedule.
func (p *Poller) ZoneTimer(ctx context.Context) (xmlnode.Node, error) {
	return p.client.GetZoneTimer(ctx)
}

func (p *Poller) setSystem(ctx context.Context, settings ezone.SystemSettings) error {
	return p.command(ctx, "setSystemData", func(ctx context.Context) (string, error) {
		return p.client.SetSystemData(ctx, settings)
	})
}

func (p *Poller) setZone(ctx context.Context, zone int, settings ezone.ZoneSettings) error {
	return p.command(ctx, "setZoneData", func(ctx context.Context) (string, error) {
		return p.client.SetZoneData(ctx, zone, settings)
	})
}

// command sends a write to the controller and refreshes the snapshot, so subscribers see its effect.
// Once the write succeeded, a failing refresh is logged, not returned: the command itself was accepted.
func (p *Poller) command(ctx context.Context, name string, f func(context.Context) (string, error)) error {
	response, err := f(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("command sent", slog.String("command", name), slog.String("response", response))

	if _, err = p.forceRefresh(ctx); err != nil {
		p.logger.Warn("failed to refresh after command", slog.String("command", name), slog.Any("err", err))
	}
	return nil
}

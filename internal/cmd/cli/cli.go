// Package cli implements the one-shot commands: show the controller's state, change a setting, show or set the timer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
)

type Encoder interface {
	Encode(any) error
}

type Poller interface {
	Refresh(ctx context.Context) (poller.Snapshot, error)
	ZoneTimer(ctx context.Context) (xmlnode.Node, error)
	SetAirconOnOff(ctx context.Context, on bool) error
	SetHVACMode(ctx context.Context, mode string) error
	SetFanSpeed(ctx context.Context, speed ezone.FanSpeed) error
	SetTargetTemperature(ctx context.Context, temperature float64) error
	SetZoneOpen(ctx context.Context, zone int, open bool) error
	SetZonePercent(ctx context.Context, zone int, percent int) error
	SetZoneName(ctx context.Context, zone int, name string) error
	SetSystemName(ctx context.Context, name string) error
	SetZoneTimer(ctx context.Context, timer ezone.ZoneTimer) error
}

var _ Poller = &poller.Poller{}

// Show refreshes the controller's state and encodes it.
func Show(ctx context.Context, p Poller, e Encoder) error {
	snapshot, err := p.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return e.Encode(snapshot)
}

// ShowTimer encodes the controller's timer schedule.
func ShowTimer(ctx context.Context, p Poller, e Encoder) error {
	timer, err := p.ZoneTimer(ctx)
	if err != nil {
		return fmt.Errorf("timer: %w", err)
	}
	return e.Encode(timer)
}

// SetAircon changes a setting of the aircon unit: on, off, <mode>, fan <speed> or temp <temperature>.
func SetAircon(ctx context.Context, p Poller, args ...string) error {
	if len(args) == 0 {
		return errors.New("missing setting")
	}
	switch action := strings.ToLower(args[0]); action {
	case "on":
		return p.SetAirconOnOff(ctx, true)
	case poller.HVACModeOff:
		return p.SetAirconOnOff(ctx, false)
	case "fan":
		if len(args) < 2 {
			return p.SetHVACMode(ctx, action)
		}
		speed, err := ezone.ParseFanSpeed(args[1])
		if err != nil {
			return err
		}
		return p.SetFanSpeed(ctx, speed)
	case "temp":
		if len(args) < 2 {
			return errors.New("missing temperature")
		}
		temperature, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", args[1], ezone.ErrInvalidArgument)
		}
		return p.SetTargetTemperature(ctx, temperature)
	default:
		return p.SetHVACMode(ctx, action)
	}
}

// SetZone changes a setting of a zone: open, close, <percentage> or name <new name>.
// The zone is a zone number, name or alias.
func SetZone(ctx context.Context, p Poller, args ...string) error {
	if len(args) < 2 {
		return errors.New("missing zone or setting")
	}
	snapshot, err := p.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	zone, ok := snapshot.LookupZone(args[0])
	if !ok {
		return fmt.Errorf("invalid zone: %q", args[0])
	}

	switch action := strings.ToLower(args[1]); action {
	case "open":
		return p.SetZoneOpen(ctx, zone.ID, true)
	case "close":
		return p.SetZoneOpen(ctx, zone.ID, false)
	case "name":
		if len(args) < 3 {
			return errors.New("missing name")
		}
		return p.SetZoneName(ctx, zone.ID, strings.Join(args[2:], " "))
	default:
		percent, err := strconv.Atoi(strings.TrimSuffix(action, "%"))
		if err != nil {
			return fmt.Errorf("invalid setting %q: %w", args[1], ezone.ErrInvalidArgument)
		}
		return p.SetZonePercent(ctx, zone.ID, percent)
	}
}

// SetTimer sets the timer schedule: a status, optionally followed by a start and end time (hh:mm).
func SetTimer(ctx context.Context, p Poller, args ...string) error {
	if len(args) != 1 && len(args) != 3 {
		return errors.New("expected <status> [<start> <end>]")
	}
	var timer ezone.ZoneTimer
	var err error
	if timer.ScheduleStatus, err = strconv.Atoi(args[0]); err != nil {
		return fmt.Errorf("invalid status %q: %w", args[0], ezone.ErrInvalidArgument)
	}
	if len(args) == 3 {
		if timer.StartTimeHours, timer.StartTimeMinutes, err = parseTime(args[1]); err != nil {
			return err
		}
		if timer.EndTimeHours, timer.EndTimeMinutes, err = parseTime(args[2]); err != nil {
			return err
		}
	}
	return p.SetZoneTimer(ctx, timer)
}

func parseTime(s string) (*int, *int, error) {
	hours, minutes, ok := strings.Cut(s, ":")
	h, err1 := strconv.Atoi(hours)
	m, err2 := strconv.Atoi(minutes)
	if !ok || err1 != nil || err2 != nil {
		return nil, nil, fmt.Errorf("invalid time %q: %w", s, ezone.ErrInvalidArgument)
	}
	return &h, &m, nil
}

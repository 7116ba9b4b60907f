package ezone

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SystemSettings holds the controller-wide settings to change. Nil fields are left untouched.
type SystemSettings struct {
	AirconOn           *bool
	Mode               *Mode
	FanSpeed           *FanSpeed
	CentralDesiredTemp *float64
}

func (s SystemSettings) values() (url.Values, error) {
	values := make(url.Values)
	if s.AirconOn != nil {
		values.Set("airconOnOff", onOff(*s.AirconOn))
	}
	if s.Mode != nil {
		if !s.Mode.Valid() {
			return nil, fmt.Errorf("%w: mode %d", ErrInvalidArgument, *s.Mode)
		}
		values.Set("mode", strconv.Itoa(int(*s.Mode)))
	}
	if s.FanSpeed != nil {
		if !s.FanSpeed.Valid() {
			return nil, fmt.Errorf("%w: fan speed %d", ErrInvalidArgument, *s.FanSpeed)
		}
		values.Set("fanSpeed", strconv.Itoa(int(*s.FanSpeed)))
	}
	if s.CentralDesiredTemp != nil {
		values.Set("centralDesiredTemp", strconv.FormatFloat(*s.CentralDesiredTemp, 'f', 1, 64))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings", ErrInvalidArgument)
	}
	return values, nil
}

// ZoneSettings holds the zone settings to change. Nil fields are left untouched.
type ZoneSettings struct {
	Open    *bool
	Percent *int
	Name    *string
}

func (s ZoneSettings) values(zone int) (url.Values, error) {
	if zone < 1 {
		return nil, fmt.Errorf("%w: zone %d", ErrInvalidArgument, zone)
	}
	values := url.Values{"zone": {strconv.Itoa(zone)}}
	if s.Open != nil {
		values.Set("zoneSetting", onOff(*s.Open))
	}
	if s.Percent != nil {
		if *s.Percent < 0 || *s.Percent > 100 {
			return nil, fmt.Errorf("%w: percentage %d", ErrInvalidArgument, *s.Percent)
		}
		values.Set("userPercentSetting", strconv.Itoa(*s.Percent))
	}
	if s.Name != nil {
		values.Set("name", *s.Name)
	}
	if len(values) == 1 {
		return nil, fmt.Errorf("%w: no settings", ErrInvalidArgument)
	}
	return values, nil
}

// ZoneTimer holds a timer schedule. ScheduleStatus is always sent; nil time fields are left out.
type ZoneTimer struct {
	ScheduleStatus   int
	StartTimeHours   *int
	StartTimeMinutes *int
	EndTimeHours     *int
	EndTimeMinutes   *int
}

func (t ZoneTimer) values() (url.Values, error) {
	values := url.Values{"scheduleStatus": {strconv.Itoa(t.ScheduleStatus)}}
	fields := []struct {
		name  string
		value *int
		max   int
	}{
		{"startTimeHours", t.StartTimeHours, 23},
		{"startTimeMinutes", t.StartTimeMinutes, 59},
		{"endTimeHours", t.EndTimeHours, 23},
		{"endTimeMinutes", t.EndTimeMinutes, 59},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		if *field.value < 0 || *field.value > field.max {
			return nil, fmt.Errorf("%w: %s %d", ErrInvalidArgument, field.name, *field.value)
		}
		values.Set(field.name, strconv.Itoa(*field.value))
	}
	return values, nil
}

// SetSystemData changes one or more controller-wide settings and returns the controller's response.
func (c *Client) SetSystemData(ctx context.Context, settings SystemSettings) (string, error) {
	values, err := settings.values()
	if err != nil {
		return "", &APIError{Op: "setSystemData", Err: err}
	}
	return c.write(ctx, "setSystemData", 0, "/setSystemData", values)
}

// SetZoneData changes one or more settings of a zone and returns the controller's response.
func (c *Client) SetZoneData(ctx context.Context, zone int, settings ZoneSettings) (string, error) {
	values, err := settings.values(zone)
	if err != nil {
		return "", &APIError{Op: "setZoneData", Zone: zone, Err: err}
	}
	return c.write(ctx, "setZoneData", zone, "/setZoneData", values)
}

// SetAirconOnOff switches the aircon unit on or off.
func (c *Client) SetAirconOnOff(ctx context.Context, on bool) (string, error) {
	return c.SetSystemData(ctx, SystemSettings{AirconOn: &on})
}

// SetMode sets the operating mode.
func (c *Client) SetMode(ctx context.Context, mode Mode) (string, error) {
	return c.SetSystemData(ctx, SystemSettings{Mode: &mode})
}

// SetFanSpeed sets the fan speed.
func (c *Client) SetFanSpeed(ctx context.Context, speed FanSpeed) (string, error) {
	return c.SetSystemData(ctx, SystemSettings{FanSpeed: &speed})
}

// SetTargetTemperature sets the central target temperature.
func (c *Client) SetTargetTemperature(ctx context.Context, temperature float64) (string, error) {
	return c.SetSystemData(ctx, SystemSettings{CentralDesiredTemp: &temperature})
}

// SetZoneSetting opens or closes a zone.
func (c *Client) SetZoneSetting(ctx context.Context, zone int, open bool) (string, error) {
	return c.SetZoneData(ctx, zone, ZoneSettings{Open: &open})
}

// SetZonePercent sets the damper percentage of a zone. This also opens the zone.
func (c *Client) SetZonePercent(ctx context.Context, zone int, percent int) (string, error) {
	return c.SetZoneData(ctx, zone, ZoneSettings{Open: VarP(true), Percent: &percent})
}

// SetZoneName renames a zone.
func (c *Client) SetZoneName(ctx context.Context, zone int, name string) (string, error) {
	return c.SetZoneData(ctx, zone, ZoneSettings{Name: &name})
}

// ChangeSystemName renames the controller.
func (c *Client) ChangeSystemName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", &APIError{Op: "changeName", Err: fmt.Errorf("%w: empty name", ErrInvalidArgument)}
	}
	return c.write(ctx, "changeName", 0, "/changeName", url.Values{"name": {name}})
}

// SetZoneTimer sets the timer schedule.
func (c *Client) SetZoneTimer(ctx context.Context, timer ZoneTimer) (string, error) {
	values, err := timer.values()
	if err != nil {
		return "", &APIError{Op: "setZoneTimer", Err: err}
	}
	return c.write(ctx, "setZoneTimer", 0, "/setZoneTimer", values)
}

func onOff(on bool) string {
	if on {
		return On
	}
	return Off
}

package bot

import (
	"testing"

	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/stretchr/testify/assert"
)

func Test_parseSetZone(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    setZoneCommand
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "empty", wantErr: assert.Error},
		{name: "missing action", args: []string{"Living"}, wantErr: assert.Error},
		{name: "open", args: []string{"Living", "open"}, want: setZoneCommand{zoneName: "Living", action: "open"}, wantErr: assert.NoError},
		{name: "close", args: []string{"2", "Close"}, want: setZoneCommand{zoneName: "2", action: "close"}, wantErr: assert.NoError},
		{name: "percent", args: []string{"Living", "40%"}, want: setZoneCommand{zoneName: "Living", action: "percent", percent: 40}, wantErr: assert.NoError},
		{name: "invalid percent", args: []string{"Living", "140"}, wantErr: assert.Error},
		{name: "name", args: []string{"3", "name", "Guest", "room"}, want: setZoneCommand{zoneName: "3", action: "name", name: "Guest room"}, wantErr: assert.NoError},
		{name: "missing name", args: []string{"3", "name"}, wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSetZone(tt.args...)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_parseSetAircon(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    setAirconCommand
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "empty", wantErr: assert.Error},
		{name: "on", args: []string{"on"}, want: setAirconCommand{action: "on"}, wantErr: assert.NoError},
		{name: "off", args: []string{"OFF"}, want: setAirconCommand{action: "off"}, wantErr: assert.NoError},
		{name: "mode", args: []string{"heat"}, want: setAirconCommand{action: "mode", mode: ezone.ModeHeat}, wantErr: assert.NoError},
		{name: "fan only", args: []string{"fan"}, want: setAirconCommand{action: "mode", mode: ezone.ModeFanOnly}, wantErr: assert.NoError},
		{name: "fan speed", args: []string{"fan", "high"}, want: setAirconCommand{action: "fan", fanSpeed: ezone.FanSpeedHigh}, wantErr: assert.NoError},
		{name: "invalid fan speed", args: []string{"fan", "turbo"}, wantErr: assert.Error},
		{name: "temperature", args: []string{"temp", "21.5"}, want: setAirconCommand{action: "temp", temperature: 21.5}, wantErr: assert.NoError},
		{name: "missing temperature", args: []string{"temp"}, wantErr: assert.Error},
		{name: "invalid temperature", args: []string{"temp", "warm"}, wantErr: assert.Error},
		{name: "invalid", args: []string{"dry"}, wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSetAircon(tt.args...)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_tokenizeText(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: `Living open`, want: []string{"Living", "open"}},
		{input: `"Master bedroom" 50`, want: []string{"Master bedroom", "50"}},
		{input: `“Master bedroom” close`, want: []string{"Master bedroom", "close"}},
		{input: ``},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenizeText(tt.input), tt.input)
	}
}

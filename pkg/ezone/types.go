package ezone

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/clambin/ezone-monitor/pkg/ezone/xmlnode"
)

// Mode is the operating mode of the aircon unit.
type Mode int

const (
	ModeCool    Mode = 1
	ModeHeat    Mode = 2
	ModeFanOnly Mode = 3
)

var modeNames = map[Mode]string{
	ModeCool:    "cool",
	ModeHeat:    "heat",
	ModeFanOnly: "fan_only",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is a mode supported by the controller.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode converts a mode name ("cool", "heat", "fan_only" or "fan") or its numeric value.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "fan" {
		return ModeFanOnly, nil
	}
	for mode, name := range modeNames {
		if s == name || s == strconv.Itoa(int(mode)) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: mode %q", ErrInvalidArgument, s)
}

// FanSpeed is the fan speed of the aircon unit.
type FanSpeed int

const (
	FanSpeedLow    FanSpeed = 1
	FanSpeedMedium FanSpeed = 2
	FanSpeedHigh   FanSpeed = 3
)

var fanSpeedNames = map[FanSpeed]string{
	FanSpeedLow:    "low",
	FanSpeedMedium: "medium",
	FanSpeedHigh:   "high",
}

func (f FanSpeed) String() string {
	if name, ok := fanSpeedNames[f]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(f)) + ")"
}

// Valid reports whether f is a fan speed supported by the controller.
func (f FanSpeed) Valid() bool {
	_, ok := fanSpeedNames[f]
	return ok
}

// ParseFanSpeed converts a fan speed name ("low", "medium", "high") or its numeric value.
func ParseFanSpeed(s string) (FanSpeed, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for speed, name := range fanSpeedNames {
		if s == name || s == strconv.Itoa(int(speed)) {
			return speed, nil
		}
	}
	return 0, fmt.Errorf("%w: fan speed %q", ErrInvalidArgument, s)
}

// MaxZones is the highest zone count accepted from the controller. eZone units drive at most 10 zones.
const MaxZones = 32

// Defaults used when the controller omits a field.
const (
	defaultMode               = ModeFanOnly
	defaultFanSpeed           = FanSpeedMedium
	defaultCentralDesiredTemp = 24.0
)

// System is the controller-wide state, as reported by /getSystemData.
type System struct {
	Name               string   `json:"name,omitempty"`
	AirconOn           bool     `json:"airconOnOff"`
	Mode               Mode     `json:"mode"`
	FanSpeed           FanSpeed `json:"fanSpeed"`
	CentralActualTemp  float64  `json:"centralActualTemp"`
	CentralDesiredTemp float64  `json:"centralDesiredTemp"`
	NumberOfZones      int      `json:"numberOfZones"`
}

func (s System) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("on", s.AirconOn),
		slog.String("mode", s.Mode.String()),
		slog.String("fan", s.FanSpeed.String()),
		slog.Float64("actual", s.CentralActualTemp),
		slog.Float64("desired", s.CentralDesiredTemp),
		slog.Int("zones", s.NumberOfZones),
	)
}

// Zone is the state of a single zone, as reported by /getZoneData.
type Zone struct {
	ID                 int      `json:"zone_number"`
	Name               string   `json:"name,omitempty"`
	Alias              string   `json:"alias,omitempty"`
	Setting            bool     `json:"setting"`
	UserPercentSetting int      `json:"userPercentSetting"`
	ActualTemp         *float64 `json:"actualTemp,omitempty"`
	DesiredTemp        *float64 `json:"desiredTemp,omitempty"`
}

// IsClosed reports whether the zone is switched off. This is authoritative: a closed zone may still report
// its last damper percentage.
func (z Zone) IsClosed() bool {
	return !z.Setting
}

// Position returns the damper opening (0-100). A closed zone is always at 0.
func (z Zone) Position() int {
	if z.IsClosed() {
		return 0
	}
	return z.UserPercentSetting
}

// Label returns the name to show for the zone: its alias, its name on the controller, or "Zone <n>".
func (z Zone) Label() string {
	switch {
	case z.Alias != "":
		return z.Alias
	case z.Name != "":
		return z.Name
	default:
		return "Zone " + strconv.Itoa(z.ID)
	}
}

// AllData is the combined result of GetAllData. Zones holds only the zones that responded, keyed by zone number.
type AllData struct {
	System System          `json:"system"`
	Zones  map[string]Zone `json:"zones"`
}

// ParseSystem extracts the controller-wide state from a parsed /getSystemData response.
// Fields are read from system/unitcontrol. Missing fields take the controller's defaults; a field that
// is present but not numeric is an error.
func ParseSystem(n xmlnode.Node) (System, error) {
	system, ok := xmlnode.MapAt(n, "system")
	if !ok {
		// some firmware returns <system> as the document root
		system, _ = n.(*xmlnode.Map)
	}
	unitControl, ok := xmlnode.MapAt(system, "unitcontrol")
	if !ok {
		unitControl = xmlnode.NewMap()
	}

	s := System{
		Mode:               defaultMode,
		FanSpeed:           defaultFanSpeed,
		CentralDesiredTemp: defaultCentralDesiredTemp,
	}
	s.Name, _ = xmlnode.Text(system, "name")

	var err error
	if value, found := xmlnode.Text(unitControl, "airconOnOff"); found {
		s.AirconOn = value == On
	}
	// unknown modes and fan speeds are kept as-is: newer firmware may add values
	if value, found := xmlnode.Text(unitControl, "mode"); found {
		mode, err := strconv.Atoi(value)
		if err != nil {
			return System{}, fmt.Errorf("invalid mode %q", value)
		}
		s.Mode = Mode(mode)
	}
	if value, found := xmlnode.Text(unitControl, "fanSpeed"); found {
		speed, err := strconv.Atoi(value)
		if err != nil {
			return System{}, fmt.Errorf("invalid fanSpeed %q", value)
		}
		s.FanSpeed = FanSpeed(speed)
	}
	if s.CentralActualTemp, err = floatField(unitControl, "centralActualTemp", s.CentralActualTemp); err != nil {
		return System{}, err
	}
	if s.CentralDesiredTemp, err = floatField(unitControl, "centralDesiredTemp", s.CentralDesiredTemp); err != nil {
		return System{}, err
	}
	if value, found := xmlnode.Text(unitControl, "numberOfZones"); found {
		if s.NumberOfZones, err = strconv.Atoi(value); err != nil || s.NumberOfZones < 0 || s.NumberOfZones > MaxZones {
			return System{}, fmt.Errorf("invalid numberOfZones %q", value)
		}
	}
	return s, nil
}

// ParseZone extracts the state of zone from a parsed /getZoneData response.
func ParseZone(n xmlnode.Node, zone int) (Zone, error) {
	fields, _ := n.(*xmlnode.Map)
	if _, found := xmlnode.Lookup(fields, "setting"); !found {
		if nested, ok := xmlnode.MapAt(fields, "zone"); ok {
			fields = nested
		}
	}

	z := Zone{ID: zone}
	z.Name, _ = xmlnode.Text(fields, "name")
	if value, found := xmlnode.Text(fields, "setting"); found {
		z.Setting = value == On
	}
	if value, found := xmlnode.Text(fields, "userPercentSetting"); found {
		percent, err := strconv.Atoi(value)
		if err != nil {
			return Zone{}, fmt.Errorf("invalid userPercentSetting %q", value)
		}
		z.UserPercentSetting = percent
	}
	var err error
	if z.ActualTemp, err = optionalFloatField(fields, "actualTemp"); err != nil {
		return Zone{}, err
	}
	if z.DesiredTemp, err = optionalFloatField(fields, "desiredTemp"); err != nil {
		return Zone{}, err
	}
	return z, nil
}

func floatField(m *xmlnode.Map, tag string, fallback float64) (float64, error) {
	value, err := optionalFloatField(m, tag)
	if err != nil || value == nil {
		return fallback, err
	}
	return *value, nil
}

// optionalFloatField returns nil if the field is absent or empty: zones without a sensor report an empty tag.
func optionalFloatField(m *xmlnode.Map, tag string) (*float64, error) {
	value, found := xmlnode.Text(m, tag)
	if !found {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", tag, value)
	}
	return &f, nil
}

// VarP returns a pointer to v.
func VarP[T any](v T) *T {
	return &v
}

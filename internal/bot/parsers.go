package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clambin/ezone-monitor/pkg/ezone"
)

const (
	setZoneUsage   = "Usage: /setzone <zone> [open|close|<percentage>|name <new name>]"
	setAirconUsage = "Usage: /setaircon [on|off|cool|heat|fan|fan <low|medium|high>|temp <temperature>]"
)

type setZoneCommand struct {
	zoneName string
	action   string
	percent  int
	name     string
}

func parseSetZone(args ...string) (setZoneCommand, error) {
	if len(args) < 2 {
		return setZoneCommand{}, errors.New("missing parameters\n" + setZoneUsage)
	}
	cmd := setZoneCommand{zoneName: args[0], action: strings.ToLower(args[1])}
	switch cmd.action {
	case "open", "close":
	case "name":
		if len(args) < 3 || args[2] == "" {
			return setZoneCommand{}, errors.New("missing name\n" + setZoneUsage)
		}
		cmd.name = strings.Join(args[2:], " ")
	default:
		percent, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
		if err != nil || percent < 0 || percent > 100 {
			return setZoneCommand{}, fmt.Errorf("invalid percentage: %q\n%s", args[1], setZoneUsage)
		}
		cmd.action = "percent"
		cmd.percent = percent
	}
	return cmd, nil
}

type setAirconCommand struct {
	action      string
	mode        ezone.Mode
	fanSpeed    ezone.FanSpeed
	temperature float64
}

func parseSetAircon(args ...string) (setAirconCommand, error) {
	if len(args) < 1 {
		return setAirconCommand{}, errors.New("missing parameters\n" + setAirconUsage)
	}
	cmd := setAirconCommand{action: strings.ToLower(args[0])}
	var err error
	switch {
	case cmd.action == "on" || cmd.action == "off":
	case cmd.action == "fan" && len(args) > 1:
		if cmd.fanSpeed, err = ezone.ParseFanSpeed(args[1]); err != nil {
			return setAirconCommand{}, fmt.Errorf("invalid fan speed: %q\n%s", args[1], setAirconUsage)
		}
	case cmd.action == "temp":
		if len(args) < 2 {
			return setAirconCommand{}, errors.New("missing temperature\n" + setAirconUsage)
		}
		if cmd.temperature, err = strconv.ParseFloat(args[1], 64); err != nil {
			return setAirconCommand{}, fmt.Errorf("invalid temperature: %q\n%s", args[1], setAirconUsage)
		}
	default:
		if cmd.mode, err = ezone.ParseMode(cmd.action); err != nil {
			return setAirconCommand{}, fmt.Errorf("invalid command: %q\n%s", args[0], setAirconUsage)
		}
		cmd.action = "mode"
	}
	return cmd, nil
}

func tokenizeText(input string) []string {
	cleanInput := input
	for _, quote := range []string{"“", "”", "'"} {
		cleanInput = strings.ReplaceAll(cleanInput, quote, "\"")
	}
	r := regexp.MustCompile(`[^\s"]+|"([^"]*)"`)
	output := r.FindAllString(cleanInput, -1)

	for index, word := range output {
		output[index] = strings.Trim(word, "\"")
	}
	return output
}

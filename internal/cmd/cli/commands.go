package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/clambin/ezone-monitor/internal/configuration"
	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	GetCmd = cobra.Command{
		Use:   "get",
		Short: "Show the controller's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, e, err := setup(cmd)
			if err != nil {
				return err
			}
			return Show(cmd.Context(), p, e)
		},
	}
	SetCmd = cobra.Command{
		Use:   "set",
		Short: "Change a setting",
	}
	setAirconCmd = cobra.Command{
		Use:   "aircon on|off|cool|heat|fan|fan <speed>|temp <temperature>",
		Short: "Change a setting of the aircon unit",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return SetAircon(cmd.Context(), p, args...)
		},
	}
	setZoneCmd = cobra.Command{
		Use:   "zone <zone> open|close|<percentage>|name <name>",
		Short: "Change a setting of a zone",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return SetZone(cmd.Context(), p, args...)
		},
	}
	setNameCmd = cobra.Command{
		Use:   "name <name>",
		Short: "Rename the controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return p.SetSystemName(cmd.Context(), args[0])
		},
	}
	TimerCmd = cobra.Command{
		Use:   "timer",
		Short: "Show the timer schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, e, err := setup(cmd)
			if err != nil {
				return err
			}
			return ShowTimer(cmd.Context(), p, e)
		},
	}
	setTimerCmd = cobra.Command{
		Use:   "set <status> [<start hh:mm> <end hh:mm>]",
		Short: "Set the timer schedule",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return SetTimer(cmd.Context(), p, args...)
		},
	}
)

func init() {
	GetCmd.Flags().String("format", "yaml", "Output format (yaml|json)")
	TimerCmd.Flags().String("format", "yaml", "Output format (yaml|json)")
	SetCmd.AddCommand(&setAirconCmd, &setZoneCmd, &setNameCmd)
	TimerCmd.AddCommand(&setTimerCmd)
}

func setup(cmd *cobra.Command) (*poller.Poller, Encoder, error) {
	p, err := newPoller(viper.GetViper(), slog.Default())
	if err != nil {
		return nil, nil, err
	}
	var format string
	if f := cmd.Flags().Lookup("format"); f != nil {
		format = f.Value.String()
	}
	e, err := newEncoder(cmd.OutOrStdout(), format)
	return p, e, err
}

func newPoller(v *viper.Viper, logger *slog.Logger) (*poller.Poller, error) {
	host := v.GetString("ezone.host")
	if host == "" {
		return nil, errors.New("ezone.host not set")
	}
	zones, err := configuration.MaybeLoad(configuration.ZonesFile(v.ConfigFileUsed()))
	if err != nil {
		return nil, err
	}
	client := ezone.New(host, v.GetInt("ezone.port"),
		ezone.WithRetries(v.GetInt("ezone.retries")),
		ezone.WithLogger(logger.With("component", "ezone")),
	)
	return poller.New(client, v.GetDuration("poller.interval"), logger.With("component", "poller"), poller.WithAliases(zones.Zones)), nil
}

func newEncoder(w io.Writer, format string) (Encoder, error) {
	switch format {
	case "yaml", "":
		return yaml.NewEncoder(w), nil
	case "json":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e, nil
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

package cmd

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/clambin/ezone-monitor/internal/cmd/cli"
	"github.com/clambin/ezone-monitor/internal/cmd/monitor"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "ezone",
		Short: "Utility for eZone HVAC zone controllers",
		PersistentPreRun: func(*cobra.Command, []string) {
			slog.SetDefault(newLogger(viper.GetBool("debug")))
		},
		SilenceUsage: true,
	}
)

var args = charmer.Arguments{
	"debug":           {Default: false, Help: "Log debug messages"},
	"ezone.host":      {Default: "", Help: "Hostname or IP address of the eZone controller"},
	"ezone.port":      {Default: 2025, Help: "Port of the eZone controller"},
	"ezone.retries":   {Default: 5, Help: "Attempts per read before giving up"},
	"poller.interval": {Default: 30 * time.Second, Help: "Poller interval"},
	"exporter.addr":   {Default: ":9090", Help: "Address of Prometheus exporter"},
	"health.addr":     {Default: ":8080", Help: "Address of /health endpoint"},
	"mqtt.broker":     {Default: "", Help: "MQTT broker URL (e.g. tcp://localhost:1883). Leave empty to disable"},
	"mqtt.clientID":   {Default: "ezone-monitor", Help: "MQTT client ID"},
	"mqtt.username":   {Default: "", Help: "MQTT username"},
	"mqtt.password":   {Default: "", Help: "MQTT password"},
	"mqtt.prefix":     {Default: "ezone", Help: "MQTT topic prefix"},
	"slack.token":     {Default: "", Help: "Slack bot token"},
	"slack.appToken":  {Default: "", Help: "Slack app-level token (socket mode)"},
	"slack.channel":   {Default: "", Help: "Slack channel for notifications. Leave empty to post to all joined channels"},
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	if err := charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args); err != nil {
		panic("failed to set flags: " + err.Error())
	}

	RootCmd.AddCommand(&monitor.Cmd, &cli.GetCmd, &cli.SetCmd, &cli.TimerCmd)
}

func initConfig() {
	if err := loadConfig(viper.GetViper(), configFilename); err != nil {
		slog.Error("failed to read config file", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file into v. EZONE_MONITOR_* environment variables override it,
// with "." in a key replaced by "_" (e.g. EZONE_MONITOR_EZONE_HOST for ezone.host).
func loadConfig(v *viper.Viper, filename string) error {
	if filename != "" {
		v.SetConfigFile(filename)
	} else {
		v.AddConfigPath("/etc/ezone-monitor/")
		v.AddConfigPath("$HOME/.ezone-monitor")
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("EZONE_MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// flags and environment variables are enough to run without a configuration file
		var notFound viper.ConfigFileNotFoundError
		if filename != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func newLogger(debug bool) *slog.Logger {
	var opts slog.HandlerOptions
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &opts))
}

package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	var names []string
	for _, c := range RootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"monitor", "get", "set", "timer"})

	for _, flag := range []string{"config", "debug", "ezone.host", "ezone.port", "mqtt.broker", "slack.token"} {
		assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func Test_newLogger(t *testing.T) {
	assert.True(t, newLogger(true).Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, newLogger(false).Enabled(context.Background(), slog.LevelDebug))
}

func Test_loadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EZONE_MONITOR_EZONE_HOST", "192.168.0.10")
	t.Setenv("EZONE_MONITOR_MQTT_PREFIX", "hvac")

	v := viper.New()
	v.SetDefault("ezone.host", "")
	v.SetDefault("ezone.port", 2025)
	v.SetDefault("mqtt.prefix", "ezone")
	require.NoError(t, loadConfig(v, ""))

	assert.Equal(t, "192.168.0.10", v.GetString("ezone.host"))
	assert.Equal(t, "hvac", v.GetString("mqtt.prefix"))
	assert.Equal(t, 2025, v.GetInt("ezone.port"))
}

func Test_loadConfig_File(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("ezone:\n  host: 10.0.0.1\n  port: 2026\n"), 0o644))
	t.Setenv("EZONE_MONITOR_EZONE_PORT", "2027")

	v := viper.New()
	require.NoError(t, loadConfig(v, filename))
	assert.Equal(t, "10.0.0.1", v.GetString("ezone.host"))
	assert.Equal(t, 2027, v.GetInt("ezone.port"))

	assert.Error(t, loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")))
}

package configuration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clambin/ezone-monitor/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[int]string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name: "valid",
			content: `
zones:
  1: Living
  2: " Master bedroom "
  3: ""
`,
			want:    map[int]string{1: "Living", 2: "Master bedroom"},
			wantErr: assert.NoError,
		},
		{
			name:    "empty",
			content: ``,
			wantErr: assert.NoError,
		},
		{
			name: "invalid zone",
			content: `
zones:
  0: Outside
`,
			wantErr: assert.Error,
		},
		{
			name: "invalid yaml",
			content: `
zones:
  1: [
`,
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := configuration.Load(strings.NewReader(tt.content))
			tt.wantErr(t, err)
			if err == nil && tt.want != nil {
				assert.Equal(t, tt.want, cfg.Zones)
			}
		})
	}
}

func TestMaybeLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := configuration.MaybeLoad(filepath.Join(tmpDir, "zones.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Zones)

	path := filepath.Join(tmpDir, "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zones:\n  4: Study\n"), 0644))
	cfg, err = configuration.MaybeLoad(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{4: "Study"}, cfg.Zones)
}

func TestZonesFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc", "ezone-monitor", "zones.yaml"), configuration.ZonesFile("/etc/ezone-monitor/config.yaml"))
	assert.Equal(t, "zones.yaml", configuration.ZonesFile(""))
}

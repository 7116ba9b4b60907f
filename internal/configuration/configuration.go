// Package configuration loads the optional zones file.
package configuration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration holds the display names of zones, by zone number. Example:
//
//	zones:
//	  1: Living
//	  2: Master bedroom
type Configuration struct {
	Zones map[int]string `yaml:"zones"`
}

// Load reads a Configuration.
func Load(r io.Reader) (Configuration, error) {
	var cfg Configuration
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Configuration{}, fmt.Errorf("zones: %w", err)
	}
	for zone, name := range cfg.Zones {
		if zone < 1 {
			return Configuration{}, fmt.Errorf("zones: invalid zone number %d", zone)
		}
		if cfg.Zones[zone] = strings.TrimSpace(name); cfg.Zones[zone] == "" {
			delete(cfg.Zones, zone)
		}
	}
	return cfg, nil
}

// MaybeLoad reads the Configuration at path. A missing file results in an empty Configuration.
func MaybeLoad(path string) (Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return Configuration{}, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return Load(f)
}

// ZonesFile returns the location of the zones file: zones.yaml, in the directory of configFile.
func ZonesFile(configFile string) string {
	return filepath.Join(filepath.Dir(configFile), "zones.yaml")
}

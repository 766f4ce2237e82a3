/*
 * Copyright 2026 Li Chakyin
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Flags override file
// values, file values override defaults.
type Config struct {
	Addr      string      `yaml:"addr"`
	TablesDir string      `yaml:"tables_dir"`
	Chart     ChartConfig `yaml:"chart"`
}

// ChartConfig fixes the y-axis domain of the growth chart, in millimetres.
type ChartConfig struct {
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

func defaultConfig() Config {
	return Config{
		Addr: "0.0.0.0:8080",
		Chart: ChartConfig{
			YMin: 21,
			YMax: 28,
		},
	}
}

// loadConfig returns the defaults when path is empty; an explicitly named
// file that is missing or malformed is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Chart.YMin >= cfg.Chart.YMax {
		return cfg, errInvalidChartBounds
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// serverConfig is contentd's YAML configuration file.
type serverConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
}

func defaultConfig() serverConfig {
	return serverConfig{
		Addr:    ":8080",
		DataDir: "data",
	}
}

// loadConfig reads the YAML file at path. A missing file is fine when the
// path is the default; defaults apply to any field left empty.
func loadConfig(path string, explicit bool) (serverConfig, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultConfig().Addr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultConfig().DataDir
	}
	return cfg, nil
}

// Package config loads the YAML configuration and applies environment
// overrides for the artifact paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the full process configuration.
type Config struct {
	HTTP struct {
		Port           int `yaml:"port"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Model struct {
		Path       string `yaml:"path"`
		ScalerPath string `yaml:"scaler_path"`
	} `yaml:"model"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = 8080
	cfg.HTTP.TimeoutSeconds = 30
	cfg.Database.Path = "data/housequant.db"
	cfg.Model.Path = "models/model.gob"
	cfg.Model.ScalerPath = "models/scaler.json"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads a YAML config file on top of the defaults, then applies
// MODEL_PATH and SCALER_PATH environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides,
// for running without a config file.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("SCALER_PATH"); v != "" {
		c.Model.ScalerPath = v
	}
}

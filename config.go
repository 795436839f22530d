package main

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrFailedToParseConfig = errors.New("failed to parse config from env")

// envConfig holds the settings that can also come from the environment.
// Command line flags take precedence over these.
type envConfig struct {
	Codesign string `env:"DEEPSIGN_CODESIGN"`
	LogFile  string `env:"DEEPSIGN_LOG_FILE"`
}

func loadEnvConfig() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrFailedToParseConfig, err)
	}
	return cfg, nil
}

// withFlags overrides environment values with any flag that was given.
func (c envConfig) withFlags(codesignTool, logFile string) envConfig {
	if codesignTool != "" {
		c.Codesign = codesignTool
	}
	if logFile != "" {
		c.LogFile = logFile
	}
	return c
}

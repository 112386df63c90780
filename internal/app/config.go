package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ToolsPath string // directory of .hcl tool module manifests

	LogFormat string
	LogLevel  string
	Port      int
	Watch     bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ToolsPath == "" {
		return nil, errors.New("ToolsPath is a required configuration field and cannot be empty")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("Port must be a positive TCP port number")
	}

	return &cfg, nil
}

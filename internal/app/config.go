package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl/.yaml files or directories

	LogFormat string
	LogLevel  string

	// ServePort enables the HTTP server when positive.
	ServePort int
	// OutDir is where relative draw outputs are written.
	OutDir string
	// PublishURL, when set, is a socket.io endpoint every image is
	// announced to.
	PublishURL string
	// ScriptTimeout is the default per-call limit for worklets that do not
	// set their own.
	ScriptTimeout time.Duration
	// Workers bounds how many draws run at once across all worklets.
	Workers int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.ServePort < 0 || cfg.ServePort > 65535 {
		return nil, fmt.Errorf("serve port %d is out of range", cfg.ServePort)
	}
	if cfg.ScriptTimeout < 0 {
		return nil, errors.New("script timeout must not be negative")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return &cfg, nil
}

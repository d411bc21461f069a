// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tracewire-foundation/tracewire/wire"
)

// Config is the collector configuration. The config file is optional;
// every field has a usable default and can be overridden by a flag.
type Config struct {
	// SocketPath is the unix socket to listen on.
	SocketPath string `yaml:"socket_path"`

	// Recording configures raw stream capture.
	Recording RecordingConfig `yaml:"recording"`

	// Quiet suppresses per-packet stdout output; the collector still
	// records and counts.
	Quiet bool `yaml:"quiet"`
}

// RecordingConfig configures the raw stream recording.
type RecordingConfig struct {
	// Path is the recording file. Empty disables recording.
	Path string `yaml:"path"`

	// Compress writes the recording through zstd.
	Compress bool `yaml:"compress"`
}

// DefaultConfig returns the configuration used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		SocketPath: wire.DefaultSocketPath,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.SocketPath == "" {
		return nil, fmt.Errorf("config %s: socket_path must not be empty", path)
	}
	return cfg, nil
}

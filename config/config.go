// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads and validates an EdgeClaw agent's runtime
// configuration: the engine, sync client, and logging settings, from a YAML
// file with environment-variable overrides layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edgeclaw/core/engine"
	"github.com/edgeclaw/core/syncclient"
)

// Config is the top-level configuration for an EdgeClaw agent process.
type Config struct {
	Environment string            `yaml:"environment" json:"environment"`
	Engine      engine.Config     `yaml:"engine" json:"engine"`
	Sync        syncclient.Config `yaml:"sync" json:"sync"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // json, text
	Output string `yaml:"output" json:"output"` // stdout, stderr, file path
}

// LoadFromFile reads and parses a YAML config file, applying defaults for
// any field left unset.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills in zero-valued fields with each component's own
// defaults, so this stays in sync with engine and syncclient as they evolve.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	engineDefaults := engine.DefaultConfig()
	if cfg.Engine.DeviceName == "" {
		cfg.Engine.DeviceName = engineDefaults.DeviceName
	}
	if cfg.Engine.DeviceType == "" {
		cfg.Engine.DeviceType = engineDefaults.DeviceType
	}
	if cfg.Engine.ListenPort == 0 {
		cfg.Engine.ListenPort = engineDefaults.ListenPort
	}
	if cfg.Engine.MaxConnections == 0 {
		cfg.Engine.MaxConnections = engineDefaults.MaxConnections
	}
	if cfg.Engine.LogLevel == "" {
		cfg.Engine.LogLevel = engineDefaults.LogLevel
	}

	syncDefaults := syncclient.DefaultConfig()
	if cfg.Sync.DesktopAddress == "" {
		cfg.Sync.DesktopAddress = syncDefaults.DesktopAddress
	}
	if cfg.Sync.HeartbeatInterval == 0 {
		cfg.Sync.HeartbeatInterval = syncDefaults.HeartbeatInterval
	}
	if cfg.Sync.StatusInterval == 0 {
		cfg.Sync.StatusInterval = syncDefaults.StatusInterval
	}
	if cfg.Sync.ConnectTimeout == 0 {
		cfg.Sync.ConnectTimeout = syncDefaults.ConnectTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// Validate checks cfg for values that would keep the agent from starting.
func Validate(cfg *Config) error {
	if cfg.Engine.ListenPort <= 0 || cfg.Engine.ListenPort > 65535 {
		return fmt.Errorf("engine.listen_port out of range: %d", cfg.Engine.ListenPort)
	}
	if cfg.Engine.MaxConnections <= 0 {
		return fmt.Errorf("engine.max_connections must be greater than 0")
	}
	if cfg.Sync.DesktopAddress == "" {
		return fmt.Errorf("sync.desktop_address is required")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}
	return nil
}

// =============================================================================
// config.go - Configuration File
// =============================================================================
//
// The CLI reads an optional YAML file for settings shared by all modes:
//
//	header_timeout: 1500ms
//	command_timeout: 30s
//	header_buffer_size: 8192
//	max_response_length: 8192
//	single_read_responses: false
//	ignore_invalid_arguments: false
//	listen: ":4573"
//	script: /etc/agi/ivr.yaml
//
// The file is named by --config, or by AGI_CONFIG when the flag is not set.
// Command-line flags override values from the file.
//
// =============================================================================

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goagi/agi/agiprotocol"
)

// configEnvVar names the default configuration file.
const configEnvVar = "AGI_CONFIG"

// fileConfig is the YAML form of the configuration. Durations are strings
// in time.ParseDuration syntax.
type fileConfig struct {
	HeaderTimeout          string `yaml:"header_timeout"`
	CommandTimeout         string `yaml:"command_timeout"`
	HeaderBufferSize       int    `yaml:"header_buffer_size"`
	MaxResponseLength      int    `yaml:"max_response_length"`
	SingleReadResponses    bool   `yaml:"single_read_responses"`
	IgnoreInvalidArguments bool   `yaml:"ignore_invalid_arguments"`
	Listen                 string `yaml:"listen"`
	Script                 string `yaml:"script"`
}

// loadConfig reads the configuration file at path, or at $AGI_CONFIG if path
// is empty. No file at all gives the zero configuration.
func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		return &fileConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// protocolConfig converts the file settings into a session configuration.
// Zero values keep the library defaults.
func (fc *fileConfig) protocolConfig(log *slog.Logger) (agiprotocol.Config, error) {
	cfg := agiprotocol.DefaultConfig()
	cfg.Logger = log
	cfg.SingleReadResponses = fc.SingleReadResponses
	cfg.IgnoreInvalidArguments = fc.IgnoreInvalidArguments

	if fc.HeaderTimeout != "" {
		d, err := parsePositiveDuration("header_timeout", fc.HeaderTimeout)
		if err != nil {
			return cfg, err
		}
		cfg.HeaderTimeout = d
	}
	if fc.CommandTimeout != "" {
		d, err := parsePositiveDuration("command_timeout", fc.CommandTimeout)
		if err != nil {
			return cfg, err
		}
		cfg.CommandTimeout = d
	}
	if fc.HeaderBufferSize > 0 {
		cfg.HeaderBufferSize = fc.HeaderBufferSize
	}
	if fc.MaxResponseLength > 0 {
		cfg.MaxResponseLength = fc.MaxResponseLength
	}
	return cfg, nil
}

func parsePositiveDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, s)
	}
	return d, nil
}

// override returns flag if it was given, otherwise the file value.
func override(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}

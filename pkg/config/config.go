// Package config loads the bridge's YAML configuration record.
//
// Loading is an external collaborator to the bridge proper (spec §1):
// nothing downstream of Load cares whether the record came from a
// file, an environment override, or DefaultConfig.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ADSReceiverConfig describes the upstream SBS/BaseStation feed.
type ADSReceiverConfig struct {
	Host                   string  `yaml:"host"`
	Port                   int     `yaml:"port"`
	ReconnectDelaySeconds  float64 `yaml:"reconnect_delay_seconds"`
}

// AISSenderConfig describes the downstream AIS fan-out socket.
type AISSenderConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StatusHTTPConfig describes the optional diagnostics/monitor HTTP server.
type StatusHTTPConfig struct {
	// Enabled turns the status/websocket server on.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address, e.g. ":8090".
	Addr string `yaml:"addr"`

	// AuthToken, if set, is the HMAC key that bearer JWTs presented to
	// /status and /ws must be signed with. Empty disables auth.
	AuthToken string `yaml:"auth_token"`
}

// Config is the complete bridge configuration record.
type Config struct {
	ADSReceiverTCP ADSReceiverConfig `yaml:"ads_receiver_tcp"`
	AISSenderTCP   AISSenderConfig   `yaml:"ais_sender_tcp"`
	StatusHTTP     StatusHTTPConfig  `yaml:"status_http"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADSReceiverTCP: ADSReceiverConfig{
			Host:                  "localhost",
			Port:                  30003,
			ReconnectDelaySeconds: 5.0,
		},
		AISSenderTCP: AISSenderConfig{
			Host: "0.0.0.0",
			Port: 4002,
		},
		StatusHTTP: StatusHTTPConfig{
			Enabled: false,
			Addr:    ":8090",
		},
	}
}

// Load reads configuration from a YAML file. If the file doesn't
// exist, it returns DefaultConfig() rather than failing: the bridge
// is runnable out of the box against localhost defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if cfg.ADSReceiverTCP.ReconnectDelaySeconds <= 0 {
		cfg.ADSReceiverTCP.ReconnectDelaySeconds = 5.0
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides,
// keeping secrets like the status auth token out of checked-in files.
func (c *Config) applyEnvironmentOverrides() {
	if token := os.Getenv("ADSAIS_STATUS_AUTH_TOKEN"); token != "" {
		c.StatusHTTP.AuthToken = token
	}
	if host := os.Getenv("ADSAIS_RECEIVER_HOST"); host != "" {
		c.ADSReceiverTCP.Host = host
	}
	if host := os.Getenv("ADSAIS_SENDER_HOST"); host != "" {
		c.AISSenderTCP.Host = host
	}
}

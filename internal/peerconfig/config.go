// Package peerconfig loads the YAML configuration for the peer process:
// identity location, static peers to dial at startup, the local feature
// vector advertised in our init message, and ancillary logging/monitor
// settings.
package peerconfig

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level peer process configuration.
type Config struct {
	IdentityPath      string   `yaml:"identity_path"`
	StaticPeers       []string `yaml:"static_peers"`
	LocalFeatures     []byte   `yaml:"-"`
	LocalFeaturesHex  string   `yaml:"local_features_hex"`
	ConnectToNewNodes bool     `yaml:"connect_to_new_nodes"`
	LogLevel          string   `yaml:"log_level"`
	Monitor           MonitorConfig `yaml:"monitor"`
}

// MonitorConfig configures the optional read-mostly HTTP/websocket status
// API exposed alongside the peer.
type MonitorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns a config with sensible defaults. LocalFeatures defaults
// to a single byte with bit 0 set, left configurable rather than fixed
// since BOLT #9 doesn't mandate any particular feature bits for a
// passive relay.
func Default() *Config {
	return &Config{
		IdentityPath:      "/etc/lightning-mini-peer/identity.key",
		LocalFeatures:     []byte{0x01},
		ConnectToNewNodes: false,
		LogLevel:          "info",
		Monitor: MonitorConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9736",
		},
	}
}

// Load reads a YAML config file, applying it over Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("peerconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("peerconfig: parsing %s: %w", path, err)
	}
	if cfg.LocalFeaturesHex != "" {
		features, err := hex.DecodeString(cfg.LocalFeaturesHex)
		if err != nil {
			return nil, fmt.Errorf("peerconfig: local_features_hex: %w", err)
		}
		cfg.LocalFeatures = features
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NodeConfig is the on-disk shape of a stratumd node's settings: where it
// listens, how long a handshake may take, and the key material its Noise
// responder needs. The static private key is a hex-encoded 32-byte
// secp256k1 scalar, the static ElligatorSwift encoding 64 hex-encoded
// bytes, the authority public key a hex-encoded compressed point, and the
// certificate its hex-encoded fixed payload; `stratumd -generate` prints a
// fresh identity in exactly these formats.
type NodeConfig struct {
	ListenAddress         string        `yaml:"listen_address"`
	HandshakeTimeout      time.Duration `yaml:"handshake_timeout"`
	AuthorityPublicKeyHex string        `yaml:"authority_public_key_hex"`
	StaticPrivateKeyHex   string        `yaml:"static_private_key_hex"`
	StaticEllswiftHex     string        `yaml:"static_ellswift_hex"`
	CertificateHex        string        `yaml:"certificate_hex"`
	ExtranonceRange0Width int           `yaml:"extranonce_range0_width"`
	ExtranonceRange1Width int           `yaml:"extranonce_range1_width"`
}

// DefaultNodeConfig mirrors the defaults a freshly-initialized node would
// use before an operator supplies key material.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		ListenAddress:         GetEnv("STRATUMD_LISTEN_ADDRESS", "0.0.0.0:34254"),
		HandshakeTimeout:      GetEnvDuration("STRATUMD_HANDSHAKE_TIMEOUT", 10*time.Second),
		ExtranonceRange0Width: GetEnvInt("STRATUMD_EXTRANONCE_RANGE0_WIDTH", 4),
		ExtranonceRange1Width: GetEnvInt("STRATUMD_EXTRANONCE_RANGE1_WIDTH", 16),
	}
}

// LoadNodeConfig reads and parses a YAML node configuration file, starting
// from DefaultNodeConfig so a partial file only overrides what it sets.
func LoadNodeConfig(path string) (NodeConfig, error) {
	cfg := DefaultNodeConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return NodeConfig{}, fmt.Errorf("config: reading node config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return NodeConfig{}, fmt.Errorf("config: parsing node config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, readable only by its owner, in the form
// LoadNodeConfig reads back.
func (cfg NodeConfig) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling node config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing node config %q: %w", path, err)
	}
	return nil
}

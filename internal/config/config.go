// Package config loads the client's startup configuration (spec §6
// "Configuration"), following the teacher's Default()+Load(path) pattern
// (internal/config/config.go in udisondev/la2go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProtocolVersion selects the record layout for version-dependent packets
// (spec §4.6, §9 "Version-dependent packet layouts").
type ProtocolVersion string

const (
	ProtocolSeason6    ProtocolVersion = "season6"
	ProtocolVersion097 ProtocolVersion = "0.97"
	ProtocolVersion075 ProtocolVersion = "0.75"
)

// Config holds all configuration read once at startup.
type Config struct {
	// Connect Server
	ConnectHost string `yaml:"connect_host"`
	ConnectPort int    `yaml:"connect_port"`

	// Account credentials
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Protocol
	Protocol      ProtocolVersion `yaml:"protocol"`
	ClientVersion [5]byte         `yaml:"-"` // set from ClientVersionHex
	ClientVersionHex string       `yaml:"client_version"`
	ClientSerial  [16]byte        `yaml:"-"`
	ClientSerialHex string        `yaml:"client_serial"`

	// Logical direction (0-7) -> wire direction value permutation.
	DirectionMap [8]byte `yaml:"-"`
	DirectionMapList []int `yaml:"direction_map"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Movement
	MovementTicketTimeoutMS int `yaml:"movement_ticket_timeout_ms"`

	// Transport
	ReceiveBufferSize int `yaml:"receive_buffer_size"`
}

// Default returns a Config with sensible defaults for local testing
// against a Season 6 server.
func Default() Config {
	cfg := Config{
		ConnectHost:             "127.0.0.1",
		ConnectPort:             44405,
		Username:                "",
		Password:                "",
		Protocol:                ProtocolSeason6,
		ClientVersionHex:        "0104090f13",
		ClientSerialHex:         "00000000000000000000000000000000",
		DirectionMapList:        []int{0, 1, 2, 3, 4, 5, 6, 7},
		LogLevel:                "info",
		MovementTicketTimeoutMS: 1000,
		ReceiveBufferSize:       8192,
	}
	_ = cfg.resolve()
	return cfg
}

// Load reads YAML configuration from path, falling back to Default() if
// the file does not exist (matching the teacher's LoadLoginServer).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.resolve(); err != nil {
		return cfg, fmt.Errorf("resolving config %s: %w", path, err)
	}

	return cfg, nil
}

// resolve derives the fixed-size binary fields (ClientVersion,
// ClientSerial, DirectionMap) from their YAML-friendly string/list forms.
func (c *Config) resolve() error {
	if err := decodeHexFixed(c.ClientVersionHex, c.ClientVersion[:]); err != nil {
		return fmt.Errorf("client_version: %w", err)
	}
	if err := decodeHexFixed(c.ClientSerialHex, c.ClientSerial[:]); err != nil {
		return fmt.Errorf("client_serial: %w", err)
	}
	if len(c.DirectionMapList) > 0 {
		if len(c.DirectionMapList) != 8 {
			return fmt.Errorf("direction_map must have exactly 8 entries, got %d", len(c.DirectionMapList))
		}
		for i, v := range c.DirectionMapList {
			if v < 0 || v > 255 {
				return fmt.Errorf("direction_map[%d] = %d out of byte range", i, v)
			}
			c.DirectionMap[i] = byte(v)
		}
	} else {
		for i := range c.DirectionMap {
			c.DirectionMap[i] = byte(i)
		}
	}
	return nil
}

func decodeHexFixed(hexStr string, dst []byte) error {
	if hexStr == "" {
		return nil
	}
	if len(hexStr) != len(dst)*2 {
		return fmt.Errorf("expected %d hex chars, got %d", len(dst)*2, len(hexStr))
	}
	for i := range dst {
		hi, err := hexNibble(hexStr[i*2])
		if err != nil {
			return err
		}
		lo, err := hexNibble(hexStr[i*2+1])
		if err != nil {
			return err
		}
		dst[i] = hi<<4 | lo
	}
	return nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex character %q", c)
	}
}

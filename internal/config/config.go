package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const DefaultMaxPayloadBytes = 8 * 1024 * 1024

type Config struct {
	Limits   LimitsConfig    `toml:"limits"`
	Logging  LoggingConfig   `toml:"logging"`
	Messages []MessageConfig `toml:"messages"`
}

type LimitsConfig struct {
	MaxPayloadBytes uint32 `toml:"max_payload_bytes"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	Timestamp *bool  `toml:"timestamp"`
}

// MessageConfig binds a packet header id to a payload layout expression.
type MessageConfig struct {
	ID     uint16 `toml:"id"`
	Name   string `toml:"name"`
	Layout string `toml:"layout"`
}

func Default() Config {
	return Config{
		Limits:  LimitsConfig{MaxPayloadBytes: DefaultMaxPayloadBytes},
		Logging: LoggingConfig{Level: "info"},
	}
}

func Load(path string) (Config, error) {
	var cfg Config
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates TOML already in memory.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Limits.MaxPayloadBytes == 0 {
		cfg.Limits.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg Config) error {
	seenIDs := make(map[uint16]string, len(cfg.Messages))
	seenNames := make(map[string]bool, len(cfg.Messages))
	for i, msg := range cfg.Messages {
		if err := ValidateMessage(msg); err != nil {
			return fmt.Errorf("messages[%d] invalid: %w", i, err)
		}
		if prev, ok := seenIDs[msg.ID]; ok {
			return fmt.Errorf("messages[%d] invalid: id %d already used by %q", i, msg.ID, prev)
		}
		if seenNames[msg.Name] {
			return fmt.Errorf("messages[%d] invalid: duplicate name %q", i, msg.Name)
		}
		seenIDs[msg.ID] = msg.Name
		seenNames[msg.Name] = true
	}
	return nil
}

func ValidateMessage(msg MessageConfig) error {
	if strings.TrimSpace(msg.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(msg.Layout) == "" {
		return fmt.Errorf("layout is required")
	}
	return nil
}

// Encode renders cfg back to TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

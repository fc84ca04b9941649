package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// prefs are per-user defaults for persistent flags. Flags given on the
// command line always win.
type prefs struct {
	Output          string
	LogLevel        string
	Config          string
	MaxPayloadBytes uint32
}

type prefsFile struct {
	Output          string `toml:"output"`
	LogLevel        string `toml:"log_level"`
	Config          string `toml:"config"`
	MaxPayloadBytes int64  `toml:"max_payload_bytes"`
}

func defaultPrefs() prefs {
	return prefs{}
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pktctl", "prefs.toml")
}

func loadPrefs(path string, base prefs) (prefs, error) {
	if path == "" {
		return base, nil
	}
	out := base

	var raw prefsFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return prefs{}, fmt.Errorf("load pktctl prefs: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return prefs{}, fmt.Errorf("load pktctl prefs: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("output") {
		out.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}

	if meta.IsDefined("log_level") {
		out.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("config") {
		cfgPath := strings.TrimSpace(raw.Config)
		if cfgPath != "" && !filepath.IsAbs(cfgPath) {
			cfgPath = filepath.Join(filepath.Dir(path), cfgPath)
		}
		out.Config = cfgPath
	}

	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes <= 0 || raw.MaxPayloadBytes > int64(^uint32(0)) {
			return prefs{}, fmt.Errorf("parse max_payload_bytes: %d out of range", raw.MaxPayloadBytes)
		}
		out.MaxPayloadBytes = uint32(raw.MaxPayloadBytes)
	}

	return out, nil
}

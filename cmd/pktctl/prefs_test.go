package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPrefsOverlaysDefinedKeysOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prefs.toml", `
output = " JSON "
config = "layouts/pktctl.toml"
max_payload_bytes = 1024
`)

	base := prefs{LogLevel: "warn"}
	p, err := loadPrefs(path, base)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if p.Output != "json" {
		t.Fatalf("unexpected output: %q", p.Output)
	}
	if p.LogLevel != "warn" {
		t.Fatalf("undefined key should keep base value, got %q", p.LogLevel)
	}
	if p.Config != filepath.Join(dir, "layouts", "pktctl.toml") {
		t.Fatalf("relative config should resolve next to prefs: %q", p.Config)
	}
	if p.MaxPayloadBytes != 1024 {
		t.Fatalf("unexpected max payload: %d", p.MaxPayloadBytes)
	}
}

func TestLoadPrefsEmptyPathKeepsBase(t *testing.T) {
	base := prefs{Output: "yaml"}
	p, err := loadPrefs("", base)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if p != base {
		t.Fatalf("expected base prefs, got %+v", p)
	}
}

func TestLoadPrefsRejectsUnknownKeysAndBadRanges(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "unknown.toml", `colour = "blue"`)
	if _, err := loadPrefs(path, defaultPrefs()); err == nil {
		t.Fatalf("expected unknown key error")
	}

	path = writeFile(t, dir, "range.toml", `max_payload_bytes = -1`)
	if _, err := loadPrefs(path, defaultPrefs()); err == nil {
		t.Fatalf("expected range error")
	}

	if _, err := loadPrefs(filepath.Join(dir, "missing.toml"), defaultPrefs()); err == nil {
		t.Fatalf("expected missing file error")
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/pktvar/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"trace":   zerolog.TraceLevel,
		"Panic":   zerolog.PanicLevel,
		"none":    zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := ParseLevel(raw)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := ParseLevel(""); ok {
		t.Fatalf("expected empty level to be rejected")
	}
}

func TestEnvOverridesApply(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "true")
	t.Setenv(EnvLogJSON, "1")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel || cfg.Timestamp || !cfg.NoColor || !cfg.JSON {
		t.Fatalf("unexpected config after overrides: %+v", cfg)
	}
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "very-loud")
	t.Setenv(EnvLogTimestamp, "maybe")

	cfg := defaultConfig(ProfileTest)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.DebugLevel || cfg.Timestamp {
		t.Fatalf("garbage overrides should be ignored: %+v", cfg)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: zerolog.InfoLevel, JSON: true, Out: &buf})
	l.Debug().Msg("hidden")
	l.Info().Str("id", "4000").Msg("packet")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, `"id":"4000"`) || !strings.Contains(out, `"message":"packet"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestNewConsoleLoggerWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: zerolog.DebugLevel, NoColor: true, Out: &buf})
	l.Debug().Msg("split ok")
	if !strings.Contains(buf.String(), "split ok") {
		t.Fatalf("expected message in console output: %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no colour escapes: %q", buf.String())
	}
}

func TestApplyConfigLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	ApplyConfig(config.LoggingConfig{Level: "warn"})
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", zerolog.GlobalLevel())
	}

	t.Setenv(EnvLogLevel, "debug")
	ApplyConfig(config.LoggingConfig{Level: "error"})
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("env level should win over config, got %v", zerolog.GlobalLevel())
	}
}

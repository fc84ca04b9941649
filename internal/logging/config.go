package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const (
	EnvLogLevel     = "PKTVAR_LOG_LEVEL"
	EnvLogTimestamp = "PKTVAR_LOG_TIMESTAMP"
	EnvLogNoColor   = "PKTVAR_LOG_NOCOLOR"
	EnvLogJSON      = "PKTVAR_LOG_JSON"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved output setup for one process.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	JSON      bool
	Out       io.Writer
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		log.Logger = New(cfg)
		zerolog.SetGlobalLevel(cfg.Level)
	})
}

func defaultConfig(profile Profile) Config {
	cfg := Config{Out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	cfg.NoColor = !isTerminal(cfg.Out)
	return cfg
}

// New builds a logger from cfg without touching global state.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		cw := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
		if !cfg.Timestamp {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		out = cw
	}
	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// SetLevel changes the global level after Configure has run.
func SetLevel(raw string) bool {
	lvl, ok := ParseLevel(raw)
	if !ok {
		return false
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Logger.Level(lvl)
	return true
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	flags := map[string]*bool{
		EnvLogTimestamp: &cfg.Timestamp,
		EnvLogNoColor:   &cfg.NoColor,
		EnvLogJSON:      &cfg.JSON,
	}
	for env, dst := range flags {
		if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(env))); err == nil {
			*dst = v
		}
	}
}

// levelAliases are accepted on top of zerolog's own level names.
var levelAliases = map[string]zerolog.Level{
	"diagnostics": zerolog.TraceLevel,
	"warning":     zerolog.WarnLevel,
	"disable":     zerolog.Disabled,
	"off":         zerolog.Disabled,
	"none":        zerolog.Disabled,
	"inactive":    zerolog.Disabled,
}

// ParseLevel accepts zerolog level names and levelAliases, ignoring case
// and surrounding space. ok is false for empty or unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return zerolog.InfoLevel, false
	}
	if lvl, ok := levelAliases[name]; ok {
		return lvl, true
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package logging

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/pktvar/internal/config"
)

// ApplyConfig layers file settings over the configured logger. Env
// overrides still win for the level.
func ApplyConfig(cfg config.LoggingConfig) {
	if _, fromEnv := ParseLevel(os.Getenv(EnvLogLevel)); !fromEnv {
		if cfg.Level != "" && !SetLevel(cfg.Level) {
			log.Warn().Str("level", cfg.Level).Msg("logging: unknown level in config, keeping current")
		}
	}
	if cfg.Timestamp != nil && *cfg.Timestamp {
		log.Logger = log.Logger.With().Timestamp().Logger()
	}
}

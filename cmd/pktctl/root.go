package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/pktvar/internal/config"
	"github.com/danmuck/pktvar/internal/logging"
	"github.com/danmuck/pktvar/internal/protocol/packet"
	"github.com/danmuck/pktvar/internal/protocol/schema"
)

const EnvPrefs = "PKTCTL_PREFS"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	prefsPath  string
	logLevel   string
	output     string

	cfg      config.Config
	limits   packet.Limits
	registry *schema.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pktctl",
		Short:         "Inspect and build length-framed binary packets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "message layout config (TOML)")
	flags.StringVar(&a.prefsPath, "prefs", "", "preferences file (default $"+EnvPrefs+" or the user config dir)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")
	flags.StringVarP(&a.output, "output", "o", "yaml", "output format: yaml|json")

	root.AddCommand(
		newSplitCmd(a),
		newDecodeCmd(a),
		newEncodeCmd(a),
		newMessagesCmd(a),
		newConfigCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	p, err := loadPrefs(a.resolvePrefsPath(cmd), defaultPrefs())
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("output") && p.Output != "" {
		a.output = p.Output
	}
	if !flags.Changed("log-level") && p.LogLevel != "" {
		a.logLevel = p.LogLevel
	}
	if !flags.Changed("config") && p.Config != "" {
		a.configPath = p.Config
	}
	if a.output != "yaml" && a.output != "json" {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		logging.ApplyConfig(cfg.Logging)
	}
	if a.logLevel != "" && !logging.SetLevel(a.logLevel) {
		return fmt.Errorf("unknown log level %q", a.logLevel)
	}

	a.limits = packet.Limits{MaxPayloadBytes: a.cfg.Limits.MaxPayloadBytes}
	if p.MaxPayloadBytes > 0 {
		a.limits.MaxPayloadBytes = p.MaxPayloadBytes
	}
	a.registry, err = schema.Load(a.cfg.Messages)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	log.Debug().
		Str("config", a.configPath).
		Int("messages", len(a.cfg.Messages)).
		Uint32("max_payload", a.limits.MaxPayloadBytes).
		Msg("pktctl ready")
	return nil
}

// resolvePrefsPath returns "" when no preferences file applies.
func (a *app) resolvePrefsPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("prefs") {
		return a.prefsPath
	}
	if v := os.Getenv(EnvPrefs); v != "" {
		return v
	}
	path := defaultPrefsPath()
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

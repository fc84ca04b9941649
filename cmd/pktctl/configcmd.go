package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/pktvar/internal/config"
	"github.com/danmuck/pktvar/internal/protocol/schema"
)

const defaultConfigPath = "pktctl.toml"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pktctl config files",
	}

	var (
		kind  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := defaultConfigPath
			if len(args) == 1 {
				target = args[0]
			}
			if err := config.WriteTemplate(target, kind, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s config template to %s\n", kind, target)
			return nil
		},
	}
	initCmd.Flags().StringVar(&kind, "kind", "pktctl", "template kind: pktctl|minimal")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file and compile its layouts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := defaultConfigPath
			if len(args) == 1 {
				target = args[0]
			}
			cfg, err := config.Load(target)
			if err != nil {
				return err
			}
			if _, err := schema.Load(cfg.Messages); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "validated %s (%d messages)\n", target, len(cfg.Messages))
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

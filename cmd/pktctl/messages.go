package main

import (
	"github.com/spf13/cobra"
)

type messageInfo struct {
	ID     uint16 `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Layout string `json:"layout" yaml:"layout"`
	GoType string `json:"go_type" yaml:"go_type"`
}

func newMessagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "messages",
		Short: "List configured header ids and their layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newPrinter(cmd.OutOrStdout(), a.output)
			if err != nil {
				return err
			}
			msgs := a.registry.Messages()
			list := make([]messageInfo, 0, len(msgs))
			for _, m := range msgs {
				list = append(list, messageInfo{ID: m.ID, Name: m.Name, Layout: m.Layout, GoType: m.Type.String()})
			}
			return out.Print(list)
		},
	}
}

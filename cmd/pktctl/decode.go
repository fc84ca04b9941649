package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/pktvar/internal/protocol/packet"
	"github.com/danmuck/pktvar/internal/protocol/schema"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		layout string
		id     uint16
		framed bool
	)
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode one payload or framed packet",
		Example: `  pktctl decode --layout "user_id:i32, text:text" 0000000c00026869
  pktctl -c pktctl.toml decode --framed 0000000a05d300000000000001c8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseHex(strings.Join(args, ""))
			if err != nil {
				return err
			}
			p := packet.Packet{HeaderID: id, Payload: data}
			if framed {
				if p, err = packet.ParseWithLimits(data, a.limits); err != nil {
					return err
				}
			}

			out, err := newPrinter(cmd.OutOrStdout(), a.output)
			if err != nil {
				return err
			}
			if layout == "" {
				if !framed && !cmd.Flags().Changed("id") {
					return errors.New("decode needs --layout, --id or --framed")
				}
				e := a.describe(p)
				if err := out.Print(e); err != nil {
					return err
				}
				if e.Error != "" {
					return errors.New(e.Error)
				}
				return nil
			}

			_, c, err := schema.CompileLayout(layout)
			if err != nil {
				return err
			}
			v, n, err := c.Decode(p.Payload)
			if err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}
			e := entry{HeaderID: p.HeaderID, Length: n, Value: v}
			if n != len(p.Payload) {
				e.Raw = hex.EncodeToString(p.Payload[n:])
				e.Error = fmt.Sprintf("%d trailing payload bytes", len(p.Payload)-n)
			}
			return out.Print(e)
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "payload layout expression")
	cmd.Flags().Uint16Var(&id, "id", 0, "header id to decode with the configured layout")
	cmd.Flags().BoolVar(&framed, "framed", false, "input includes the 6-byte packet header")
	return cmd
}

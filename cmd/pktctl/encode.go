package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/danmuck/pktvar/internal/protocol/codec"
	"github.com/danmuck/pktvar/internal/protocol/packet"
	"github.com/danmuck/pktvar/internal/protocol/schema"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		layout      string
		id          uint16
		payloadOnly bool
	)
	cmd := &cobra.Command{
		Use:   "encode [values]",
		Short: "Encode YAML or JSON values into a packet",
		Long: `Encode reads values as YAML or JSON (from the argument, or stdin when it
is omitted) and prints the encoded packet as hex. Layout fields are keyed
by name; unnamed fields by f0, f1, ...`,
		Example: `  pktctl encode --layout "user_id:i32, text:text" --id 4000 '{"user_id": 12, "text": "hi"}'`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var values []byte
			if len(args) == 1 {
				values = []byte(args[0])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				values = data
			}

			var (
				typ reflect.Type
				c   codec.Codec[any]
				err error
			)
			switch {
			case layout != "":
				if typ, c, err = schema.CompileLayout(layout); err != nil {
					return err
				}
			case cmd.Flags().Changed("id"):
				m, ok := a.registry.Lookup(id)
				if !ok {
					return fmt.Errorf("no layout configured for header id %d", id)
				}
				typ, c = m.Type, m.Codec
			default:
				return errors.New("encode needs --layout or a configured --id")
			}

			v, err := schema.ValueFromYAML(typ, values)
			if err != nil {
				return err
			}
			w := packet.NewWriter(id)
			if err := packet.Write(w, c, v); err != nil {
				return err
			}
			out := w.Payload()
			if !payloadOnly {
				if err := a.limits.Check(w.Len()); err != nil {
					return err
				}
				if out, err = w.Bytes(); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "payload layout expression")
	cmd.Flags().Uint16Var(&id, "id", 0, "header id of the packet")
	cmd.Flags().BoolVar(&payloadOnly, "payload-only", false, "print the payload without the packet header")
	return cmd
}

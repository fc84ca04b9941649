package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/pktvar/internal/protocol/packet"
)

func newSplitCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split a captured byte stream into framed packets",
		Long: `Split reads a stream of framed packets from file (or stdin when file is
omitted or "-") and prints one entry per packet. Payloads whose header id
is bound in the config are decoded with their layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return a.split(cmd.OutOrStdout(), in, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "include payload hex in every entry")
	return cmd
}

func (a *app) split(w io.Writer, r io.Reader, raw bool) error {
	out, err := newPrinter(w, a.output)
	if err != nil {
		return err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), packet.HeaderLen+int(a.limits.MaxPayloadBytes))
	sc.Split(packet.SplitFunc(a.limits))

	count := 0
	for sc.Scan() {
		p, err := packet.ParseWithLimits(sc.Bytes(), a.limits)
		if err != nil {
			return fmt.Errorf("packet %d: %w", count, err)
		}
		e := a.describe(p)
		if raw {
			e.Raw = hex.EncodeToString(p.Payload)
		}
		if err := out.Print(e); err != nil {
			return err
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("after %d packets: %w", count, err)
	}
	return nil
}

// describe decodes p through the registry when its header id is known.
func (a *app) describe(p packet.Packet) entry {
	e := entry{HeaderID: p.HeaderID, Length: packet.HeaderLen + len(p.Payload)}
	if _, ok := a.registry.Lookup(p.HeaderID); !ok {
		e.Raw = hex.EncodeToString(p.Payload)
		return e
	}
	m, v, err := a.registry.Decode(p)
	e.Message = m.Name
	if err != nil {
		e.Error = err.Error()
		e.Raw = hex.EncodeToString(p.Payload)
		return e
	}
	e.Value = v
	return e
}

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// entry is one printed packet or payload.
type entry struct {
	HeaderID uint16 `json:"header_id" yaml:"header_id"`
	Length   int    `json:"length" yaml:"length"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	Raw      string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type printer interface {
	Print(v any) error
}

func newPrinter(w io.Writer, format string) (printer, error) {
	switch format {
	case "yaml":
		return &yamlPrinter{w: w}, nil
	case "json":
		return jsonPrinter{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// jsonPrinter writes one JSON value per line.
type jsonPrinter struct {
	enc *json.Encoder
}

func (p jsonPrinter) Print(v any) error {
	return p.enc.Encode(v)
}

// yamlPrinter writes one document per value, separated by ---.
type yamlPrinter struct {
	w     io.Writer
	count int
}

func (p *yamlPrinter) Print(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if p.count > 0 {
		if _, err := io.WriteString(p.w, "---\n"); err != nil {
			return err
		}
	}
	p.count++
	_, err = p.w.Write(data)
	return err
}

// parseHex accepts plain or 0x-prefixed hex with optional whitespace.
func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return b, nil
}

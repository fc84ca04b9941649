package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "pktctl":
		return pktctlTemplate, nil
	case "minimal":
		return minimalTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const pktctlTemplate = `[limits]
max_payload_bytes = 8388608

[logging]
level = "info"
timestamp = true

[[messages]]
id = 4000
name = "chat"
layout = "user_id:i32, text:text, bubble:i32"

[[messages]]
id = 2596
name = "room_users"
layout = "users:seq<tuple<id, text, opt<u8>>>"

[[messages]]
id = 1491
name = "ping"
layout = "nonce:u64"
`

const minimalTemplate = `[limits]
max_payload_bytes = 8388608
`

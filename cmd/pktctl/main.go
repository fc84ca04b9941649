package main

import (
	"fmt"
	"os"

	"github.com/danmuck/pktvar/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pktctl: %v\n", err)
		os.Exit(1)
	}
}

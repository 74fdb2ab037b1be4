package main

import (
	"os"

	"github.com/quantselect/engine/cmd/quant/commands"
)

// main is the entry point for the quant CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/yuehlin/agritrend/cmd/agritrend/commands"
)

// main is the entry point for the agritrend CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

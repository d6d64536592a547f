// Package main is the entry point for the chargebee-prices CLI.
package main

import (
	"os"

	"chargebee-prices/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

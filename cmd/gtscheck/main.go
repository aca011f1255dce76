// Package main is the entry point for the gtscheck CLI tool.
package main

import (
	"os"

	"github.com/gts-tools/gtscheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the shapeyaml CLI.
package main

import (
	"os"

	"github.com/reoring/shapeyaml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

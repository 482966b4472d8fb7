// Package main provides the freebies CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/freebies/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

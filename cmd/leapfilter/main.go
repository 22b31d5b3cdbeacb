// Package main provides the leapfilter command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapfilter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

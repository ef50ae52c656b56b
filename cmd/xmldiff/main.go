// Package main is the entry point for the xmldiff CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/xmldiff/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

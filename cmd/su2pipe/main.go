// Package main is the entry point for the su2pipe CLI.
package main

import (
	"os"

	"github.com/cfdworks/su2pipe/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

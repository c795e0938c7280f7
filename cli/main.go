package main

import (
	"os"

	"github.com/G4brym/workers-qb/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

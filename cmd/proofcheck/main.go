package main

import (
	"os"

	"github.com/ivlev/proofcheck/cmd/proofcheck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/finsona-dev/finsona/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

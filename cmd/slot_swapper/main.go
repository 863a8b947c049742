package main

import (
	"os"

	"github.com/Freeeeeet/slot_swapper/cmd/slot_swapper/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/kabylesystem/xrpl-hackaton/cmd/wallet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

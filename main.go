package main

import (
	"os"

	"github.com/dominikschlosser/healthpass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

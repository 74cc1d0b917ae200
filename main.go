package main

import (
	"os"

	"github.com/jaeyunjks/portfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

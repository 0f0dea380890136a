package main

import (
	"os"

	"github.com/Axel-LeBlanc/Eatmands/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

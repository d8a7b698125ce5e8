package main

import (
	"os"

	"github.com/David-Antunes/gone-netfile/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

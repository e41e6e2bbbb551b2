package main

import (
	"os"

	"github.com/c3i/c3i/pkg/cli"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

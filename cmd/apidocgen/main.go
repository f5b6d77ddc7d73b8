package main

import (
	"os"

	"apidocgen/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

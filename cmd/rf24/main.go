package main

import (
	"github.com/tebeka/atexit"

	"github.com/michcald/rf24-examples/internal/cli"
)

func main() {
	atexit.Exit(cli.Execute())
}

package main

import (
	"os"

	"github.com/tfesenbecker/palisade/pkg/cli"
)

func main() {
	os.Exit(int(cli.Main(os.Args, os.Stderr, os.Stdout)))
}

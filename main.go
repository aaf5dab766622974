package main

import (
	"os"

	"github.com/open-rcp/rcpdaemon/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

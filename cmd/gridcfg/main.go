package main

import (
	"os"

	"gridcfg.io/console/cmd/gridcfg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

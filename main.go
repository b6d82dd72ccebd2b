package main

import (
	"os"

	"github.com/gpslab/clientcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/banwatch/banwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

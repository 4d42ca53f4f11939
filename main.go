package main

import (
	"os"

	"github.com/vellum-ui/vellum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

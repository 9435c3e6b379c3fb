package main

import (
	"os"

	"asfront/cmd/asfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

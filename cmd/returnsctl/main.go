package main

import (
	"os"

	"returns-assistant-be/internal/config"
)

func main() {
	cfg := config.Load()
	if err := NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/wonny/tickerpulse/cmd/pulse/commands"
)

// main is the entry point for the tickerpulse CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/pulse [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

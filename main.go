package main

import (
	"os"

	"github.com/fatali-fataliyev/budget_assistant/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

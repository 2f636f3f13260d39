package main

import (
	"context"
	"log"
	"os"

	"github.com/bravo68web/gitdeck/internal/application/commands"
)

func main() {
	registry := commands.NewCommandRegistry()
	cmd := registry.RegisterCLI()

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

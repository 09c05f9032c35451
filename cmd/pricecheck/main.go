package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "pricecheck",
		Usage:   "Read price labels and file alerts",
		Version: version,
		Commands: []*cli.Command{
			parseCommand(),
			checkCommand(),
			searchCommand(),
			weddingCommand(),
			issuesCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("pricecheck failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"thesislab/internal/cli"
)

func main() {
	// Load .env if present (GEMINI_API_KEY, DATABASE_URL)
	_ = godotenv.Load()

	setupLogging()

	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output).Level(zerolog.InfoLevel)
}

package app

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// loadDotenv loads a .env file from the working directory into the process
// environment. Variables already set in the environment always win, and a
// missing file is not an error: local development uses the file, deployments
// use real environment variables.
func loadDotenv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No .env file found, skipping.")
			return
		}
		logger.Warn("Failed to load .env file.", "error", err)
		return
	}
	logger.Debug(".env file loaded.")
}

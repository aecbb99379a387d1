// Package main is the entry point for the feedboard server.
//
// main stays minimal: load configuration, build the logger, hand both to
// the server package. All wiring lives in internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tanvir/feedboard/internal/server"
)

func main() {
	// A .env file is optional — in production the variables come from the
	// environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/feedboard.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	imageDir := "images"
	if envDir := os.Getenv("IMAGE_DIR"); envDir != "" {
		imageDir = envDir
	}

	// The signing secret has no default: tokens minted with a guessable
	// secret are forgeable. Generate one with: openssl rand -hex 32
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		ImageDir:  imageDir,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

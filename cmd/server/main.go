package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/agenthands/staygraph/internal/config"
	"github.com/agenthands/staygraph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment as-is")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load config", "path", configPath, "err", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()
	srv, err := server.New(ctx, cfg)
	if err != nil {
		log.Fatal("failed to start server", "err", err)
	}
	defer srv.Close(ctx)

	if err := srv.Run(":" + port); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

// Package config loads runtime configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need to wire the assistant together.
type Config struct {
	// MongoURI is the connection string for the document store. Required.
	MongoURI string
	// MongoDatabase is the database holding the transactions, categories
	// and errors collections.
	MongoDatabase string

	// GeminiAPIKey authenticates text-completion calls. Required.
	GeminiAPIKey string
	// ChatModel handles intent routing, message interpretation and
	// category resolution.
	ChatModel string
	// AnalysisModel builds query pipelines, summarizes results and
	// proposes chart specs.
	AnalysisModel string

	// HTTPPort is the API server listen port.
	HTTPPort string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	// Ignore a missing .env; it is a local-development convenience only.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getenvDefault("MONGODB_DATABASE", "financebot"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		ChatModel:     getenvDefault("CHAT_MODEL", "gemini-2.5-flash-lite"),
		AnalysisModel: getenvDefault("ANALYSIS_MODEL", "gemini-2.5-flash"),
		HTTPPort:      getenvDefault("PORT", "8080"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("config.Load: MONGODB_URI is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config.Load: GEMINI_API_KEY is required")
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"time"

	"github.com/dvloznov/financebot/internal/config"
	infraMongo "github.com/dvloznov/financebot/internal/infra/mongo"
	"github.com/dvloznov/financebot/internal/logger"
)

// cmd/setup-indexes provisions the indexes the application relies on,
// including the unique external_message_id index that enforces at-most-once
// message recording. Run it once per database.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := infraMongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer store.Close(context.Background())

	if err := infraMongo.EnsureIndexes(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	log.Info().Str("database", cfg.MongoDatabase).Msg("Indexes are in place")
}

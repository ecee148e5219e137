package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/financebot/internal/analysis"
	"github.com/dvloznov/financebot/internal/assistant"
	"github.com/dvloznov/financebot/internal/config"
	infraMongo "github.com/dvloznov/financebot/internal/infra/mongo"
	"github.com/dvloznov/financebot/internal/llm"
	"github.com/dvloznov/financebot/internal/logger"
)

// cmd/cli is a terminal chat with the assistant: each line is one message,
// processed synchronously.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	store, err := infraMongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer store.Close(context.Background())

	registry, err := llm.NewRegistry(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create model registry")
	}
	chat := registry.Completer(cfg.ChatModel, 0)
	analyst := registry.Completer(cfg.AnalysisModel, 0)

	transactionRepo := infraMongo.NewTransactionRepository(store)
	categoryRepo := infraMongo.NewCategoryRepository(store)
	errorRepo := infraMongo.NewErrorReportRepository(store)
	runner := infraMongo.NewAggregationRunner(store)

	resolver := assistant.NewCategoryResolver(transactionRepo, categoryRepo, chat, log)
	bot := assistant.New(
		assistant.NewIntentRouter(chat),
		assistant.NewMessageInterpreter(chat, log),
		assistant.NewTransactionIngestor(transactionRepo, resolver, log),
		analysis.NewAnswerer(analyst, analysis.NewExecutor(runner, log), runner, log),
		assistant.NewErrorReporter(errorRepo, chat, log),
		log,
	)

	userID := "cli"
	if u, err := user.Current(); err == nil && u.Username != "" {
		userID = u.Username
	}

	fmt.Println("financebot - type a transaction or a question, or \"quit\" to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}

		reply := bot.Handle(ctx, assistant.Message{
			Text:      text,
			UserID:    userID,
			MessageID: uuid.NewString(),
			SentAt:    time.Now(),
		})

		fmt.Println(reply.Message)
		if reply.Chart != nil {
			fmt.Printf("(a chart with %d series was suggested; charts are not rendered here)\n", len(reply.Chart.Data))
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Input error")
	}
}

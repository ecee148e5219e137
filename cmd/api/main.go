package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/financebot/internal/analysis"
	"github.com/dvloznov/financebot/internal/api/handlers"
	"github.com/dvloznov/financebot/internal/api/middleware"
	"github.com/dvloznov/financebot/internal/assistant"
	"github.com/dvloznov/financebot/internal/config"
	infraMongo "github.com/dvloznov/financebot/internal/infra/mongo"
	"github.com/dvloznov/financebot/internal/jobs"
	"github.com/dvloznov/financebot/internal/jobs/inmemory"
	"github.com/dvloznov/financebot/internal/llm"
	"github.com/dvloznov/financebot/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Store
	store, err := infraMongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer store.Close(context.Background())

	transactionRepo := infraMongo.NewTransactionRepository(store)
	categoryRepo := infraMongo.NewCategoryRepository(store)
	errorRepo := infraMongo.NewErrorReportRepository(store)
	runner := infraMongo.NewAggregationRunner(store)

	// Models
	registry, err := llm.NewRegistry(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create model registry")
	}
	chat := registry.Completer(cfg.ChatModel, 0)
	analyst := registry.Completer(cfg.AnalysisModel, 0)

	// Assistant
	resolver := assistant.NewCategoryResolver(transactionRepo, categoryRepo, chat, log)
	bot := assistant.New(
		assistant.NewIntentRouter(chat),
		assistant.NewMessageInterpreter(chat, log),
		assistant.NewTransactionIngestor(transactionRepo, resolver, log),
		analysis.NewAnswerer(analyst, analysis.NewExecutor(runner, log), runner, log),
		assistant.NewErrorReporter(errorRepo, chat, log),
		log,
	)

	// Job infrastructure: messages are processed off the request path.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 4, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		chatJob, ok := job.(*jobs.ChatMessageJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", chatJob.JobID).
			Str("message_id", chatJob.MessageID).
			Msg("Processing message job")

		chatJob.Result = bot.Handle(ctx, assistant.Message{
			Text:      chatJob.Text,
			UserID:    chatJob.UserID,
			MessageID: chatJob.MessageID,
			SentAt:    chatJob.SentAt,
		})
		return nil
	}

	go func() {
		log.Info().Msg("Starting message worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Message worker stopped with error")
		}
	}()

	// Handlers
	messagesHandler := handlers.NewMessagesHandler(jobQueue, jobStore, log)
	transactionsHandler := handlers.NewTransactionsHandler(transactionRepo, log)
	categoriesHandler := handlers.NewCategoriesHandler(categoryRepo, log)
	errorsHandler := handlers.NewErrorReportsHandler(errorRepo, log)

	// Router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			messagesHandler.PostMessage(w, r)
		case http.MethodGet:
			messagesHandler.ListMessages(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/messages/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/messages/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		messagesHandler.GetMessage(w, r, jobID)
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			categoriesHandler.ListCategories(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/errors", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			errorsHandler.ListErrorReports(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight messages
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/mobilindo/lapor-assistant/internal/adapters/http"
	"github.com/mobilindo/lapor-assistant/internal/adapters/llm"
	firestorestore "github.com/mobilindo/lapor-assistant/internal/adapters/storage/firestore"
	filestore "github.com/mobilindo/lapor-assistant/internal/adapters/storage/file"
	memstore "github.com/mobilindo/lapor-assistant/internal/adapters/storage/memory"
	"github.com/mobilindo/lapor-assistant/internal/app/conversation"
	"github.com/mobilindo/lapor-assistant/internal/config"
	"github.com/mobilindo/lapor-assistant/internal/domain"
	"github.com/mobilindo/lapor-assistant/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewLoader(os.Getenv("LAPOR_CONFIG")).Load()
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Info().Msg("logging configured to save to file and console")

	metrics := observability.NewMetrics()

	var llmClient domain.LLMClient
	switch {
	case cfg.UseMockLLM:
		logger.Info().Msg("using mock LLM client")
		llmClient = llm.NewMockClient()
	case cfg.GCPProject == "":
		logger.Warn().Msg("no GCP project configured, falling back to mock LLM client")
		llmClient = llm.NewMockClient()
	default:
		logger.Info().
			Str("project", cfg.GCPProject).
			Str("model", cfg.ModelName).
			Msg("using Vertex AI LLM client")

		llmClient, err = llm.NewGeminiClient(ctx, llm.GeminiOptions{
			Project:           cfg.GCPProject,
			Location:          cfg.GCPLocation,
			Model:             cfg.ModelName,
			DatastorePath:     cfg.DatastorePath(),
			SystemInstruction: llm.SystemInstruction,
			Temperature:       cfg.Generation.Temperature,
			TopP:              cfg.Generation.TopP,
			Seed:              cfg.Generation.Seed,
			MaxOutputTokens:   cfg.Generation.MaxOutputTokens,
			DisableSafety:     cfg.Generation.DisableSafety,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("error initializing Vertex AI client")
		}
	}

	var store domain.SessionStore
	closeStore := func() error { return nil }
	switch cfg.StorageBackend {
	case "firestore":
		logger.Info().Str("project", cfg.GCPProject).Msg("using Firestore session store")
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProject)
		if err != nil {
			logger.Fatal().Err(err).Msg("error initializing Firestore store")
		}
		closeStore = fsStore.Close
		store = fsStore
	case "memory":
		logger.Info().Msg("using in-memory session store")
		store = memstore.NewStore()
	default:
		logger.Info().Str("dir", cfg.SessionsDir).Msg("using file session store")
		store, err = filestore.NewStore(cfg.SessionsDir, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("error initializing file store")
		}
	}

	svc := conversation.NewService(llmClient, store, logger, metrics)
	handler := httpadapter.NewServer(svc, logger, httpadapter.Options{
		StaticDir: cfg.StaticDir,
		Metrics:   metrics,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("lapor API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	// Closed here rather than deferred: logger.Fatal exits the process and
	// would skip a deferred close.
	if err := closeStore(); err != nil {
		logger.Error().Err(err).Msg("closing session store")
	}
}

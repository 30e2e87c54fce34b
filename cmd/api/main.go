package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/LaykenV/teach-magic-server/internal/adapter/repo"
	"github.com/LaykenV/teach-magic-server/internal/cache"
	"github.com/LaykenV/teach-magic-server/internal/http/handlers"
	"github.com/LaykenV/teach-magic-server/internal/http/httpapi"
	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/infra/google"
	"github.com/LaykenV/teach-magic-server/internal/pipeline"
	"github.com/LaykenV/teach-magic-server/internal/providers/image"
	"github.com/LaykenV/teach-magic-server/internal/providers/llm"
	"github.com/LaykenV/teach-magic-server/internal/storage"
	"github.com/LaykenV/teach-magic-server/migrations"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.RunMigrations(cfg, migrations.FS); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	sqlRunner := infra.NewSQLRunner(pool, logger)
	users := repo.NewUserRepository(sqlRunner)
	creations := repo.NewCreationRepository(sqlRunner)

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open image storage")
	}

	llmGen, err := llm.NewOpenAIGenerator(llm.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Timeout:      cfg.LLMTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure language model client")
	}
	imageGen, err := image.NewOpenAIGenerator(image.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIImageModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Timeout:      cfg.ImageTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image client")
	}

	listCache := cache.New(cfg.CacheTTL)
	pipe := pipeline.NewService(llmGen, imageGen, store, creations, users, listCache, logger, cfg.ImageFanoutLimit)

	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		DB:        pool,
		Users:     users,
		Creations: creations,
		Pipeline:  pipe,
		Images:    imageGen,
		Store:     store,
		Cache:     listCache,
		Google:    google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		Validate:  validator.New(),
	}

	server := infra.NewHTTPServer(cfg, logger, httpapi.NewRouter(app))

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/catalog"
	"github.com/cinesaver/cinesaver/internal/config"
	"github.com/cinesaver/cinesaver/internal/dossier"
	"github.com/cinesaver/cinesaver/internal/genai"
	"github.com/cinesaver/cinesaver/internal/geo"
	httpserver "github.com/cinesaver/cinesaver/internal/http"
	"github.com/cinesaver/cinesaver/internal/metadata"
	"github.com/cinesaver/cinesaver/internal/search"
	"github.com/cinesaver/cinesaver/internal/showtimes"
	"github.com/cinesaver/cinesaver/internal/suggest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; the environment itself may carry everything.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "cinesaver").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	modelClient, err := genai.NewHTTPClient(cfg.GenAIURL, cfg.GenAIAPIKey, cfg.GenAIModel, time.Duration(cfg.GenAITimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init genai client")
	}
	metaClient, err := metadata.NewHTTPClient(cfg.MetadataURL, cfg.MetadataAPIKey, time.Duration(cfg.MetadataTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init metadata client")
	}
	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogImageURL, cfg.CatalogAPIKey, time.Duration(cfg.CatalogTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init catalog client")
	}
	geocoder, err := geo.NewHTTPClient(cfg.GeoURL, time.Duration(cfg.GeoTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init geo client")
	}

	discovery := showtimes.New(modelClient, logger)
	suggester := suggest.New(metaClient, logger)
	dossiers := dossier.New(catalogClient, modelClient, metaClient, logger)
	searcher := search.New(discovery, metaClient, suggester, logger)

	server := httpserver.New(cfg, searcher, dossiers, suggester, discovery, geocoder, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	logger.Info().Str("port", cfg.Port).Msg("server started")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

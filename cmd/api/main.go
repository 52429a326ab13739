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
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/casterlin/fable-tavern/backend/internal/config"
	"github.com/casterlin/fable-tavern/backend/internal/handler"
	"github.com/casterlin/fable-tavern/backend/internal/model/character"
	"github.com/casterlin/fable-tavern/backend/internal/service/ai"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/internal/service/speech"
	"github.com/casterlin/fable-tavern/backend/internal/store/chatstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	characterStore := character.NewMemoryStore(character.Seed())

	sessions, messages, cleanup, err := buildStores(cfg.Chat)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize chat stores")
	}
	defer cleanup()

	var backend chatservice.Responder
	backendConfigured := false
	if cfg.AI.Enabled() {
		aiSvc, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize model backend, exchanges will fail until restart")
			backend = ai.Disabled{}
		} else {
			log.Info().Str("model", cfg.AI.Model).Msg("model backend initialized")
			backend = aiSvc
			backendConfigured = true
		}
	} else {
		log.Warn().Msg("model credentials not configured, exchanges will be rejected")
		backend = ai.Disabled{}
	}

	var transcriber speech.Transcriber
	if cfg.Speech.Enabled {
		transcriber = speech.NewService(cfg.Speech)
		log.Info().Str("model", cfg.Speech.Model).Msg("transcription service initialized")
	} else {
		log.Info().Msg("transcription credentials not configured, voice upload disabled")
	}

	chatSvc := chatservice.NewService(characterStore, sessions, messages, backend, chatservice.Options{
		HistoryLimit:     cfg.Chat.HistoryLimit,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
	})

	router := handler.NewRouter(characterStore, chatSvc, transcriber, handler.Status{
		BackendConfigured:     backendConfigured,
		TranscriberConfigured: transcriber != nil,
		StoreDriver:           cfg.Chat.StoreDriver,
	})

	if err := runServer(ctx, cfg.Server.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server shutdown complete")
}

func buildStores(cfg config.ChatConfig) (chatstore.SessionStore, chatstore.MessageStore, func(), error) {
	switch cfg.StoreDriver {
	case "sqlite":
		dsn, err := chatstore.DSNForFile(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		store, err := chatstore.NewSQLiteStore(dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite chat store")
		return store, store, func() { _ = store.Close() }, nil
	default:
		store := chatstore.NewMemoryStore()
		return store, store, func() {}, nil
	}
}

func runServer(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("fable tavern backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

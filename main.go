package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gameshub/wordme/internal/config"
	"github.com/gameshub/wordme/internal/game"
	"github.com/gameshub/wordme/internal/httpserver"
	"github.com/gameshub/wordme/internal/store"
	"github.com/gameshub/wordme/internal/words"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("wordme exited")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg)

	// --- word catalogue ---
	cat, err := words.Open(ctx, words.OpenOptions{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.SQLitePath,
		MongoURI:   cfg.MongoURI,
		MongoDB:    cfg.MongoDatabase,
		MongoRetry: words.DefaultRetry,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cat.Close(closeCtx)
	}()
	log.Info().Str("driver", cfg.StoreDriver).Msg("word store ready")

	if err := seedIfNeeded(ctx, cfg, cat); err != nil {
		return err
	}

	// --- identity ---
	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	// --- game ---
	sessions := store.NewMemory(cfg.SessionIdleTTL)
	games := game.NewService(sessions, cat, cat, log.Logger)

	// --- HTTP server ---
	srv := httpserver.New(httpserver.Deps{
		Games:    games,
		Words:    cat,
		Verifier: verifier,
		Checks:   map[string]httpserver.Pinger{cfg.StoreDriver: cat},
		Logger:   log.Logger,
	}, httpserver.Options{
		Addr:           cfg.HTTPAddr,
		CORSOrigins:    cfg.CORSOrigins,
		AuthCookie:     cfg.AuthCookie,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// --- run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("auth", cfg.AuthMode).Msg("starting wordme")
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return sessions.Run(gctx, cfg.SessionReapInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = log.With().Str("service", "wordme-backend").Logger()
}

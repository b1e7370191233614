package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/config"
	"github.com/njrtechbr/caixa-koerner/internal/infra"
	"github.com/njrtechbr/caixa-koerner/internal/mfa"
	"github.com/njrtechbr/caixa-koerner/internal/repository"
	"github.com/njrtechbr/caixa-koerner/internal/router"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	cipher, err := mfa.NewCipher(cfg.MFAEncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MFA encryption key")
	}

	// Start goroutine worker pool draining the async audit trail queue.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditoriaRepo := repository.NewAuditoriaRepository(db)
	worker.StartWorkerPool(ctx, rdb, auditoriaRepo, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, cipher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("caixa-koerner backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

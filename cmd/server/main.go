package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/adapters/chat"
	router "github.com/dkeye/Parlor/internal/adapters/http"
	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/auth"
	"github.com/dkeye/Parlor/internal/config"
	"github.com/dkeye/Parlor/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	stats := metrics.NewStats()
	registry := app.NewRegistry()
	rooms := app.NewRoomManager(cfg.HistoryLimit)
	rooms.Seed(cfg.Rooms)
	dispatcher := app.NewDispatcher(registry, rooms, stats)
	verifier := auth.New(cfg.Secret)

	sweeper := chat.NewSweeper(cfg.SweepPeriod)
	go sweeper.Run(ctx)

	ctl := chat.NewChatWSController(cfg, verifier, dispatcher, sweeper, stats)

	r := router.SetupRouter(ctx, cfg, ctl, verifier, rooms, stats)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Parlor server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

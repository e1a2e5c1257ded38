package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	config := LoadConfigFromEnv(DefaultConfig())
	configStore.Update(config)
	setupLogging(config.LogLevel, os.Stderr)

	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	hintHub := NewHintHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller.SetHintPublisher(
		func() bool { return hintHub.HasClients() && GetConfig().HintMode },
		hintHub.Publish,
	)

	go hub.Run(ctx.Done())
	go hintHub.Run(ctx.Done())
	srv := &server{controller: controller, hub: hub, hintHub: hintHub}
	go runTicker(ctx, srv, time.Duration(config.TickMs)*time.Millisecond)

	httpServer := &http.Server{
		Addr:    config.ListenAddr,
		Handler: newRouter(srv),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", config.ListenAddr).Msg("backend listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}
	cancel()
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("exiting after server error")
	}
}

// runTicker drives AI and queued human moves and broadcasts every applied move.
func runTicker(ctx context.Context, s *server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.controller.Tick() {
				s.publishLatest()
			}
		}
	}
}

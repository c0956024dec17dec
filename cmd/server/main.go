// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Command server runs the SkillBridge recommendation service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillbridge/skillbridge/internal/api"
	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/internal/config"
	"github.com/skillbridge/skillbridge/internal/events"
	"github.com/skillbridge/skillbridge/internal/logging"
	"github.com/skillbridge/skillbridge/internal/recommend"
	"github.com/skillbridge/skillbridge/internal/store"
)

func main() {
	if err := run(); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logger.Info().Str("addr", cfg.Addr()).Msg("starting skillbridge")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	recCache, err := cache.New(cache.Options{
		Backend:         cfg.Cache.Backend,
		Path:            cfg.Cache.Path,
		MaxEntries:      cfg.Cache.MaxEntries,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	if err != nil {
		return err
	}
	defer recCache.Close()

	var emitter recommend.Emitter
	if cfg.Events.Enabled {
		bus := events.NewBus(events.Config{BufferSize: cfg.Events.BufferSize}, logger)
		defer bus.Close()

		sub := events.NewSubscriber(bus, logger)
		go func() {
			if err := sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn().Err(err).Msg("event subscriber stopped")
			}
		}()
		emitter = bus
	}

	engine, err := recommend.New(st, recCache, emitter, cfg.Recommend, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(engine, st, st, logger)
	router := api.NewRouter(handler, cfg.Security)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("stopped")
	return nil
}

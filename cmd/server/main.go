package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"tabelkeeper/internal/app/server/api"
	"tabelkeeper/internal/app/server/config"
	"tabelkeeper/internal/infrastructure/storage/postgres"
	"tabelkeeper/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer storage.Close()

	mux := api.New(storage, log)

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Server.RunAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			done <- syscall.SIGTERM
		}
	}()

	<-done
	log.Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", slog.Any("error", err))
	}

	log.Info("server stopped")
}

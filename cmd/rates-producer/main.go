package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/app/background"
	"github.com/LavaJover/shvark-rates-pipeline/internal/app/setup"
	"github.com/LavaJover/shvark-rates-pipeline/internal/config"
	"github.com/LavaJover/shvark-rates-pipeline/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()

	lg, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	lg = lg.With("service", "rates-producer", "env", cfg.Env)

	deps, err := setup.InitializeProducer(cfg, lg)
	if err != nil {
		lg.Error("failed to init dependencies", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			lg.Error("failed to close kafka writer", "error", err)
		}
	}()

	ucs, err := setup.InitializeProducerUsecases(deps)
	if err != nil {
		lg.Error("failed to init usecases", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := background.NewRatesScheduler(ucs.Rates, cfg.Feed.Interval, lg)
	if err != nil {
		lg.Error("failed to init scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start(ctx)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.HTTPServer.Addr(),
		Handler: handlers.NewRouter(handlers.RouterOptions{
			Logger:   lg,
			Gatherer: deps.Registry,
			Produce:  handlers.NewProduceHandler(ucs.Tunnel, cfg.Kafka.TunnelTopic),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		lg.Info("HTTP server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("HTTP server shutdown failed", "error", err)
	}
}

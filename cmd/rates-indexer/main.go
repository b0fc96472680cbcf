package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-rates-pipeline/internal/app/setup"
	"github.com/LavaJover/shvark-rates-pipeline/internal/config"
	"github.com/LavaJover/shvark-rates-pipeline/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-rates-pipeline/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-rates-pipeline/internal/usecase"
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
	lg = lg.With("service", "rates-indexer", "env", cfg.Env)

	deps, err := setup.InitializeIndexer(cfg, lg)
	if err != nil {
		lg.Error("failed to init dependencies", "error", err)
		os.Exit(1)
	}
	consumers := setup.InitializeIndexerConsumers(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		wg     sync.WaitGroup
		failed atomic.Bool
	)
	for _, c := range []*usecase.Consumer{consumers.Rates, consumers.Tunnel} {
		wg.Add(1)
		go func(c *usecase.Consumer) {
			defer wg.Done()
			if err := c.Run(ctx); err != nil {
				// a dead consumer takes the process down so it gets restarted
				lg.Error("consumer stopped", "error", err)
				failed.Store(true)
				stop()
			}
		}(c)
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.HTTPServer.Addr(),
		Handler: handlers.NewRouter(handlers.RouterOptions{
			Logger:   lg,
			Gatherer: deps.Registry,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("HTTP server shutdown failed", "error", err)
	}
	wg.Wait()
	if failed.Load() {
		os.Exit(1)
	}
}

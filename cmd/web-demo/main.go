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
	"time"

	"go.uber.org/zap"

	"github.com/onecard-go/onecard/internal/config"
	"github.com/onecard-go/onecard/internal/game"
	"github.com/onecard-go/onecard/internal/logging"
	"github.com/onecard-go/onecard/internal/web"
)

var configPath = flag.String("config", "config/onecard.yaml", "path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := game.NewManager(logger, game.Options{
		Seed:               cfg.Game.Seed,
		ReplayLimit:        cfg.Game.ReplayLimit,
		RevealComputerHand: cfg.Game.RevealComputerHand,
	})
	hub := web.NewHub(manager, logger, cfg.Game.ComputerDelay)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)

	srv := &http.Server{
		Addr:              cfg.Web.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("websocket server starting",
		zap.String("address", cfg.Web.Address),
		zap.String("endpoint", "/ws"),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

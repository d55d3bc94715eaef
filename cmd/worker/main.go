package main

// Standalone generation worker. Runs the dispatcher without the HTTP
// surface, for deployments that scale rendering separately from the API.

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cvgen-backend/internal/bootstrap"
	"cvgen-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.TokenService.RunGC(ctx, cfg.TokenGCInterval)

	log.Printf("Starting generation worker (%d workers, pool size %d)", cfg.WorkerCount, cfg.EnginePoolSize)
	app.Dispatcher.Start(ctx)
}

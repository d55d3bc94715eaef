package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cvgen-backend/internal/bootstrap"
	"cvgen-backend/internal/shared/config"
	"cvgen-backend/internal/shared/server"
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

	go app.Dispatcher.Start(ctx)
	go app.TokenService.RunGC(ctx, cfg.TokenGCInterval)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/bootstrap"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.NewLogger("booking-service")
	cfg := config.Load()

	bootstrap.Run(ctx, cfg, log)
}

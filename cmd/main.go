package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ridetracker/api"
	"ridetracker/config"
	"ridetracker/pkg/jwt"
	"ridetracker/pkg/logger"
	"ridetracker/service"
	"ridetracker/storage/postgres"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	svc := service.New(pgStore, log)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	server := api.New(cfg, svc, tokens, log)

	go func() {
		if err := server.Run(); err != nil {
			log.Error("HTTP server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down")
}

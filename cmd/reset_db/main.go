package main

import (
	"context"

	"ridetracker/config"
	"ridetracker/pkg/logger"
	"ridetracker/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// CASCADE takes ride and ride_event rows along with their users.
	_, err = pg.GetPool().Exec(context.Background(), `TRUNCATE TABLE "user", ride, ride_event CASCADE`)
	if err != nil {
		log.Error("failed to truncate tables", logger.Error(err))
	} else {
		log.Info("truncated user, ride, and ride_event tables")
	}
}

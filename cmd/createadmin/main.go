package main

import (
	"context"
	"flag"
	"os"

	"golang.org/x/crypto/bcrypt"

	"ridetracker/config"
	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage/postgres"
)

// Creates an admin account. Token issuance only ever succeeds for users that
// exist, so a fresh deployment needs at least one of these.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "", "admin password (required)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	phone := flag.String("phone", "", "phone number")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	if *password == "" {
		log.Error("-password is required")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", logger.Error(err))
		os.Exit(1)
	}

	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	user, err := pg.User().Create(context.Background(), &models.User{
		Username:     *username,
		FirstName:    *firstName,
		LastName:     *lastName,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		PhoneNumber:  *phone,
	})
	if err != nil {
		log.Error("failed to create admin user", logger.Error(err))
		os.Exit(1)
	}

	log.Info("admin user created", logger.Int64("id_user", user.ID), logger.String("username", user.Username))
}

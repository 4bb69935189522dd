package service

import (
	"context"

	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage"
)

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	stg storage.IUserStorage
	log logger.ILogger
}

func NewUserService(stg storage.IStorage, log logger.ILogger) UserService {
	return &userService{
		stg: stg.User(),
		log: log,
	}
}

func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return s.stg.Create(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.stg.GetByUsername(ctx, username)
}

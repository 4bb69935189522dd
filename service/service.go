package service

import (
	"ridetracker/pkg/logger"
	"ridetracker/storage"
)

type IServiceManager interface {
	User() UserService
	Ride() RideService
}

type service struct {
	userService UserService
	rideService RideService
}

func New(stg storage.IStorage, log logger.ILogger) IServiceManager {
	return &service{
		userService: NewUserService(stg, log),
		rideService: NewRideService(stg, log),
	}
}

func (s *service) User() UserService {
	return s.userService
}

func (s *service) Ride() RideService {
	return s.rideService
}

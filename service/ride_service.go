package service

import (
	"context"

	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage"
)

type RideService interface {
	Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	GetByID(ctx context.Context, id int64) (*models.Ride, error)
	Update(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, params models.RideListParams) (*models.RideListPage, error)
}

type rideService struct {
	rides  storage.IRideStorage
	events storage.IRideEventStorage
	log    logger.ILogger
}

func NewRideService(stg storage.IStorage, log logger.ILogger) RideService {
	return &rideService{
		rides:  stg.Ride(),
		events: stg.RideEvent(),
		log:    log,
	}
}

func (s *rideService) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	return s.rides.Create(ctx, ride)
}

func (s *rideService) GetByID(ctx context.Context, id int64) (*models.Ride, error) {
	return s.rides.GetByID(ctx, id)
}

// Update writes the ride and, when the status changed, records an immutable
// log entry for the transition. The entry's timestamp comes from the
// database, not from here.
func (s *rideService) Update(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	prev, err := s.rides.GetByID(ctx, ride.ID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	updated, err := s.rides.Update(ctx, ride)
	if err != nil || updated == nil {
		return updated, err
	}

	if prev.Status != updated.Status {
		_, err := s.events.Create(ctx, &models.RideEvent{
			RideID:      updated.ID,
			Description: "Status changed to " + updated.Status,
		})
		if err != nil {
			// The update itself succeeded; a lost log entry is not worth
			// failing the request over.
			s.log.Warning("failed to record status change event",
				logger.Int64("id_ride", updated.ID), logger.Error(err))
		}
	}

	return updated, nil
}

func (s *rideService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.rides.Delete(ctx, id)
}

func (s *rideService) List(ctx context.Context, params models.RideListParams) (*models.RideListPage, error) {
	return s.rides.List(ctx, params)
}

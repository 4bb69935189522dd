package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"ridetracker/pkg/models"
)

type IStorage interface {
	User() IUserStorage
	Ride() IRideStorage
	RideEvent() IRideEventStorage
	Close()
	GetPool() *pgxpool.Pool
}

type IUserStorage interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type IRideStorage interface {
	Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	GetByID(ctx context.Context, id int64) (*models.Ride, error)
	Update(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, params models.RideListParams) (*models.RideListPage, error)
}

type IRideEventStorage interface {
	Create(ctx context.Context, event *models.RideEvent) (*models.RideEvent, error)
}

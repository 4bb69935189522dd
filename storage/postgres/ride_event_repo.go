package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage"
)

type rideEventRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewRideEventRepo(db *pgxpool.Pool, log logger.ILogger) storage.IRideEventStorage {
	return &rideEventRepo{db: db, log: log}
}

// Create inserts an event. created_at is set by the database, never by the
// caller, so ordering and the listing window stay authoritative.
func (r *rideEventRepo) Create(ctx context.Context, event *models.RideEvent) (*models.RideEvent, error) {
	query := `
		INSERT INTO ride_event (id_ride, description)
		VALUES ($1, $2)
		RETURNING id_ride_event, created_at
	`
	err := r.db.QueryRow(ctx, query, event.RideID, event.Description).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("create ride event: %w", models.ErrInvalidReference)
		}
		r.log.Error("failed to create ride event", logger.Int64("id_ride", event.RideID), logger.Error(err))
		return nil, err
	}
	return event, nil
}

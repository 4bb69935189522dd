package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridetracker/pkg/logger"
	"ridetracker/pkg/models"
	"ridetracker/storage"
)

type rideRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewRideRepo(db *pgxpool.Pool, log logger.ILogger) storage.IRideStorage {
	return &rideRepo{db: db, log: log}
}

func (r *rideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	query := `
		INSERT INTO ride (status, id_rider, id_driver, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude, pickup_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_ride
	`
	err := r.db.QueryRow(ctx, query,
		ride.Status,
		ride.RiderID,
		ride.DriverID,
		ride.PickupLatitude,
		ride.PickupLongitude,
		ride.DropoffLatitude,
		ride.DropoffLongitude,
		ride.PickupTime,
	).Scan(&ride.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("create ride: %w", models.ErrInvalidReference)
		}
		r.log.Error("failed to create ride", logger.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, ride.ID)
}

func (r *rideRepo) GetByID(ctx context.Context, id int64) (*models.Ride, error) {
	query := "SELECT " + rideListColumns + rideListFrom + "\n\t\tWHERE r.id_ride = $1"

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.log.Error("failed to get ride by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			r.log.Error("failed to get ride by id", logger.Int64("id", id), logger.Error(err))
			return nil, err
		}
		return nil, nil
	}

	ride, err := scanListedRide(rows)
	if err != nil {
		r.log.Error("failed to scan ride", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	rows.Close()

	threshold := time.Now().UTC().Add(-rideEventsWindow)
	if err := r.attachRecentEvents(ctx, map[int64]*models.Ride{ride.ID: ride}, []int64{ride.ID}, threshold); err != nil {
		return nil, err
	}

	return ride, nil
}

func (r *rideRepo) Update(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	query := `
		UPDATE ride
		SET status = $1, id_rider = $2, id_driver = $3,
		    pickup_latitude = $4, pickup_longitude = $5,
		    dropoff_latitude = $6, dropoff_longitude = $7,
		    pickup_time = $8
		WHERE id_ride = $9
		RETURNING id_ride
	`
	err := r.db.QueryRow(ctx, query,
		ride.Status,
		ride.RiderID,
		ride.DriverID,
		ride.PickupLatitude,
		ride.PickupLongitude,
		ride.DropoffLatitude,
		ride.DropoffLongitude,
		ride.PickupTime,
		ride.ID,
	).Scan(&ride.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("update ride: %w", models.ErrInvalidReference)
		}
		r.log.Error("failed to update ride", logger.Int64("id", ride.ID), logger.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, ride.ID)
}

// Delete removes a ride; its events go with it (ON DELETE CASCADE).
// Returns false when the id does not exist.
func (r *rideRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM ride WHERE id_ride = $1", id)
	if err != nil {
		r.log.Error("failed to delete ride", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List executes the listing plan: exactly three statements regardless of
// page size or how many rides and events exist. The 24h predicate on events
// is evaluated by Postgres, never by loading the event table into memory.
func (r *rideRepo) List(ctx context.Context, params models.RideListParams) (*models.RideListPage, error) {
	plan := buildRideListPlan(params, time.Now().UTC())

	page := &models.RideListPage{Rides: []*models.Ride{}}
	if err := r.db.QueryRow(ctx, plan.countSQL, plan.countArgs...).Scan(&page.Count); err != nil {
		r.log.Error("failed to count rides", logger.Error(err))
		return nil, err
	}

	rows, err := r.db.Query(ctx, plan.pageSQL, plan.pageArgs...)
	if err != nil {
		r.log.Error("failed to list rides", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*models.Ride)
	ids := make([]int64, 0, params.PageSize)
	for rows.Next() {
		ride, err := scanListedRide(rows)
		if err != nil {
			r.log.Error("failed to scan listed ride", logger.Error(err))
			return nil, err
		}
		page.Rides = append(page.Rides, ride)
		byID[ride.ID] = ride
		ids = append(ids, ride.ID)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("failed to list rides", logger.Error(err))
		return nil, err
	}
	rows.Close()

	if err := r.attachRecentEvents(ctx, byID, ids, plan.threshold); err != nil {
		return nil, err
	}

	return page, nil
}

// attachRecentEvents runs the event-window statement for the given ride ids
// and groups the results onto their rides in-process.
func (r *rideRepo) attachRecentEvents(ctx context.Context, byID map[int64]*models.Ride, ids []int64, threshold time.Time) error {
	for _, ride := range byID {
		ride.TodaysRideEvents = []models.RideEvent{}
	}

	rows, err := r.db.Query(ctx, rideEventsWindowSQL, ids, threshold)
	if err != nil {
		r.log.Error("failed to fetch recent ride events", logger.Error(err))
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ev models.RideEvent
		if err := rows.Scan(&ev.ID, &ev.RideID, &ev.Description, &ev.CreatedAt); err != nil {
			r.log.Error("failed to scan ride event", logger.Error(err))
			return err
		}
		if ride, ok := byID[ev.RideID]; ok {
			ride.TodaysRideEvents = append(ride.TodaysRideEvents, ev)
		}
	}
	if err := rows.Err(); err != nil {
		r.log.Error("failed to fetch recent ride events", logger.Error(err))
		return err
	}
	return nil
}

// scanListedRide reads one row produced by rideListColumns. Rider and driver
// columns come from LEFT JOINs, so all of them may be NULL.
func scanListedRide(rows pgx.Rows) (*models.Ride, error) {
	var ride models.Ride
	var (
		riderID, driverID                                                    *int64
		riderUsername, riderFirst, riderLast, riderEmail, riderRole, riderPhone       *string
		driverUsername, driverFirst, driverLast, driverEmail, driverRole, driverPhone *string
	)

	err := rows.Scan(
		&ride.ID, &ride.Status, &ride.RiderID, &ride.DriverID,
		&ride.PickupLatitude, &ride.PickupLongitude, &ride.DropoffLatitude, &ride.DropoffLongitude, &ride.PickupTime,
		&riderID, &riderUsername, &riderFirst, &riderLast, &riderEmail, &riderRole, &riderPhone,
		&driverID, &driverUsername, &driverFirst, &driverLast, &driverEmail, &driverRole, &driverPhone,
	)
	if err != nil {
		return nil, err
	}

	if riderID != nil {
		ride.Rider = &models.User{
			ID:          *riderID,
			Username:    deref(riderUsername),
			FirstName:   deref(riderFirst),
			LastName:    deref(riderLast),
			Email:       deref(riderEmail),
			Role:        deref(riderRole),
			PhoneNumber: deref(riderPhone),
		}
	}
	if driverID != nil {
		ride.Driver = &models.User{
			ID:          *driverID,
			Username:    deref(driverUsername),
			FirstName:   deref(driverFirst),
			LastName:    deref(driverLast),
			Email:       deref(driverEmail),
			Role:        deref(driverRole),
			PhoneNumber: deref(driverPhone),
		}
	}

	return &ride, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

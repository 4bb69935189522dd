package models

import "time"

type Ride struct {
	ID               int64       `json:"id_ride"`
	Status           string      `json:"status"`
	RiderID          *int64      `json:"-"`
	DriverID         *int64      `json:"-"`
	Rider            *User       `json:"rider"`
	Driver           *User       `json:"driver"`
	PickupLatitude   float64     `json:"pickup_latitude"`
	PickupLongitude  float64     `json:"pickup_longitude"`
	DropoffLatitude  *float64    `json:"dropoff_latitude"`
	DropoffLongitude *float64    `json:"dropoff_longitude"`
	PickupTime       *time.Time  `json:"pickup_time"`
	TodaysRideEvents []RideEvent `json:"todays_ride_events"`
}

// RideEvent is an immutable log entry. CreatedAt is set by the database at
// insert time and is authoritative for the 24h listing window.
type RideEvent struct {
	ID          int64     `json:"id_ride_event"`
	RideID      int64     `json:"-"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	OrderingPickupTime     = "pickup_time"
	OrderingPickupTimeDesc = "-pickup_time"
	OrderingDistance       = "distance"
	OrderingDistanceDesc   = "-distance"
)

// RideListParams is the validated filter/sort/page specification for a
// listing request. Lat/Lng are meaningful only when HasCoords is set.
type RideListParams struct {
	Status     string
	RiderEmail string
	Ordering   string
	Lat        float64
	Lng        float64
	HasCoords  bool
	Page       int
	PageSize   int
}

func (p RideListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// RideListPage is one page of rides plus the total row count matching the
// filters, before pagination.
type RideListPage struct {
	Count int
	Rides []*Ride
}

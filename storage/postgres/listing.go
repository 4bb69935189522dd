package postgres

import (
	"fmt"
	"strings"
	"time"

	"ridetracker/pkg/models"
)

// rideEventsWindow is how far back the attached event log reaches. Events
// older than this never appear in todays_ride_events.
const rideEventsWindow = 24 * time.Hour

// rideListPlan is the fixed three-statement plan for one listing request:
// a count, a page fetch with rider/driver joined inline, and a windowed
// event fetch bound to the page's ride ids. The statement count never
// depends on page size or table sizes.
type rideListPlan struct {
	countSQL  string
	countArgs []any

	pageSQL  string
	pageArgs []any

	// eventsSQL takes two arguments at execution time: the page's ride ids
	// and the window threshold.
	eventsSQL string
	threshold time.Time
}

const rideListColumns = `r.id_ride, r.status, r.id_rider, r.id_driver,
	       r.pickup_latitude, r.pickup_longitude, r.dropoff_latitude, r.dropoff_longitude, r.pickup_time,
	       rider.id_user, rider.username, rider.first_name, rider.last_name, rider.email, rider.role, rider.phone_number,
	       driver.id_user, driver.username, driver.first_name, driver.last_name, driver.email, driver.role, driver.phone_number`

const rideListFrom = `
		FROM ride r
		LEFT JOIN "user" rider ON r.id_rider = rider.id_user
		LEFT JOIN "user" driver ON r.id_driver = driver.id_user`

const rideEventsWindowSQL = `
		SELECT id_ride_event, id_ride, description, created_at
		FROM ride_event
		WHERE id_ride = ANY($1) AND created_at >= $2
		ORDER BY created_at ASC, id_ride_event ASC`

func buildRideListPlan(p models.RideListParams, now time.Time) rideListPlan {
	var (
		where []string
		args  []any
	)

	if p.Status != "" {
		args = append(args, p.Status)
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if p.RiderEmail != "" {
		args = append(args, p.RiderEmail)
		where = append(where, fmt.Sprintf("rider.email = $%d", len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = "\n\t\tWHERE " + strings.Join(where, " AND ")
	}

	plan := rideListPlan{
		countSQL:  "SELECT count(*)" + rideListFrom + cond,
		countArgs: append([]any(nil), args...),
		eventsSQL: rideEventsWindowSQL,
		threshold: now.Add(-rideEventsWindow),
	}

	pageArgs := args
	var orderBy string
	switch p.Ordering {
	case models.OrderingPickupTime:
		orderBy = "r.pickup_time ASC NULLS LAST, r.id_ride ASC"
	case models.OrderingPickupTimeDesc:
		orderBy = "r.pickup_time DESC NULLS LAST, r.id_ride ASC"
	case models.OrderingDistance, models.OrderingDistanceDesc:
		// Squared planar distance to the pickup point. Monotonic with true
		// distance at urban scale, so it ranks correctly without sqrt or
		// trigonometry, and it is computed by Postgres so ORDER BY with
		// LIMIT/OFFSET stays server-side.
		pageArgs = append(pageArgs, p.Lat)
		lat := len(pageArgs)
		pageArgs = append(pageArgs, p.Lng)
		lng := len(pageArgs)

		dir := "ASC"
		if p.Ordering == models.OrderingDistanceDesc {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf(
			"(r.pickup_latitude - $%d) * (r.pickup_latitude - $%d) + (r.pickup_longitude - $%d) * (r.pickup_longitude - $%d) %s, r.id_ride ASC",
			lat, lat, lng, lng, dir,
		)
	default:
		orderBy = "r.id_ride ASC"
	}

	pageArgs = append(pageArgs, p.PageSize, p.Offset())
	plan.pageSQL = fmt.Sprintf("SELECT %s%s%s\n\t\tORDER BY %s\n\t\tLIMIT $%d OFFSET $%d",
		rideListColumns, rideListFrom, cond, orderBy, len(pageArgs)-1, len(pageArgs))
	plan.pageArgs = pageArgs

	return plan
}

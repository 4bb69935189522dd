package api

import (
	"errors"
	"net/url"
	"strconv"

	"ridetracker/pkg/models"
)

var (
	errInvalidOrdering    = errors.New(`ordering must be one of "pickup_time", "-pickup_time", "distance", "-distance"`)
	errMissingCoordinates = errors.New(`sorting by distance requires both "lat" and "lng" query parameters as numeric values`)
	errInvalidPage        = errors.New(`page must be a positive integer`)
)

// parseRideListParams validates raw listing query parameters before anything
// touches storage. It is a pure parse, no side effects.
func parseRideListParams(q url.Values, pageSize int) (models.RideListParams, error) {
	p := models.RideListParams{Page: 1, PageSize: pageSize}

	p.Status = q.Get("status")
	p.RiderEmail = q.Get("rider_email")
	if p.RiderEmail == "" {
		// Django-style filter key, kept for client compatibility.
		p.RiderEmail = q.Get("rider__email")
	}

	if ordering := q.Get("ordering"); ordering != "" {
		switch ordering {
		case models.OrderingPickupTime, models.OrderingPickupTimeDesc,
			models.OrderingDistance, models.OrderingDistanceDesc:
			p.Ordering = ordering
		default:
			return p, errInvalidOrdering
		}
	}

	if p.Ordering == models.OrderingDistance || p.Ordering == models.OrderingDistanceDesc {
		latStr, lngStr := q.Get("lat"), q.Get("lng")
		if latStr == "" || lngStr == "" {
			return p, errMissingCoordinates
		}
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			return p, errMissingCoordinates
		}
		p.Lat, p.Lng, p.HasCoords = lat, lng, true
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return p, errInvalidPage
		}
		p.Page = page
	}

	return p, nil
}

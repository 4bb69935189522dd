package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ridetracker/pkg/models"
)

type rideInput struct {
	Status           string     `json:"status" binding:"required"`
	RiderID          *int64     `json:"id_rider"`
	DriverID         *int64     `json:"id_driver"`
	PickupLatitude   *float64   `json:"pickup_latitude" binding:"required"`
	PickupLongitude  *float64   `json:"pickup_longitude" binding:"required"`
	DropoffLatitude  *float64   `json:"dropoff_latitude"`
	DropoffLongitude *float64   `json:"dropoff_longitude"`
	PickupTime       *time.Time `json:"pickup_time"`
}

func (in rideInput) toRide(id int64) *models.Ride {
	return &models.Ride{
		ID:               id,
		Status:           in.Status,
		RiderID:          in.RiderID,
		DriverID:         in.DriverID,
		PickupLatitude:   *in.PickupLatitude,
		PickupLongitude:  *in.PickupLongitude,
		DropoffLatitude:  in.DropoffLatitude,
		DropoffLongitude: in.DropoffLongitude,
		PickupTime:       in.PickupTime,
	}
}

type rideListResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []*models.Ride `json:"results"`
}

func (s *Server) listRides(c *gin.Context) {
	params, err := parseRideListParams(c.Request.URL.Query(), s.cfg.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := s.svc.Ride().List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rides"})
		return
	}

	resp := rideListResponse{
		Count:   page.Count,
		Results: page.Rides,
	}
	if params.Page*params.PageSize < page.Count {
		resp.Next = pageLink(c.Request.URL, params.Page+1)
	}
	if params.Page > 1 {
		resp.Previous = pageLink(c.Request.URL, params.Page-1)
	}

	c.JSON(http.StatusOK, resp)
}

// pageLink rewrites the request URL to point at another page.
func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}

func (s *Server) createRide(c *gin.Context) {
	var in rideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ride, err := s.svc.Ride().Create(c.Request.Context(), in.toRide(0))
	if err != nil {
		if errors.Is(err, models.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidReference.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ride"})
		return
	}

	c.JSON(http.StatusCreated, ride)
}

func (s *Server) getRide(c *gin.Context) {
	id, ok := rideID(c)
	if !ok {
		return
	}

	ride, err := s.svc.Ride().GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get ride"})
		return
	}
	if ride == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
		return
	}

	c.JSON(http.StatusOK, ride)
}

func (s *Server) updateRide(c *gin.Context) {
	id, ok := rideID(c)
	if !ok {
		return
	}

	var in rideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ride, err := s.svc.Ride().Update(c.Request.Context(), in.toRide(id))
	if err != nil {
		if errors.Is(err, models.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidReference.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ride"})
		return
	}
	if ride == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
		return
	}

	c.JSON(http.StatusOK, ride)
}

func (s *Server) deleteRide(c *gin.Context) {
	id, ok := rideID(c)
	if !ok {
		return
	}

	deleted, err := s.svc.Ride().Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ride"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func rideID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
		return 0, false
	}
	return id, true
}

package models

import "errors"

// ErrInvalidReference is returned when a ride refers to a rider or driver
// that does not exist. Surfaced as a 400 at the HTTP boundary, not a 500.
var ErrInvalidReference = errors.New("rider or driver does not exist")

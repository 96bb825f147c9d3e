package triprequest

import (
	"errors"
	"time"
)

// Place is a named location. Coordinate order is canonical across the
// codebase: longitude first, latitude second, always as named fields.
type Place struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Address   string  `json:"address,omitempty"`
}

// TripRequest is a rider's ephemeral ride request. It lives only in the
// geo cache and expires 5 minutes after creation unless accepted or
// cancelled first.
type TripRequest struct {
	ID        string    `json:"id"`
	RiderID   string    `json:"rider_id"`
	Pickup    Place     `json:"pickup"`
	Dropoff   Place     `json:"dropoff"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is a nearby-query result. Distance is kilometers from the
// querying driver, as reported by the geo index.
type Match struct {
	TripRequest
	Distance float64 `json:"distance"`
}

// Validate checks that the request carries usable endpoints
func (r *TripRequest) Validate() error {
	if r.RiderID == "" {
		return ErrMissingRider
	}
	if !validCoordinate(r.Pickup) {
		return ErrInvalidPickup
	}
	if !validCoordinate(r.Dropoff) {
		return ErrInvalidDropoff
	}
	return nil
}

func validCoordinate(p Place) bool {
	return p.Longitude >= -180 && p.Longitude <= 180 &&
		p.Latitude >= -90 && p.Latitude <= 90 &&
		!(p.Longitude == 0 && p.Latitude == 0)
}

var (
	ErrNotFound       = errors.New("trip request not found")
	ErrMissingRider   = errors.New("trip request has no rider")
	ErrInvalidPickup  = errors.New("trip request has no valid pickup location")
	ErrInvalidDropoff = errors.New("trip request has no valid dropoff location")
)

package trip

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Location is a breadcrumb recorded along an active trip, used for route
// playback and dispute resolution. Rows are append-only.
type Location struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationPage is a paginated breadcrumb listing, oldest first
type LocationPage struct {
	Rows       []*Location `json:"rows"`
	Count      int         `json:"count"`
	PageNumber int         `json:"page"`
	TotalPages int         `json:"total"`
}

// LocationRepository defines trip breadcrumb access
type LocationRepository interface {
	Append(ctx context.Context, loc *Location) error
	ListByTrip(ctx context.Context, tripID uuid.UUID, page, limit int) (*LocationPage, error)
}

package dto

// RegisterRequest registers a new rider or driver
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	UserType string `json:"user_type" binding:"required,oneof=RIDER DRIVER"`
}

// LoginRequest authenticates a rider or driver
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateLocationRequest reports a driver's current position. Range tags
// instead of required: zero is a legal coordinate on either axis.
type UpdateLocationRequest struct {
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// CreateVehicleRequest registers a vehicle for the calling driver
type CreateVehicleRequest struct {
	VehicleType string `json:"vehicle_type" binding:"required,oneof=economy premium luxury"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Color       string `json:"color"`
}

// PlaceRequest is one endpoint of a requested trip. Coordinates are
// explicit named fields, longitude first. Zero on a single axis is a
// legal coordinate, so only the ranges are enforced here.
type PlaceRequest struct {
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Address   string  `json:"address"`
}

// CreateTripRequestRequest creates an ephemeral trip request
type CreateTripRequestRequest struct {
	Pickup  PlaceRequest `json:"pickup" binding:"required"`
	Dropoff PlaceRequest `json:"dropoff" binding:"required"`
}

// AcceptTripRequest is a driver accepting a trip request
type AcceptTripRequest struct {
	TripRequestID string `json:"trip_request_id" binding:"required"`
	VehicleID     string `json:"vehicle_id" binding:"required,uuid"`
}

// CreatePaymentRequest settles a completed trip
type CreatePaymentRequest struct {
	TripID string  `json:"trip_id" binding:"required,uuid"`
	Amount float64 `json:"amount" binding:"required"`
}

// CreatePricingConfigRequest creates a time-windowed pricing config
type CreatePricingConfigRequest struct {
	BaseFare        float64 `json:"base_fare" binding:"required"`
	PerKMRate       float64 `json:"per_km_rate" binding:"required"`
	PerMinuteRate   float64 `json:"per_minute_rate"`
	BookingFee      float64 `json:"booking_fee"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	EffectiveFrom   string  `json:"effective_from" binding:"required"`
	EffectiveTo     string  `json:"effective_to" binding:"required"`
}

// CreateRatingRequest rates a user after a trip
type CreateRatingRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// UpdateRatingRequest rewrites an existing rating
type UpdateRatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// TripLocationRequest appends a breadcrumb to an active trip
type TripLocationRequest struct {
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

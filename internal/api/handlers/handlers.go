package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithilesh-08/ride-hailing/internal/config"
	"github.com/mithilesh-08/ride-hailing/internal/domain/driver"
	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	"github.com/mithilesh-08/ride-hailing/internal/domain/vehicle"
	paymentsvc "github.com/mithilesh-08/ride-hailing/internal/service/payment"
	pricingsvc "github.com/mithilesh-08/ride-hailing/internal/service/pricing"
	ratingsvc "github.com/mithilesh-08/ride-hailing/internal/service/rating"
	tripsvc "github.com/mithilesh-08/ride-hailing/internal/service/trip"
	triprequestsvc "github.com/mithilesh-08/ride-hailing/internal/service/triprequest"
	usersvc "github.com/mithilesh-08/ride-hailing/internal/service/user"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/mithilesh-08/ride-hailing/pkg/monitoring"
	"github.com/mithilesh-08/ride-hailing/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Users        *usersvc.Service
	Trips        *tripsvc.Service
	TripRequests *triprequestsvc.Store
	Payments     *paymentsvc.Service
	Ratings      *ratingsvc.Service
	Estimator    *pricingsvc.Estimator

	Locations     driver.LocationRepository
	Vehicles      vehicle.Repository
	Pricing       pricing.Repository
	TripLocations trip.LocationRepository

	Hub        *websocket.Hub
	Logger     *logger.Logger
	Monitoring *monitoring.NewRelicApp

	TripRequestCfg config.TripRequestConfig
	SearchCfg      config.SearchConfig
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	users *usersvc.Service,
	trips *tripsvc.Service,
	tripRequests *triprequestsvc.Store,
	payments *paymentsvc.Service,
	ratings *ratingsvc.Service,
	estimator *pricingsvc.Estimator,
	locations driver.LocationRepository,
	vehicles vehicle.Repository,
	pricingRepo pricing.Repository,
	tripLocations trip.LocationRepository,
	hub *websocket.Hub,
	log *logger.Logger,
	nr *monitoring.NewRelicApp,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Users:          users,
		Trips:          trips,
		TripRequests:   tripRequests,
		Payments:       payments,
		Ratings:        ratings,
		Estimator:      estimator,
		Locations:      locations,
		Vehicles:       vehicles,
		Pricing:        pricingRepo,
		TripLocations:  tripLocations,
		Hub:            hub,
		Logger:         log,
		Monitoring:     nr,
		TripRequestCfg: cfg.TripRequest,
		SearchCfg:      cfg.Search,
	}
}

// respondError translates an error into the uniform error envelope.
// AppErrors keep their status and code; anything else becomes a 500.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			logger.Err(err),
			logger.String("path", c.FullPath()),
		)
	}
	c.JSON(appErr.Status, gin.H{"code": appErr.Code, "message": appErr.Message})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	triprequestsvc "github.com/mithilesh-08/ride-hailing/internal/service/triprequest"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/mithilesh-08/ride-hailing/pkg/websocket"
)

// CreateTripRequest handles POST /v1/trip-requests
func (h *Handlers) CreateTripRequest(c *gin.Context) {
	riderID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	var req dto.CreateTripRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	tr := &triprequest.TripRequest{
		RiderID: riderID.String(),
		Pickup: triprequest.Place{
			Longitude: req.Pickup.Longitude,
			Latitude:  req.Pickup.Latitude,
			Address:   req.Pickup.Address,
		},
		Dropoff: triprequest.Place{
			Longitude: req.Dropoff.Longitude,
			Latitude:  req.Dropoff.Latitude,
			Address:   req.Dropoff.Address,
		},
	}

	stored, err := h.TripRequests.Create(c.Request.Context(), tr)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Monitoring.RecordTripRequestStored()

	// Estimate is advisory; the authoritative fare is computed again at
	// acceptance time.
	var estimate interface{}
	if est, err := h.Estimator.Estimate(c.Request.Context(), stored.Pickup, stored.Dropoff); err == nil {
		estimate = est
	} else {
		h.Logger.Warn("Fare estimate unavailable for new trip request",
			logger.String("trip_request_id", stored.ID), logger.Err(err))
	}

	h.Hub.BroadcastToType("DRIVER", websocket.Message{
		Type: "trip_request_created",
		Data: gin.H{
			"trip_request": stored,
			"estimate":     estimate,
		},
	})

	h.Logger.Info("Trip request created",
		logger.String("trip_request_id", stored.ID),
		logger.String("rider_id", stored.RiderID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"trip_request": stored,
		"estimate":     estimate,
		"expires_in":   int(h.TripRequestCfg.TTL.Seconds()),
	})
}

// NearbyTripRequests handles GET /v1/trip-requests/nearby
func (h *Handlers) NearbyTripRequests(c *gin.Context) {
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid or missing longitude", err))
		return
	}
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid or missing latitude", err))
		return
	}

	radiusKm := h.TripRequestCfg.DefaultRadius
	if raw := c.Query("radius_km"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil || radiusKm <= 0 {
			h.respondError(c, apperrors.BadRequest("Invalid radius_km", err))
			return
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.TripRequestCfg.DefaultLimit)))

	matches, err := h.TripRequests.Nearby(c.Request.Context(), lon, lat, radiusKm, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip_requests": matches, "count": len(matches)})
}

// GetTripRequest handles GET /v1/trip-requests/:id
func (h *Handlers) GetTripRequest(c *gin.Context) {
	tr, err := h.TripRequests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if triprequestsvc.IsNotFound(err) {
			h.respondError(c, apperrors.ErrTripRequestNotFound)
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tr)
}

// CancelTripRequest handles DELETE /v1/trip-requests/:id
func (h *Handlers) CancelTripRequest(c *gin.Context) {
	id := c.Param("id")
	removed := h.TripRequests.Delete(c.Request.Context(), id)

	h.Logger.Info("Trip request cancelled",
		logger.String("trip_request_id", id),
		logger.Bool("removed", removed),
	)

	c.JSON(http.StatusOK, gin.H{"cancelled": removed})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	tripsvc "github.com/mithilesh-08/ride-hailing/internal/service/trip"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/websocket"
)

// AcceptTrip handles POST /v1/trips/accept
func (h *Handlers) AcceptTrip(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	var req dto.AcceptTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid vehicle id", err))
		return
	}

	t, err := h.Trips.Accept(c.Request.Context(), tripsvc.AcceptInput{
		TripRequestID: req.TripRequestID,
		DriverID:      driverID,
		VehicleID:     vehicleID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Monitoring.RecordTripAccepted(t.Fare)

	h.Hub.SendToUser(t.RiderID.String(), websocket.Message{
		Type: "trip_accepted",
		Data: t,
	})

	c.JSON(http.StatusCreated, t)
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *Handlers) CompleteTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	t, err := h.Trips.Complete(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Hub.SendToUser(t.RiderID.String(), websocket.Message{
		Type: "trip_completed",
		Data: t,
	})

	c.JSON(http.StatusOK, t)
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *Handlers) CancelTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	t, err := h.Trips.Cancel(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Hub.SendToUser(t.DriverID.String(), websocket.Message{
		Type: "trip_cancelled",
		Data: t,
	})

	c.JSON(http.StatusOK, t)
}

// GetTrip handles GET /v1/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	t, err := h.Trips.Get(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// ListTrips handles GET /v1/trips
func (h *Handlers) ListTrips(c *gin.Context) {
	var f trip.Filter
	if raw := c.Query("rider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondError(c, apperrors.BadRequest("Invalid rider_id", err))
			return
		}
		f.RiderID = &id
	}
	if raw := c.Query("driver_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondError(c, apperrors.BadRequest("Invalid driver_id", err))
			return
		}
		f.DriverID = &id
	}
	if raw := c.Query("status"); raw != "" {
		s := trip.Status(raw)
		if !s.IsValid() {
			h.respondError(c, apperrors.BadRequest("Invalid status", nil))
			return
		}
		f.Status = &s
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.Trips.List(c.Request.Context(), f, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

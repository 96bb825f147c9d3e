package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/domain/trip"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
)

// RecordTripLocation handles POST /v1/trips/:id/locations. Only the
// trip's driver may append breadcrumbs, and only while the trip is
// still in progress.
func (h *Handlers) RecordTripLocation(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	var req dto.TripLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	t, err := h.Trips.Get(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if t.DriverID != driverID {
		h.respondError(c, apperrors.Forbidden("Trip belongs to another driver", nil))
		return
	}
	if t.Status != trip.StatusAccepted {
		h.respondError(c, apperrors.Conflict("Trip is not in progress", nil))
		return
	}

	loc := &trip.Location{
		TripID:    tripID,
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	}
	if err := h.TripLocations.Append(c.Request.Context(), loc); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, loc)
}

// ListTripLocations handles GET /v1/trips/:id/locations
func (h *Handlers) ListTripLocations(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.SearchCfg.DefaultPageSize)))

	result, err := h.TripLocations.ListByTrip(c.Request.Context(), tripID, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/domain/driver"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// UpdateDriverLocation handles PUT /v1/drivers/location
func (h *Handlers) UpdateDriverLocation(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}
	if req.Longitude < -180 || req.Longitude > 180 || req.Latitude < -90 || req.Latitude > 90 {
		h.respondError(c, apperrors.BadRequest("Coordinates out of range", apperrors.ErrInvalidCoordinates))
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	loc := &driver.Location{
		DriverID:    driverID,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		IsAvailable: available,
	}
	if err := h.Locations.Upsert(c.Request.Context(), loc); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Debug("Driver location updated",
		logger.String("driver_id", driverID.String()),
		logger.Float64("longitude", req.Longitude),
		logger.Float64("latitude", req.Latitude),
	)

	c.JSON(http.StatusOK, loc)
}

// NearbyDrivers handles GET /v1/drivers/nearby
func (h *Handlers) NearbyDrivers(c *gin.Context) {
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

	radiusKm := h.SearchCfg.DefaultRadiusKM
	if raw := c.Query("radius_km"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil || radiusKm <= 0 {
			h.respondError(c, apperrors.BadRequest("Invalid radius_km", err))
			return
		}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.SearchCfg.DefaultPageSize)))

	start := time.Now()
	result, err := h.Locations.FindWithinRadius(c.Request.Context(), lon, lat, radiusKm, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Monitoring.RecordNearbyQueryLatency(float64(time.Since(start).Milliseconds()))

	c.JSON(http.StatusOK, result)
}

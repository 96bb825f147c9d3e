package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	"github.com/mithilesh-08/ride-hailing/internal/domain/vehicle"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// CreateVehicle handles POST /v1/vehicles
func (h *Handlers) CreateVehicle(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	v := &vehicle.Vehicle{
		ID:          uuid.New(),
		DriverID:    driverID,
		VehicleType: vehicle.Type(req.VehicleType),
		PlateNumber: req.PlateNumber,
		Model:       req.Model,
		Color:       req.Color,
	}
	if err := h.Vehicles.Create(c.Request.Context(), v); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Vehicle registered",
		logger.String("vehicle_id", v.ID.String()),
		logger.String("driver_id", driverID.String()),
	)

	c.JSON(http.StatusCreated, v)
}

// ListVehicles handles GET /v1/vehicles
func (h *Handlers) ListVehicles(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	vehicles, err := h.Vehicles.ListByDriver(c.Request.Context(), driverID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

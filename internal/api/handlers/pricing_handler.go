package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/domain/pricing"
	"github.com/mithilesh-08/ride-hailing/internal/domain/triprequest"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// CreatePricingConfig handles POST /v1/pricing-configs
func (h *Handlers) CreatePricingConfig(c *gin.Context) {
	var req dto.CreatePricingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	from, err := time.Parse(time.RFC3339, req.EffectiveFrom)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("effective_from must be RFC3339", err))
		return
	}
	to, err := time.Parse(time.RFC3339, req.EffectiveTo)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("effective_to must be RFC3339", err))
		return
	}
	if !to.After(from) {
		h.respondError(c, apperrors.BadRequest("effective_to must be after effective_from", nil))
		return
	}

	cfg := &pricing.Config{
		ID:              uuid.New(),
		BaseFare:        req.BaseFare,
		PerKMRate:       req.PerKMRate,
		PerMinuteRate:   req.PerMinuteRate,
		BookingFee:      req.BookingFee,
		SurgeMultiplier: req.SurgeMultiplier,
		EffectiveFrom:   from,
		EffectiveTo:     to,
	}
	if err := h.Pricing.Create(c.Request.Context(), cfg); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Pricing config created",
		logger.String("config_id", cfg.ID.String()),
		logger.Float64("base_fare", cfg.BaseFare),
		logger.Float64("per_km_rate", cfg.PerKMRate),
	)

	c.JSON(http.StatusCreated, cfg)
}

// ListPricingConfigs handles GET /v1/pricing-configs
func (h *Handlers) ListPricingConfigs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	configs, err := h.Pricing.List(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricing_configs": configs})
}

// EstimateFare handles GET /v1/fares/estimate
func (h *Handlers) EstimateFare(c *gin.Context) {
	pickup, err := parsePlace(c, "pickup")
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid pickup coordinates", err))
		return
	}
	dropoff, err := parsePlace(c, "dropoff")
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid dropoff coordinates", err))
		return
	}

	est, err := h.Estimator.Estimate(c.Request.Context(), pickup, dropoff)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, est)
}

// parsePlace reads <prefix>_longitude and <prefix>_latitude query params
func parsePlace(c *gin.Context, prefix string) (triprequest.Place, error) {
	lon, err := strconv.ParseFloat(c.Query(prefix+"_longitude"), 64)
	if err != nil {
		return triprequest.Place{}, err
	}
	lat, err := strconv.ParseFloat(c.Query(prefix+"_latitude"), 64)
	if err != nil {
		return triprequest.Place{}, err
	}
	return triprequest.Place{Longitude: lon, Latitude: lat}, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	paymentsvc "github.com/mithilesh-08/ride-hailing/internal/service/payment"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

// CreatePayment handles POST /v1/payments. Retries with the same
// Idempotency-Key header return the original payment.
func (h *Handlers) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	p, err := h.Payments.Create(c.Request.Context(), paymentsvc.CreateInput{
		TripID:         tripID,
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Payment recorded",
		logger.String("payment_id", p.ID.String()),
		logger.String("trip_id", tripID.String()),
		logger.Float64("amount", p.Amount),
	)

	c.JSON(http.StatusCreated, p)
}

// GetPayment handles GET /v1/payments/:id
func (h *Handlers) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid payment id", err))
		return
	}

	p, err := h.Payments.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListTripPayments handles GET /v1/trips/:id/payments
func (h *Handlers) ListTripPayments(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid trip id", err))
		return
	}

	payments, err := h.Payments.ListByTrip(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

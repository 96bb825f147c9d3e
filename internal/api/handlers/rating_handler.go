package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/api/middleware"
	ratingsvc "github.com/mithilesh-08/ride-hailing/internal/service/rating"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
)

// CreateRating handles POST /v1/ratings
func (h *Handlers) CreateRating(c *gin.Context) {
	raterID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}

	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid user id", err))
		return
	}

	rt, err := h.Ratings.Create(c.Request.Context(), ratingsvc.CreateInput{
		UserID:  userID,
		RaterID: raterID,
		Score:   req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rt)
}

// UpdateRating handles PUT /v1/ratings/:id
func (h *Handlers) UpdateRating(c *gin.Context) {
	raterID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid rating id", err))
		return
	}

	var req dto.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	rt, err := h.Ratings.Update(c.Request.Context(), id, raterID, req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rt)
}

// DeleteRating handles DELETE /v1/ratings/:id
func (h *Handlers) DeleteRating(c *gin.Context) {
	raterID, ok := middleware.CallerID(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Missing caller identity", nil))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid rating id", err))
		return
	}

	if err := h.Ratings.Delete(c.Request.Context(), id, raterID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListUserRatings handles GET /v1/users/:id/ratings
func (h *Handlers) ListUserRatings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid user id", err))
		return
	}

	summary, err := h.Ratings.SummaryFor(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

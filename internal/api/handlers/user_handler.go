package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
	usersvc "github.com/mithilesh-08/ride-hailing/internal/service/user"
	apperrors "github.com/mithilesh-08/ride-hailing/pkg/errors"
)

// Register handles POST /v1/users/register
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	u, err := h.Users.Register(c.Request.Context(), usersvc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		UserType: user.Type(req.UserType),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// Login handles POST /v1/users/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid request payload", err))
		return
	}

	result, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser handles GET /v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Invalid user id", err))
		return
	}

	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// ListUsers handles GET /v1/users
func (h *Handlers) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.Users.List(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

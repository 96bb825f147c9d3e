package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mithilesh-08/ride-hailing/internal/api/dto"
	"github.com/mithilesh-08/ride-hailing/internal/auth"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
)

const (
	// ContextUserID is the gin context key holding the caller's user id.
	ContextUserID = "user_id"
	// ContextUserType is the gin context key holding the caller's user type.
	ContextUserType = "user_type"
)

// Authenticate validates the Bearer token and stores the caller's
// identity in the request context.
func Authenticate(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)
		c.Next()
	}
}

// RequireUserType restricts a route to callers of the given type.
func RequireUserType(t user.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := c.Get(ContextUserType)
		if !ok || got.(user.Type) != t {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller's user id from the context.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CallerType returns the authenticated caller's user type from the context.
func CallerType(c *gin.Context) (user.Type, bool) {
	v, ok := c.Get(ContextUserType)
	if !ok {
		return "", false
	}
	t, ok := v.(user.Type)
	return t, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    "UNAUTHORIZED",
		Message: msg,
	})
}

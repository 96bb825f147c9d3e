package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mithilesh-08/ride-hailing/internal/domain/user"
)

// TokenIssuer issues and verifies signed bearer tokens
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// Claims carries the authenticated caller's identity
type Claims struct {
	UserID   uuid.UUID
	UserType user.Type
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue creates a signed token for the user. Returns the token and its
// lifetime in seconds.
func (i *TokenIssuer) Issue(u *user.User) (string, int64, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       u.ID.String(),
		"user_type": string(u.UserType),
		"iat":       now.Unix(),
		"exp":       now.Add(i.expiry).Unix(),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int64(i.expiry.Seconds()), nil
}

// Verify parses and validates a token, returning the caller's identity
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("token has no subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a valid id: %w", err)
	}

	userType, ok := claims["user_type"].(string)
	if !ok {
		return nil, fmt.Errorf("token has no user type")
	}

	return &Claims{
		UserID:   userID,
		UserType: user.Type(userType),
	}, nil
}

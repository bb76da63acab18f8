package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT custom claims. UserID is filled from the subject.
type Claims struct {
	UserID uuid.UUID `json:"-"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

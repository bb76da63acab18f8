package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	UserIDKey    = "user_id"
	AccountIDKey = "account_id"
	MemberKey    = "member"
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// MemberLookup resolves the account membership of a verified user
type MemberLookup interface {
	GetMember(ctx context.Context, userID uuid.UUID) (*entities.AccountMember, error)
}

// EchoAuth verifies the bearer token and sets "user_id" (uuid.UUID),
// "account_id" (uuid.UUID) and "member" (*entities.AccountMember)
func EchoAuth(tokens TokenVerifier, members MemberLookup, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			member, err := members.GetMember(c.Request().Context(), claims.UserID)
			if err != nil {
				if logger != nil {
					logger.Error("Failed to resolve account member", zap.String("user_id", claims.UserID.String()), zap.Error(err))
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve account")
			}
			if member == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User is not a member of any account")
			}

			c.Set(UserIDKey, member.UserID)
			c.Set(AccountIDKey, member.AccountID)
			c.Set(MemberKey, member)

			return next(c)
		}
	}
}

// UserID returns the authenticated user id
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}

// AccountID returns the authenticated user's account id
func AccountID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(AccountIDKey).(uuid.UUID)
	return id, ok
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return ""
}

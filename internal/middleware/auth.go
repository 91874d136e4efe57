package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
)

type contextKey string

const (
	// APITokenIDKey is the context key for the API token ID
	APITokenIDKey contextKey = "api_token_id"
	// IsAdminKeyAuthKey is the context key indicating bootstrap admin key authentication
	IsAdminKeyAuthKey contextKey = "is_admin_key_auth"
)

// TokenPrefix is the prefix carried by every issued API token
const TokenPrefix = "chit_"

// APITokenValidator provides API token validation
type APITokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.APIToken, error)
}

// AuthMiddleware authenticates requests with either the bootstrap admin key
// from configuration or a stored API token
type AuthMiddleware struct {
	adminAPIKey string
	validator   APITokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(adminAPIKey string, validator APITokenValidator) *AuthMiddleware {
	return &AuthMiddleware{adminAPIKey: adminAPIKey, validator: validator}
}

// Authenticate returns an Echo middleware that validates credentials
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			token := parts[1]

			// Bootstrap admin key from configuration
			if subtle.ConstantTimeCompare([]byte(token), []byte(m.adminAPIKey)) == 1 {
				ctx := context.WithValue(c.Request().Context(), IsAdminKeyAuthKey, true)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}

			// Stored API tokens carry the chit_ prefix
			if !strings.HasPrefix(token, TokenPrefix) {
				return unauthorizedError(c, "Invalid token format")
			}

			apiToken, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				if err == domain.ErrAPITokenNotFound {
					log.Debug().Msg("API token not found or revoked")
					return unauthorizedError(c, "Invalid or expired API token")
				}
				log.Error().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Token validation failed")
			}

			ctx := context.WithValue(c.Request().Context(), APITokenIDKey, apiToken.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			log.Debug().
				Str("token_id", apiToken.ID.String()).
				Msg("API token authentication successful")

			return next(c)
		}
	}
}

// GetAPITokenID extracts the API token ID from the context
func GetAPITokenID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(APITokenIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// IsAdminKeyAuth checks if the request was authenticated via the bootstrap admin key
func IsAdminKeyAuth(c echo.Context) bool {
	if isAdmin, ok := c.Request().Context().Value(IsAdminKeyAuthKey).(bool); ok {
		return isAdmin
	}
	return false
}

func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"type":   "https://chit.vasantham.in/errors/unauthorized",
		"title":  "Unauthorized",
		"status": http.StatusUnauthorized,
		"detail": detail,
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/middleware"
	"github.com/vasantham/chit-backend/internal/service"
)

// APITokenHandler handles API token management HTTP requests
type APITokenHandler struct {
	tokenService *service.APITokenService
}

// NewAPITokenHandler creates a new APITokenHandler
func NewAPITokenHandler(tokenService *service.APITokenService) *APITokenHandler {
	return &APITokenHandler{tokenService: tokenService}
}

// CreateTokenRequest represents the create token request body
type CreateTokenRequest struct {
	Description string `json:"description"`
}

// CreateToken handles POST /api/v1/tokens.
// Token management requires the bootstrap admin key, tokens cannot mint tokens
func (h *APITokenHandler) CreateToken(c echo.Context) error {
	if !middleware.IsAdminKeyAuth(c) {
		return NewUnauthorizedError(c, "Token management requires the admin key")
	}

	var req CreateTokenRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Description == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}

	resp, err := h.tokenService.Create(c.Request().Context(), req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrTooManyAPITokens) {
			return NewConflictError(c, "Token limit reached, revoke an existing token first")
		}
		log.Error().Err(err).Msg("Failed to create API token")
		return NewInternalError(c, "Failed to create API token")
	}

	return c.JSON(http.StatusCreated, resp)
}

// ListTokens handles GET /api/v1/tokens
func (h *APITokenHandler) ListTokens(c echo.Context) error {
	if !middleware.IsAdminKeyAuth(c) {
		return NewUnauthorizedError(c, "Token management requires the admin key")
	}

	tokens, err := h.tokenService.GetAll(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API tokens")
		return NewInternalError(c, "Failed to list API tokens")
	}

	return c.JSON(http.StatusOK, tokens)
}

// RevokeToken handles DELETE /api/v1/tokens/:id
func (h *APITokenHandler) RevokeToken(c echo.Context) error {
	if !middleware.IsAdminKeyAuth(c) {
		return NewUnauthorizedError(c, "Token management requires the admin key")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid token ID", nil)
	}

	if err := h.tokenService.Revoke(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrAPITokenNotFound) {
			return NewNotFoundError(c, "Token not found")
		}
		log.Error().Err(err).Str("token_id", id.String()).Msg("Failed to revoke API token")
		return NewInternalError(c, "Failed to revoke API token")
	}

	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/websocket"
)

// TokenValidator validates stored API tokens for WebSocket auth
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.APIToken, error)
}

// EventsHandler handles WebSocket connections for dashboard events
type EventsHandler struct {
	hub            *websocket.Hub
	adminAPIKey    string
	validator      TokenValidator
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(hub *websocket.Hub, adminAPIKey string, validator TokenValidator, allowedOrigins []string) *EventsHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &EventsHandler{
		hub:            hub,
		adminAPIKey:    adminAPIKey,
		validator:      validator,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *EventsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleEvents handles WebSocket connection requests at GET /api/v1/events.
// Browsers cannot set an Authorization header on a WebSocket, so the
// credential arrives as a query parameter
func (h *EventsHandler) HandleEvents(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminAPIKey)) != 1 {
		if !strings.HasPrefix(token, "chit_") {
			log.Debug().Msg("WebSocket connection rejected: invalid token format")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if _, err := h.validator.ValidateToken(c.Request().Context(), token); err != nil {
			log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}

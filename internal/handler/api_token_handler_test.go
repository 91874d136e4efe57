package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/middleware"
	"github.com/vasantham/chit-backend/internal/service"
	"github.com/vasantham/chit-backend/internal/testutil"
)

func tokenHandlerFixture() *APITokenHandler {
	repo := testutil.NewMockAPITokenRepository()
	svc := service.NewAPITokenService(repo)
	return NewAPITokenHandler(svc)
}

func adminContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	ctx := context.WithValue(req.Context(), middleware.IsAdminKeyAuthKey, true)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestCreateTokenHandler_AdminOnly(t *testing.T) {
	e := echo.New()
	h := tokenHandlerFixture()

	body := `{"description":"reporting"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no admin flag, e.g. API token auth

	if err := h.CreateToken(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateTokenHandler_ReturnsTokenOnce(t *testing.T) {
	e := echo.New()
	h := tokenHandlerFixture()

	body := `{"description":"reporting"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := adminContext(e, req, rec)

	if err := h.CreateToken(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.CreateAPITokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !strings.HasPrefix(resp.Token, "chit_") {
		t.Errorf("Expected chit_ token, got %s", resp.Token)
	}
}

func TestListTokensHandler_OmitsHashes(t *testing.T) {
	e := echo.New()
	h := tokenHandlerFixture()

	// Create one token first
	body := `{"description":"reporting"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateToken(adminContext(e, req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tokens", nil)
	rec = httptest.NewRecorder()
	if err := h.ListTokens(adminContext(e, req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "tokenHash") {
		t.Error("Token hashes must never appear in responses")
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/vasantham/chit-backend/internal/domain"
)

type mockTokenValidator struct {
	token *domain.APIToken
	err   error
}

func (m *mockTokenValidator) ValidateToken(ctx context.Context, token string) (*domain.APIToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func runAuth(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	err := m.Authenticate()(func(c echo.Context) error {
		handlerCalled = true
		return c.String(http.StatusOK, "OK")
	})(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return rec, handlerCalled
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{err: domain.ErrAPITokenNotFound})

	rec, called := runAuth(t, m, "")
	if called {
		t.Error("Handler should not be called without authorization")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{err: domain.ErrAPITokenNotFound})

	rec, called := runAuth(t, m, "Token abc")
	if called {
		t.Error("Handler should not be called for malformed header")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_AdminKey(t *testing.T) {
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{err: domain.ErrAPITokenNotFound})

	rec, called := runAuth(t, m, "Bearer admin-secret")
	if !called {
		t.Error("Handler should be called with the admin key")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidAPIToken(t *testing.T) {
	tokenID := uuid.New()
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{
		token: &domain.APIToken{ID: tokenID, TokenPrefix: "chit_abc1"},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer chit_abc123def456")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uuid.UUID
	var wasAdmin bool
	err := m.Authenticate()(func(c echo.Context) error {
		gotID = GetAPITokenID(c)
		wasAdmin = IsAdminKeyAuth(c)
		return c.String(http.StatusOK, "OK")
	})(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if gotID != tokenID {
		t.Errorf("Expected token ID %s in context, got %s", tokenID, gotID)
	}
	if wasAdmin {
		t.Error("API token auth should not be flagged as admin key auth")
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{err: domain.ErrAPITokenNotFound})

	rec, called := runAuth(t, m, "Bearer chit_revokedtoken")
	if called {
		t.Error("Handler should not be called for revoked tokens")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongPrefix(t *testing.T) {
	m := NewAuthMiddleware("admin-secret", &mockTokenValidator{
		token: &domain.APIToken{ID: uuid.New()},
	})

	rec, called := runAuth(t, m, "Bearer sk_someothertoken")
	if called {
		t.Error("Handler should not be called for tokens without the chit_ prefix")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

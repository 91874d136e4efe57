package service

import (
	"context"
	"strings"
	"testing"

	"github.com/vasantham/chit-backend/internal/domain"
	"github.com/vasantham/chit-backend/internal/testutil"
)

func TestCreateAPIToken_ReturnsFullTokenOnce(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	resp, err := svc.Create(context.Background(), "dashboard import")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(resp.Token, "chit_") {
		t.Errorf("Expected chit_ prefix, got %s", resp.Token)
	}
	if !strings.HasPrefix(resp.TokenPrefix, "chit_") || !strings.HasSuffix(resp.TokenPrefix, "...") {
		t.Errorf("Expected truncated display prefix, got %s", resp.TokenPrefix)
	}

	// Only the hash is stored
	stored, _ := repo.GetAll(context.Background())
	if len(stored) != 1 {
		t.Fatalf("Expected 1 stored token, got %d", len(stored))
	}
	if stored[0].TokenHash == resp.Token {
		t.Error("The raw token must never be stored")
	}
	if stored[0].TokenHash != HashToken(resp.Token) {
		t.Error("Stored hash must match the issued token")
	}
}

func TestCreateAPIToken_EnforcesLimit(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	for i := 0; i < maxTokens; i++ {
		if _, err := svc.Create(context.Background(), "t"); err != nil {
			t.Fatalf("Token %d: expected no error, got %v", i+1, err)
		}
	}

	_, err := svc.Create(context.Background(), "one too many")
	if err != domain.ErrTooManyAPITokens {
		t.Errorf("Expected ErrTooManyAPITokens, got %v", err)
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	resp, err := svc.Create(context.Background(), "dashboard import")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	validated, err := svc.ValidateToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if validated.ID != resp.ID {
		t.Errorf("Expected token %s, got %s", resp.ID, validated.ID)
	}
	if validated.LastUsedAt == nil {
		t.Error("Expected last used timestamp to be set")
	}
}

func TestValidateToken_RejectsRevoked(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	resp, err := svc.Create(context.Background(), "dashboard import")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.Revoke(context.Background(), resp.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	if err != domain.ErrAPITokenNotFound {
		t.Errorf("Expected ErrAPITokenNotFound, got %v", err)
	}
}

func TestValidateToken_UnknownToken(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	_, err := svc.ValidateToken(context.Background(), "chit_neverissued")
	if err != domain.ErrAPITokenNotFound {
		t.Errorf("Expected ErrAPITokenNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasantham/chit-backend/internal/domain"
)

const (
	// tokenPrefix is the prefix for all API tokens
	tokenPrefix = "chit_"
	// tokenRandomBytes is the number of random bytes for the token (32 bytes = 256 bits)
	tokenRandomBytes = 32
	// tokenPrefixLength is the length of the displayable prefix (e.g., "chit_abc...xyz")
	tokenPrefixLength = 8
	// maxTokens is the maximum number of active tokens
	maxTokens = 10
)

// APITokenService handles API token business logic
type APITokenService struct {
	repo domain.APITokenRepository
}

// NewAPITokenService creates a new APITokenService
func NewAPITokenService(repo domain.APITokenRepository) *APITokenService {
	return &APITokenService{repo: repo}
}

// Create creates a new API token and returns the full token (shown only once)
func (s *APITokenService) Create(ctx context.Context, description string) (*domain.CreateAPITokenResponse, error) {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, t := range existing {
		if t.RevokedAt == nil {
			active++
		}
	}
	if active >= maxTokens {
		return nil, domain.ErrTooManyAPITokens
	}

	// Generate secure random token
	rawToken, err := generateSecureToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate secure token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	fullToken := tokenPrefix + rawToken

	// Only the hash is stored
	hash := HashToken(fullToken)

	// Extract displayable prefix (first 8 chars after chit_)
	displayPrefix := tokenPrefix + rawToken[:tokenPrefixLength] + "..."

	token := &domain.APIToken{
		Description: description,
		TokenHash:   hash,
		TokenPrefix: displayPrefix,
	}

	if err := s.repo.Create(ctx, token); err != nil {
		log.Error().Err(err).Msg("Failed to create API token")
		return nil, err
	}

	log.Info().
		Str("token_id", token.ID.String()).
		Str("description", description).
		Msg("API token created")

	return &domain.CreateAPITokenResponse{
		ID:          token.ID,
		Description: description,
		TokenPrefix: displayPrefix,
		Token:       fullToken,
		CreatedAt:   token.CreatedAt,
		Warning:     "Make sure to copy your API token now. You won't be able to see it again!",
	}, nil
}

// GetAll retrieves every API token, hashes excluded by the domain type
func (s *APITokenService) GetAll(ctx context.Context) ([]*domain.APIToken, error) {
	tokens, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get API tokens")
		return nil, err
	}
	return tokens, nil
}

// Revoke revokes an API token
func (s *APITokenService) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, tokenID); err != nil {
		log.Error().Err(err).
			Str("token_id", tokenID.String()).
			Msg("Failed to revoke API token")
		return err
	}

	log.Info().
		Str("token_id", tokenID.String()).
		Msg("API token revoked")

	return nil
}

// ValidateToken validates a full token string and returns the stored token.
// Used by the auth middleware
func (s *APITokenService) ValidateToken(ctx context.Context, token string) (*domain.APIToken, error) {
	hash := HashToken(token)

	stored, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	// Best effort; validation succeeds even if the timestamp write fails
	if err := s.repo.UpdateLastUsed(ctx, stored.ID); err != nil {
		log.Warn().Err(err).Str("token_id", stored.ID.String()).Msg("Failed to update token last used")
	}

	return stored, nil
}

// generateSecureToken generates a cryptographically secure random token string
func generateSecureToken() (string, error) {
	bytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashToken returns the base64-encoded SHA-256 hash of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

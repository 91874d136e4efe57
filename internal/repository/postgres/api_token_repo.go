package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasantham/chit-backend/internal/domain"
)

// APITokenRepository implements domain.APITokenRepository using PostgreSQL
type APITokenRepository struct {
	pool *pgxpool.Pool
}

// NewAPITokenRepository creates a new APITokenRepository
func NewAPITokenRepository(pool *pgxpool.Pool) *APITokenRepository {
	return &APITokenRepository{pool: pool}
}

// Create inserts a new API token
func (r *APITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO api_tokens (id, description, token_hash, token_prefix)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`,
		token.Description, token.TokenHash, token.TokenPrefix).
		Scan(&token.ID, &token.CreatedAt)
}

// GetAll retrieves all non-revoked API tokens
func (r *APITokenRepository) GetAll(ctx context.Context) ([]*domain.APIToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, token_hash, token_prefix, last_used_at, created_at, revoked_at
		FROM api_tokens
		WHERE revoked_at IS NULL
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []*domain.APIToken{}
	for rows.Next() {
		var t domain.APIToken
		if err := rows.Scan(&t.ID, &t.Description, &t.TokenHash, &t.TokenPrefix,
			&t.LastUsedAt, &t.CreatedAt, &t.RevokedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, &t)
	}
	return tokens, rows.Err()
}

// GetByHash retrieves a non-revoked token by its hash
func (r *APITokenRepository) GetByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	var t domain.APIToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, description, token_hash, token_prefix, last_used_at, created_at, revoked_at
		FROM api_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`, hash).
		Scan(&t.ID, &t.Description, &t.TokenHash, &t.TokenPrefix,
			&t.LastUsedAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAPITokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Revoke marks a token as revoked
func (r *APITokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE api_tokens SET revoked_at = now()
		WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAPITokenNotFound
	}
	return nil
}

// UpdateLastUsed records token usage
func (r *APITokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE api_tokens SET last_used_at = now() WHERE id = $1`, id)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists admin refresh tokens by their SHA-256 hash.
type TokenRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db, Now: time.Now} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp.UTC())
	return err
}

// ValidateRefresh returns the owner of an active token, or ErrInvalidRefresh
// when the token is unknown, revoked or expired.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidRefresh
	}
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || !r.Now().UTC().Before(expiresAt) {
		return 0, ErrInvalidRefresh
	}
	return userID, nil
}

// RevokeByHash marks one token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		r.Now().UTC(), tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE user_id=? AND revoked_at IS NULL",
		r.Now().UTC(), userID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// TokenRepo persists the three token families used by the accounts flow:
// activation tokens, password-reset tokens and refresh tokens. All three
// tables store only SHA-256 hashes of the raw token.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// ----- activation tokens -----

// StoreActivation inserts an activation token hash row.
func (r *TokenRepo) StoreActivation(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO activation_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// GetActivationByEmail looks up the activation token that matches both the
// user's email and the token hash. sql.ErrNoRows means invalid token.
func (r *TokenRepo) GetActivationByEmail(ctx context.Context, email, tokenHash string) (model.ActivationToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var t model.ActivationToken
	err := r.DB.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.token_hash, t.expires_at
		 FROM activation_tokens t JOIN users u ON u.id = t.user_id
		 WHERE u.email=? AND t.token_hash=? LIMIT 1`,
		email, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt)
	return t, err
}

// DeleteActivation removes one activation token row by id.
func (r *TokenRepo) DeleteActivation(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM activation_tokens WHERE id=?", id)
	return err
}

// ----- password reset tokens -----

// ReplaceReset invalidates every outstanding reset token for the user and
// stores a fresh one, inside one transaction so a crash cannot leave the
// user with zero usable tokens after the old ones were dropped.
func (r *TokenRepo) ReplaceReset(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE user_id=?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp); err != nil {
		return err
	}
	return tx.Commit()
}

// GetResetForUser returns the user's current reset token, if any.
func (r *TokenRepo) GetResetForUser(ctx context.Context, userID uint64) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at FROM password_reset_tokens WHERE user_id=? LIMIT 1",
		userID).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt)
	return t, err
}

// DeleteReset removes one reset token row by id.
func (r *TokenRepo) DeleteReset(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE id=?", id)
	return err
}

// ----- refresh tokens -----

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns userID if a non-revoked, non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid {
		return 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

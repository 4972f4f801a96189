package model

import "time"

// ActivationToken mirrors the `activation_tokens` table. Only a SHA‑256
// hash of the raw token is stored; the raw value is mailed to the user.
type ActivationToken struct {
    ID        uint64    // activation_tokens.id
    UserID    uint64    // activation_tokens.user_id
    TokenHash string    // activation_tokens.token_hash
    ExpiresAt time.Time // activation_tokens.expires_at
}

// PasswordResetToken mirrors the `password_reset_tokens` table.
type PasswordResetToken struct {
    ID        uint64    // password_reset_tokens.id
    UserID    uint64    // password_reset_tokens.user_id
    TokenHash string    // password_reset_tokens.token_hash
    ExpiresAt time.Time // password_reset_tokens.expires_at
}

package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA‑256 hashing for opaque tokens
    "encoding/hex"  // hex encoding and decoding functions
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short‑lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// OpaqueToken is a random token handed to the client in raw form while
// only its SHA‑256 hash is persisted.  It backs refresh tokens as well
// as the activation and password‑reset tokens delivered by email.
type OpaqueToken struct {
    Raw string    // raw token string returned to the client / mailed out
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's group name, and a TTL in
// minutes.  The JWT carries standard claims: subject (sub), group,
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, userID uint64, group string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":   userID,
        "group": group,
        "exp":   exp.Unix(),
        "iat":   time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewOpaqueToken returns a cryptographically secure random token (raw)
// valid for the given duration.  The caller stores HashTokenRaw(t.Raw)
// and hands the raw value to the client or mails it to the user.
func NewOpaqueToken(ttl time.Duration) (OpaqueToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return OpaqueToken{}, err
    }
    return OpaqueToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(ttl),
    }, nil
}

// HashTokenRaw returns the SHA‑256 hash of a raw opaque token as a hex
// string.  Storing only the hash prevents attackers from using stolen
// database entries to refresh sessions or activate accounts.
func HashTokenRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

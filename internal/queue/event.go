// Package queue defines message payloads exchanged over the message broker.
package queue

// Email kinds carried by AccountEmailEvent.
const (
    EmailActivation    = "activation"
    EmailPasswordReset = "password_reset"
)

// AccountEmailEvent is published whenever the accounts flow needs an email
// delivered: after registration (activation link) and after a password
// reset request (reset link). The consumer owns the actual delivery; the
// web layer only publishes.
type AccountEmailEvent struct {
    Kind   string `json:"kind"`    // activation | password_reset
    Email  string `json:"email"`   // recipient address
    Link   string `json:"link"`    // the full URL carrying the raw token
    SentAt string `json:"sent_at"` // RFC3339 publish time
}

package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrInvalidCredential indicates that a presented credential is missing,
// malformed, expired, or otherwise unverifiable. Connections presenting such
// credentials are rejected and closed before any event is dispatched.
var ErrInvalidCredential = errors.New("credential is invalid or expired")

// Identity is the verified result of credential verification. It is derived
// exactly once at connection time and is the only source of user identity
// and role for the lifetime of the connection - identity fields arriving in
// later event payloads are never trusted.
type Identity struct {
	UserID kernel.UUID
	Role   kernel.Role
}

// TokenVerifier verifies a presented credential and derives the caller's
// identity. Token issuance is an external collaborator; the core only
// consumes verification.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Package authjwt verifies HMAC-signed JWT credentials issued by the
// identity service and derives the connection identity from their claims.
package authjwt

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier implements ports.TokenVerifier for HS256 tokens.
// The identity service signs tokens with a shared secret; this side only
// verifies. Any parsing, signature, expiry, or claim problem maps to
// ports.ErrInvalidCredential so the gateway has a single rejection path.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with the given secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// claims is the expected token payload. Subject carries the user ID.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token and derives the caller's identity.
func (v *Verifier) Verify(_ context.Context, token string) (ports.Identity, error) {
	var parsed claims

	_, err := jwt.ParseWithClaims(token, &parsed, v.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", ports.ErrInvalidCredential, err)
	}

	userID, err := kernel.UUIDFromString(parsed.Subject)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: bad subject", ports.ErrInvalidCredential)
	}

	role, err := kernel.RoleFromString(parsed.Role)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: bad role", ports.ErrInvalidCredential)
	}

	return ports.Identity{UserID: userID, Role: role}, nil
}

func (v *Verifier) key(token *jwt.Token) (interface{}, error) {
	return v.secret, nil
}

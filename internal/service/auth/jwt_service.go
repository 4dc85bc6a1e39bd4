package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for issuing and validating the signed,
// time-limited tokens used for authentication. Tokens are stateless:
// validity is purely a function of signature and expiry, with no server-side
// revocation list.
type JWTService interface {
	// GenerateAccessToken creates a signed, short-lived access token for
	// the given user.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a signed, long-lived refresh token for
	// the given user. Refresh tokens may only be exchanged for new token
	// pairs, never used to authenticate a request.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateAccessToken verifies the signature, expiry and type of an
	// access token and returns its claims. Returns ErrExpiredToken,
	// ErrWrongTokenType or ErrInvalidToken on failure.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies the signature, expiry and type of a
	// refresh token and returns its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports how long newly issued access tokens live,
	// so handlers can surface the expiry to clients.
	AccessTokenLifetime() time.Duration
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID uuid.UUID

	// TokenType is "access" or "refresh".
	TokenType string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

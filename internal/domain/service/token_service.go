package service

import (
	"errors"

	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim. Each validator enforces its own kind,
// so an access token can never pass for a refresh token or vice versa.
const (
	TokenTypeAccess       = "access"
	TokenTypeRefresh      = "refresh"
	TokenTypeVerification = "verification"
)

// Sentinel validation failures. Callers distinguish an elapsed lifetime from a
// token that never was valid (bad signature, wrong structure, wrong kind).
var (
	// ErrTokenExpired is returned when a structurally valid token has passed its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for malformed tokens, bad signatures and kind mismatches.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the decoded payload of an issued token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Type   string
}

// TokenService defines the interface for generating and validating signed tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID, email string) (accessToken string, refreshToken string, err error)

	// GenerateAccessToken creates only a new access token, used by the stateless refresh flow.
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)

	// GenerateVerificationToken creates a single-purpose email verification token
	// bound to the user id, with a fixed one hour lifetime.
	GenerateVerificationToken(userID uuid.UUID) (string, error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// ValidateVerificationToken checks a verification token and returns the bound user id.
	ValidateVerificationToken(tokenString string) (uuid.UUID, error)
}

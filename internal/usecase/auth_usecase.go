// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"leadway/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// VerifyEmailInput carries the verification token extracted from the mailed link.
type VerifyEmailInput struct {
	Token string
}

// SigninInput defines the data required for a user to sign in.
type SigninInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
// No tokens are issued at signup; the account stays locked until verification.
type SignupOutput struct {
	User *entity.User
}

// VerifyEmailOutput returns the verified user's display data for confirmation rendering.
type VerifyEmailOutput struct {
	User *entity.User
}

// SigninOutput returns the generated tokens after a successful sign-in.
type SigninOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the freshly minted access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) (*VerifyEmailOutput, error)
	Signin(ctx context.Context, input *SigninInput) (*SigninOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
}

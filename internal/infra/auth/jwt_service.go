// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leadway/config"
	"leadway/internal/domain/service"
	"leadway/internal/errors"
)

const (
	defaultAccessTTL  = time.Minute * 15
	defaultRefreshTTL = time.Hour * 24 * 7

	// Verification links are deliberately short-lived and not configurable.
	verificationTTL = time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens. Also signs verification tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// NewJWTService is the constructor for jwtService.
// Missing secrets are a deployment misconfiguration, so it fails fatally at wire time.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL := defaultAccessTTL
	refreshTTL := defaultRefreshTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// GenerateTokens creates a new access token and refresh token for a given user.
func (s *jwtService) GenerateTokens(userID uuid.UUID, email string) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(userID, email, s.accessTTL, s.accessSecret, service.TokenTypeAccess)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(userID, email, s.refreshTTL, s.refreshSecret, service.TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken creates only a new access token, for the stateless refresh flow.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generateToken(userID, email, s.accessTTL, s.accessSecret, service.TokenTypeAccess)
}

// GenerateVerificationToken creates the single-purpose email verification token.
// It reuses the access secret and carries only the user id.
func (s *jwtService) GenerateVerificationToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, "", verificationTTL, s.accessSecret, service.TokenTypeVerification)
}

// ValidateAccessToken checks an access token and returns its claims.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, service.TokenTypeAccess)
}

// ValidateRefreshToken checks a refresh token and returns its claims.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, service.TokenTypeRefresh)
}

// ValidateVerificationToken checks a verification token and returns the bound user id.
func (s *jwtService) ValidateVerificationToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.validateToken(tokenString, s.accessSecret, service.TokenTypeVerification)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, email string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),         // Subject (who the token is for)
		"iat":  now.Unix(),              // Issued At
		"exp":  now.Add(ttl).Unix(),     // Expiration Time
		"type": tokenType,               // Kind of token (access, refresh, verification)
	}
	// Verification tokens carry only the subject.
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// validateToken checks signature, expiry and kind, mapping jwt library failures
// onto the two domain sentinels so callers can message expired vs malformed.
func (s *jwtService) validateToken(tokenString, secret, wantType string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(service.ErrTokenExpired, "token validation failed")
		}

		return nil, errors.Wrap(service.ErrTokenInvalid, "token validation failed")
	}
	if !token.Valid {
		return nil, errors.Wrap(service.ErrTokenInvalid, "token validation failed")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(service.ErrTokenInvalid, "unexpected claims structure")
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType != wantType {
		return nil, errors.Wrapf(service.ErrTokenInvalid, "token type %q does not match expected %q", tokenType, wantType)
	}

	sub, _ := mapClaims["sub"].(string)
	userID, parseErr := uuid.Parse(sub)
	if parseErr != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "invalid subject claim")
	}

	email, _ := mapClaims["email"].(string)

	return &service.Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
	}, nil
}

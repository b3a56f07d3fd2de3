// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"leadway/config"
	"leadway/internal/domain/service"
	"leadway/internal/errors"
)

// Fallback strength rules when passwordStrength is absent from config.
const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordLength = 72 // bcrypt input limit
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		strength = cfg.PasswordStrength
	}
	if strength == nil {
		strength = &config.PasswordStrengthConfig{
			MinLength:        defaultMinPasswordLength,
			RequireUppercase: true,
			RequireNumbers:   true,
		}
	}

	return &bcryptHasher{
		cost:     cost,
		strength: strength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), errors.WithStack(err)
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against every configured rule and
// reports all violations at once, so a client can fix them in a single round trip.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	rules := h.strength

	minLength := rules.MinLength
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	maxLength := rules.MaxLength
	if maxLength <= 0 {
		maxLength = defaultMaxPasswordLength
	}

	var violations []string

	if len(password) < minLength {
		violations = append(violations, errors.Errorf("must be at least %d characters", minLength).Error())
	}
	if len(password) > maxLength {
		violations = append(violations, errors.Errorf("must be at most %d characters", maxLength).Error())
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if rules.RequireUppercase && !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if rules.RequireLowercase && !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if rules.RequireNumbers && !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if rules.RequireSpecial && !hasSpecial {
		violations = append(violations, "must contain a special character")
	}

	if len(violations) > 0 {
		return errors.Errorf("password %s", strings.Join(violations, "; "))
	}

	return nil
}

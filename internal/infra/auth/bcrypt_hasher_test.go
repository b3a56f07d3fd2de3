package auth

import (
	"testing"

	"leadway/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasherConfig(cost int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: cost,
		},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			RequireUppercase: true,
			RequireNumbers:   true,
		},
	}
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig(bcrypt.MinCost))

	password := "Passw0rd!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_Hash_FreshSaltPerCall(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig(bcrypt.MinCost))

	password := "Passw0rd!"
	first, err := hasher.Hash(password)
	assert.NoError(t, err)
	second, err := hasher.Hash(password)
	assert.NoError(t, err)

	// bcrypt embeds a fresh random salt, so equal inputs hash differently.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check(password, first))
	assert.True(t, hasher.Check(password, second))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig(bcrypt.MinCost))
	password := "Passw0rd!"

	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongPassw0rd!", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_WithConfiguredCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasher(newTestHasherConfig(customCost))

	hash, err := hasher.Hash("Passw0rd!")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig(bcrypt.MinCost))

	validPasswords := []string{
		"Passw0rd!",
		"MySecurePass1",
		"Complex9Secret",
	}

	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"Sh0rt", "must be at least 8 characters"},
		{"passw0rdnolower", "must contain an uppercase letter"},
		{"PasswordNoDigit", "must contain a digit"},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr, "Error message should contain: %s", tc.expectedErr)
	}
}

func TestBcryptHasher_ValidatePasswordStrength_CollectsAllViolations(t *testing.T) {
	hasher := NewBcryptHasher(newTestHasherConfig(bcrypt.MinCost))

	// A short password without uppercase or digits violates three rules at once;
	// all of them must be reported in one pass.
	err := hasher.ValidatePasswordStrength("abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 8 characters")
	assert.Contains(t, err.Error(), "must contain an uppercase letter")
	assert.Contains(t, err.Error(), "must contain a digit")
}

func TestBcryptHasher_ValidatePasswordStrength_DefaultsWithoutConfig(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	// Defaults require length, uppercase and digit.
	assert.Error(t, hasher.ValidatePasswordStrength("short"))
	assert.Error(t, hasher.ValidatePasswordStrength("nouppercase1"))
	assert.Error(t, hasher.ValidatePasswordStrength("NoDigitsHere"))
	assert.NoError(t, hasher.ValidatePasswordStrength("Passw0rd!"))
}

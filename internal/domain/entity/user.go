// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single registered account.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	FullName     string    // The user's display name, required at signup.
	Email        string    // The login identifier. Globally unique, stored exactly as given (no case normalization).
	PasswordHash string    // The bcrypt hash of the password. Never the plaintext, never serialized.
	Verified     bool      // Whether the user has proven ownership of the email. Only ever flips false -> true.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

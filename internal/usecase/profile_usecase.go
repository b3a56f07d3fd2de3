// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"leadway/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// GetProfile loads the user behind an authorized access token.
	// Token authorization alone is not enough; the id must still resolve in the store.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

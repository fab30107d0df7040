package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// UserReader defines read operations for user data.
// Every finder returns apperrors.ErrNotFound when no user matches.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail looks up a user by normalized email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername looks up a user by exact username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByGoogleID looks up a user linked to a Google account.
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A taken email, username or Google id
	// yields apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateLastLogin stamps a successful sign-in.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

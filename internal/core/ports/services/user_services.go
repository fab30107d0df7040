package services

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Register creates a password account. Duplicate email or username is
	// reported with a message naming which one is taken.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// UpdateProfile changes username, email or password for userID.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	// Every failure returns apperrors.ErrInvalidCredentials.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a Google profile to an account,
	// linking or creating one as needed.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

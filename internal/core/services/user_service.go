package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/google/uuid"
)

const (
	msgEmailTaken         = "Email already registered"
	msgUsernameTaken      = "Username already taken"
	usernameSuffixLength  = 4
	usernameSuffixRetries = 20
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a user service backed by userRepo.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// hashPassword reports passwords over bcrypt's 72-byte limit as a field error.
func hashPassword(password, field, message string) (string, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return "", apperrors.NewValidationFailedError([]apperrors.FieldError{{Field: field, Message: message}})
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

// ensureEmailFree returns a duplicate error when email belongs to a user other than exceptID.
func (s *userService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.UserID != exceptID:
		return apperrors.NewDuplicateError(msgEmailTaken)
	}
	return nil
}

func (s *userService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check username: %w", err)
	case existing.UserID != exceptID:
		return apperrors.NewDuplicateError(msgUsernameTaken)
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password, "password", "Password cannot exceed 72 characters")
	if err != nil {
		return nil, err
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !user.HasPassword() {
		utils.BurnPasswordCheck(password)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.LogWarn(ctx, "Login attempt for deactivated account", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
	} else {
		user.LastLogin = &now
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != "" && username != user.Username {
			if err := s.ensureUsernameFree(ctx, username, user.UserID); err != nil {
				return nil, err
			}
			user.Username = username
			changed = true
		}
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != "" && email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.UserID); err != nil {
				return nil, err
			}
			user.Email = email
			changed = true
		}
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		if user.HasPassword() {
			if req.CurrentPassword == nil || *req.CurrentPassword == "" {
				return nil, apperrors.NewBadRequestError("Current password is required")
			}
			if !utils.CheckPasswordHash(*req.CurrentPassword, *user.PasswordHash) {
				return nil, apperrors.NewUnauthorizedError("Current password is incorrect")
			}
		}
		hash, err := hashPassword(*req.NewPassword, "newPassword", "New password cannot exceed 72 characters")
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
		changed = true
	}

	if !changed {
		return user, nil
	}

	if !user.HasCredential() {
		return nil, apperrors.NewBadRequestError("Account must keep a password or a linked Google account")
	}
	user.UpdatedAt = s.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.LogInfo(ctx, "Profile updated", slog.String("user_id", user.UserID))
	return user, nil
}

func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.ID == "" {
		return nil, apperrors.NewBadRequestError("Google profile has no id")
	}
	email := normalizeEmail(info.Email)
	now := s.Now()

	user, err := s.userRepo.FindUserByGoogleID(ctx, info.ID)
	if err == nil {
		if !user.IsActive {
			return nil, apperrors.NewForbiddenError("Account is deactivated.")
		}
		if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err != nil {
			s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
		} else {
			user.LastLogin = &now
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	if email != "" {
		user, err = s.userRepo.FindUserByEmail(ctx, email)
		if err == nil {
			if !user.IsActive {
				return nil, apperrors.NewForbiddenError("Account is deactivated.")
			}
			googleID := info.ID
			user.GoogleID = &googleID
			user.LastLogin = &now
			user.UpdatedAt = now
			if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
			s.LogInfo(ctx, "Linked Google account to existing user", slog.String("user_id", user.UserID))
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
	}

	return s.createGoogleUser(ctx, info, email)
}

func (s *userService) createGoogleUser(ctx context.Context, info domain.GoogleUserInfo, email string) (*domain.User, error) {
	source := info.Name
	if strings.TrimSpace(source) == "" {
		source, _, _ = strings.Cut(email, "@")
	}
	username, err := s.uniqueUsername(ctx, source)
	if err != nil {
		return nil, err
	}

	// Google accounts get an unusable random password so every row has a hash.
	placeholder, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(placeholder)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	now := s.Now()
	googleID := info.ID
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		GoogleID:     &googleID,
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}

	s.LogInfo(ctx, "Created user from Google sign-in", slog.String("user_id", user.UserID))
	return &user, nil
}

// uniqueUsername slugifies source and appends random suffixes until a free
// username is found.
func (s *userService) uniqueUsername(ctx context.Context, source string) (string, error) {
	base := utils.SlugifyUsername(source)

	free, err := s.usernameAvailable(ctx, base)
	if err != nil {
		return "", err
	}
	if free {
		return base, nil
	}

	for i := 0; i < usernameSuffixRetries; i++ {
		suffix, err := utils.GenerateRandomBase36(usernameSuffixLength)
		if err != nil {
			return "", err
		}
		candidate := base + "_" + suffix
		free, err := s.usernameAvailable(ctx, candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return utils.FallbackUsername(s.Now()), nil
}

func (s *userService) usernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return false, nil
}

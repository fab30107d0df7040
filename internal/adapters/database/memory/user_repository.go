// Package memory holds process-local repositories used for local development
// (DB_DRIVER=memory) and handler-level tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

func (r *UserRepository) findBy(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.UserID == userID })
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findBy(func(u domain.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

// checkUnique must be called with the write lock held.
func (r *UserRepository) checkUnique(user domain.User) error {
	for id, u := range r.users {
		if id == user.UserID {
			continue
		}
		switch {
		case u.Email == user.Email:
			return apperrors.NewDuplicateError("Email already registered")
		case u.Username == user.Username:
			return apperrors.NewDuplicateError("Username already taken")
		case user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID:
			return apperrors.NewDuplicateError("Google account already linked")
		}
	}
	return nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.UserID]; exists {
		return apperrors.NewDuplicateError("User already exists")
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.UserID] = user
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.UserID]; !exists {
		return apperrors.ErrNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.UserID] = user
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, exists := r.users[userID]
	if !exists {
		return apperrors.ErrNotFound
	}
	u.LastLogin = &at
	r.users[userID] = u
	return nil
}

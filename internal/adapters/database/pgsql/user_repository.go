package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"github.com/SscSPs/auradeploy/internal/models"
	"github.com/SscSPs/auradeploy/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.username, u.email, u.password_hash, u.role, u.google_id,
	u.is_active, u.last_login, u.created_at, u.updated_at
FROM users u
`

// duplicateUserError turns a unique violation into the message clients expect.
func duplicateUserError(constraint string) error {
	switch constraint {
	case "uq_users_email":
		return apperrors.NewDuplicateError("Email already registered")
	case "uq_users_username":
		return apperrors.NewDuplicateError("Username already taken")
	case "uq_users_google_id":
		return apperrors.NewDuplicateError("Google account already linked")
	default:
		return apperrors.NewDuplicateError("User already exists")
	}
}

func (r *PgxUserRepository) getUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, FULL_USER_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUser, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	user := mapping.ToDomainUser(modelUser)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.email = $1`, email)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.username = $1`, username)
}

func (r *PgxUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.google_id = $1`, googleID)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, username, email, password_hash, role, google_id,
			is_active, last_login, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.GoogleID,
		m.IsActive,
		m.LastLogin,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateUserError(constraint)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, role = $4, google_id = $5,
			is_active = $6, last_login = $7, updated_at = $8
		WHERE user_id = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.GoogleID,
		m.IsActive,
		m.LastLogin,
		m.UpdatedAt,
		m.UserID,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateUserError(constraint)
		}
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE user_id = $2;`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

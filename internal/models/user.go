package models

import "time"

// User is the row shape of the users table.
type User struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash *string    `db:"password_hash"`
	Role         string     `db:"role"`
	GoogleID     *string    `db:"google_id"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

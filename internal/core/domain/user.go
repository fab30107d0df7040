package domain

import "time"

// UserRole is the authorization role attached to an account.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an AuraDeploy account in the domain.
type User struct {
	UserID       string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash *string    `json:"-"` // nil for accounts that only sign in with Google
	Role         UserRole   `json:"role"`
	GoogleID     *string    `json:"-"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasPassword reports whether a password hash is on file.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasCredential reports whether the account can sign in at all.
func (u User) HasCredential() bool {
	return u.HasPassword() || (u.GoogleID != nil && *u.GoogleID != "")
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GoogleUserInfo is the subset of the Google profile used to sign users in.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

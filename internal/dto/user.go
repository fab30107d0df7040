package dto

import (
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest defines the data allowed for updating a profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProfileRequest struct {
	Username        *string `json:"username,omitempty" binding:"omitempty,min=3,max=30,username"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty" binding:"omitempty,min=6,max=72"`
}

// UserResponse is the public view of an account. It never carries the password hash.
type UserResponse struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	Role         domain.UserRole `json:"role"`
	IsActive     bool            `json:"isActive"`
	GoogleLinked bool            `json:"googleLinked"`
	HasPassword  bool            `json:"hasPassword"`
	LastLogin    *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its public view.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		IsActive:     user.IsActive,
		GoogleLinked: user.GoogleID != nil && *user.GoogleID != "",
		HasPassword:  user.HasPassword(),
		LastLogin:    user.LastLogin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ProfileResponse wraps the user for the profile endpoints.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// DashboardUser is the account summary shown on the dashboard.
type DashboardUser struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        domain.UserRole `json:"role"`
	MemberSince time.Time       `json:"memberSince"`
}

// DashboardResponse is the body of GET /api/auth/dashboard.
type DashboardResponse struct {
	User  DashboardUser      `json:"user"`
	Stats domain.ServerStats `json:"stats"`
}

// ToDashboardResponse combines the account and its fleet stats.
func ToDashboardResponse(user *domain.User, stats domain.ServerStats) DashboardResponse {
	return DashboardResponse{
		User: DashboardUser{
			ID:          user.UserID,
			Username:    user.Username,
			Email:       user.Email,
			Role:        user.Role,
			MemberSince: user.CreatedAt,
		},
		Stats: stats,
	}
}

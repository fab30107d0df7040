package dto

import "github.com/SscSPs/auradeploy/internal/apperrors"

// APIResponse is the success envelope shared by the first-party API.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the failure envelope shared by the first-party API.
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// AuthResponse represents the response for a successful login or registration.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

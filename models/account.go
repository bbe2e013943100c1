package models

import "time"

// Account is a back-office user record as reported by the upstream API.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// SignupInput is the payload for registering a new account.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ProfileUpdateInput is the payload for updating an account profile.
type ProfileUpdateInput struct {
	Username string `json:"username" validate:"omitempty,min=2,max=60"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// PasswordChangeInput is the payload for changing an account password.
type PasswordChangeInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// PasswordResetRequestInput starts the forgot-password flow.
type PasswordResetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetInput completes the forgot-password flow.
type PasswordResetInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

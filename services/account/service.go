// Package account exposes account management operations, proxied to the
// upstream API.
package account

import (
	"context"
	"strings"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// Directory is the slice of the upstream client this service needs.
type Directory interface {
	Signup(ctx context.Context, input models.SignupInput) error
	UpdateProfile(ctx context.Context, token, email string, input models.ProfileUpdateInput) error
	ChangePassword(ctx context.Context, token, email string, input models.PasswordChangeInput) error
	DeleteUser(ctx context.Context, token, email string) error
	ListUsers(ctx context.Context, token string) ([]models.Account, error)
	GetUserByEmail(ctx context.Context, token, email string) (*models.Account, error)
	ForgotPassword(ctx context.Context, input models.PasswordResetRequestInput) error
	ResetPassword(ctx context.Context, input models.PasswordResetInput) error
}

// Service implements user account management.
type Service struct {
	directory Directory
	logger    *zap.Logger
}

// NewService creates a new account service.
func NewService(directory Directory, logger *zap.Logger) *Service {
	return &Service{
		directory: directory,
		logger:    logger,
	}
}

// Signup registers a new account. Unauthenticated.
func (s *Service) Signup(ctx context.Context, input models.SignupInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.directory.Signup(ctx, input)
}

// UpdateProfile updates the profile of the account identified by email.
func (s *Service) UpdateProfile(ctx context.Context, token, email string, input models.ProfileUpdateInput) error {
	if err := utils.ValidateEmail(email); err != nil {
		return services.ErrInvalidEmail
	}
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.directory.UpdateProfile(ctx, token, email, input)
}

// ChangePassword changes the password of the account identified by email.
func (s *Service) ChangePassword(ctx context.Context, token, email string, input models.PasswordChangeInput) error {
	if err := utils.ValidateEmail(email); err != nil {
		return services.ErrInvalidEmail
	}
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.directory.ChangePassword(ctx, token, email, input)
}

// Delete removes the account identified by email.
func (s *Service) Delete(ctx context.Context, token, email string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return services.ErrInvalidEmail
	}
	return s.directory.DeleteUser(ctx, token, email)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context, token string) ([]models.Account, error) {
	return s.directory.ListUsers(ctx, token)
}

// GetByEmail returns one account by email.
func (s *Service) GetByEmail(ctx context.Context, token, email string) (*models.Account, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, services.ErrInvalidEmail
	}
	return s.directory.GetUserByEmail(ctx, token, email)
}

// ForgotPassword starts the password reset flow. Unauthenticated.
func (s *Service) ForgotPassword(ctx context.Context, input models.PasswordResetRequestInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.directory.ForgotPassword(ctx, input)
}

// ResetPassword completes the password reset flow. Unauthenticated.
func (s *Service) ResetPassword(ctx context.Context, input models.PasswordResetInput) error {
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.directory.ResetPassword(ctx, input)
}

func validationError(err error) error {
	domainErr := services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)
	for field, msg := range utils.GetValidationFields(err) {
		domainErr.WithDetail(field, msg)
	}
	return domainErr
}

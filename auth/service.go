package auth

import (
	"context"
	"strings"

	"github.com/lumosdigital/backoffice/services"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// Credentials is a transient sign-in payload. It is never persisted.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpstreamAuthenticator posts credentials to the upstream authentication
// endpoint and returns the raw response body.
type UpstreamAuthenticator interface {
	Login(ctx context.Context, email, password string) ([]byte, error)
}

// Service authenticates credentials against the upstream API and produces
// a NormalizedUser. Each attempt is independent: no caching, no
// memoization, one upstream call per invocation.
type Service struct {
	client UpstreamAuthenticator
	logger *zap.Logger
}

// NewService creates a new authentication service.
func NewService(client UpstreamAuthenticator, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Authenticate validates the credentials, calls the upstream
// authentication endpoint, and normalizes whatever shape it returns.
// Validation failures never reach the network.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (NormalizedUser, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	if creds.Email == "" || creds.Password == "" {
		return NormalizedUser{}, services.ErrMissingCredentials
	}
	if err := utils.ValidateEmail(creds.Email); err != nil {
		return NormalizedUser{}, services.ErrInvalidEmail
	}

	body, err := s.client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("upstream authentication failed",
			zap.String("email", creds.Email),
			zap.Error(err))
		return NormalizedUser{}, err
	}

	user, err := Normalize(body, creds.Email)
	if err != nil {
		s.logger.Warn("could not normalize upstream login response",
			zap.String("email", creds.Email),
			zap.Error(err))
		return NormalizedUser{}, err
	}

	s.logger.Info("user authenticated",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role))

	return user, nil
}

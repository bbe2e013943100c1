// Package messages exposes contact-message intake and the admin inbox,
// proxied to the upstream API.
package messages

import (
	"context"
	"strings"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// Inbox is the slice of the upstream client this service needs.
type Inbox interface {
	SendMessage(ctx context.Context, input models.ContactInput) error
	ListMessages(ctx context.Context, token string) ([]models.Message, error)
	GetConversation(ctx context.Context, token, conversationID string) ([]models.Message, error)
	DeleteMessage(ctx context.Context, token, id string) error
}

// Service implements contact-message handling.
type Service struct {
	inbox  Inbox
	logger *zap.Logger
}

// NewService creates a new message service.
func NewService(inbox Inbox, logger *zap.Logger) *Service {
	return &Service{
		inbox:  inbox,
		logger: logger,
	}
}

// Send validates and submits a public contact-form message. Unauthenticated.
func (s *Service) Send(ctx context.Context, input models.ContactInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := utils.ValidateStruct(input); err != nil {
		return validationError(err)
	}
	return s.inbox.SendMessage(ctx, input)
}

// List returns all inbound messages, optionally filtered by a
// case-insensitive substring match on sender name, email, and body.
func (s *Service) List(ctx context.Context, token, query string) ([]models.Message, error) {
	items, err := s.inbox.ListMessages(ctx, token)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return items, nil
	}

	filtered := make([]models.Message, 0, len(items))
	for _, m := range items {
		if strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.Email), query) ||
			strings.Contains(strings.ToLower(m.Message), query) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Conversation returns the messages of one conversation.
func (s *Service) Conversation(ctx context.Context, token, conversationID string) ([]models.Message, error) {
	if conversationID == "" {
		return nil, services.WrapValidation("conversation id is required", nil)
	}
	return s.inbox.GetConversation(ctx, token, conversationID)
}

// Delete removes one message.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	if id == "" {
		return services.WrapValidation("message id is required", nil)
	}
	return s.inbox.DeleteMessage(ctx, token, id)
}

// BatchDelete removes the given messages one by one, continuing past
// individual failures.
func (s *Service) BatchDelete(ctx context.Context, token string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, services.WrapValidation("at least one message id is required", nil)
	}

	deleted := make([]string, 0, len(ids))
	failed := make([]string, 0)
	for _, id := range ids {
		if err := s.inbox.DeleteMessage(ctx, token, id); err != nil {
			s.logger.Warn("batch delete: message delete failed",
				zap.String("message_id", id),
				zap.Error(err))
			failed = append(failed, id)
			continue
		}
		deleted = append(deleted, id)
	}

	if len(failed) > 0 {
		err := services.NewDomainError(services.ErrorTypeUpstreamServer, "some messages could not be deleted", nil).
			WithDetail("failed", failed).
			WithDetail("deleted", deleted)
		return deleted, err
	}
	return deleted, nil
}

func validationError(err error) error {
	domainErr := services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)
	for field, msg := range utils.GetValidationFields(err) {
		domainErr.WithDetail(field, msg)
	}
	return domainErr
}

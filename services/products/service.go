// Package products exposes the admin product-catalog operations, proxied
// to the upstream API.
package products

import (
	"context"
	"strings"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// Catalog is the slice of the upstream client this service needs.
type Catalog interface {
	ListProducts(ctx context.Context, token string) ([]models.Product, error)
	GetProduct(ctx context.Context, token, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, input models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
}

// Service implements product catalog management for the admin screens.
type Service struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewService creates a new product service.
func NewService(catalog Catalog, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger,
	}
}

// List returns the catalog, optionally filtered by a case-insensitive
// substring match on title and content. The admin UI's debounced search
// maps onto the query parameter served here.
func (s *Service) List(ctx context.Context, token, query string) ([]models.Product, error) {
	items, err := s.catalog.ListProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return items, nil
	}

	filtered := make([]models.Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Content), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, token, id string) (*models.Product, error) {
	if id == "" {
		return nil, services.WrapValidation("product id is required", nil)
	}
	return s.catalog.GetProduct(ctx, token, id)
}

// Create validates and creates a product.
func (s *Service) Create(ctx context.Context, token string, input models.ProductInput) (*models.Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err)
	}
	return s.catalog.CreateProduct(ctx, token, input)
}

// Update validates and updates a product.
func (s *Service) Update(ctx context.Context, token, id string, input models.ProductInput) (*models.Product, error) {
	if id == "" {
		return nil, services.WrapValidation("product id is required", nil)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err)
	}
	return s.catalog.UpdateProduct(ctx, token, id, input)
}

// Delete removes one product.
func (s *Service) Delete(ctx context.Context, token, id string) error {
	if id == "" {
		return services.WrapValidation("product id is required", nil)
	}
	return s.catalog.DeleteProduct(ctx, token, id)
}

// BatchDelete removes the given products one by one, continuing past
// individual failures. Returns the ids that were deleted; when any id
// failed, the error carries the failed ids in its details.
func (s *Service) BatchDelete(ctx context.Context, token string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, services.WrapValidation("at least one product id is required", nil)
	}

	deleted := make([]string, 0, len(ids))
	failed := make([]string, 0)
	for _, id := range ids {
		if err := s.catalog.DeleteProduct(ctx, token, id); err != nil {
			s.logger.Warn("batch delete: product delete failed",
				zap.String("product_id", id),
				zap.Error(err))
			failed = append(failed, id)
			continue
		}
		deleted = append(deleted, id)
	}

	if len(failed) > 0 {
		err := services.NewDomainError(services.ErrorTypeUpstreamServer, "some products could not be deleted", nil).
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

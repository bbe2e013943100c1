package products

import (
	"context"
	"testing"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCatalog replays canned data and records delete calls.
type fakeCatalog struct {
	products   []models.Product
	listErr    error
	created    *models.ProductInput
	deleted    []string
	failDelete map[string]error
}

func (f *fakeCatalog) ListProducts(_ context.Context, _ string) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeCatalog) GetProduct(_ context.Context, _, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, services.NewDomainError(services.ErrorTypeNotFound, "product not found", nil)
}

func (f *fakeCatalog) CreateProduct(_ context.Context, _ string, input models.ProductInput) (*models.Product, error) {
	f.created = &input
	return &models.Product{ID: "new", Title: input.Title, Content: input.Content}, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, _, id string, input models.ProductInput) (*models.Product, error) {
	return &models.Product{ID: id, Title: input.Title, Content: input.Content}, nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, _, id string) error {
	if err, ok := f.failDelete[id]; ok {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: []models.Product{
			{ID: "1", Title: "Solar Panel", Content: "Rooftop installation kit"},
			{ID: "2", Title: "Battery Pack", Content: "Home energy storage"},
			{ID: "3", Title: "Inverter", Content: "Converts solar output"},
		},
	}
}

func TestListFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query returns everything", "", []string{"1", "2", "3"}},
		{"title match", "battery", []string{"2"}},
		{"content match", "solar", []string{"1", "3"}},
		{"case insensitive", "SOLAR", []string{"1", "3"}},
		{"surrounding whitespace ignored", "  inverter  ", []string{"3"}},
		{"no match", "windmill", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(sampleCatalog(), zap.NewNop())

			got, err := svc.List(context.Background(), "tok", tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCreateValidation(t *testing.T) {
	catalog := sampleCatalog()
	svc := NewService(catalog, zap.NewNop())

	_, err := svc.Create(context.Background(), "tok", models.ProductInput{Title: "No content"})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Nil(t, catalog.created, "invalid input never reaches the upstream")

	var domainErr *services.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "Content")
}

func TestCreateForwardsValidInput(t *testing.T) {
	catalog := sampleCatalog()
	svc := NewService(catalog, zap.NewNop())

	p, err := svc.Create(context.Background(), "tok", models.ProductInput{
		Title:   "Charge Controller",
		Content: "Regulates panel output",
	})
	require.NoError(t, err)
	assert.Equal(t, "Charge Controller", p.Title)
	require.NotNil(t, catalog.created)
}

func TestUpdateRequiresID(t *testing.T) {
	svc := NewService(sampleCatalog(), zap.NewNop())

	_, err := svc.Update(context.Background(), "tok", "", models.ProductInput{Title: "t", Content: "c"})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestBatchDelete(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		catalog := sampleCatalog()
		svc := NewService(catalog, zap.NewNop())

		deleted, err := svc.BatchDelete(context.Background(), "tok", []string{"1", "2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, deleted)
	})

	t.Run("continues past failures", func(t *testing.T) {
		catalog := sampleCatalog()
		catalog.failDelete = map[string]error{
			"2": services.NewDomainError(services.ErrorTypeUpstreamServer, "boom", nil),
		}
		svc := NewService(catalog, zap.NewNop())

		deleted, err := svc.BatchDelete(context.Background(), "tok", []string{"1", "2", "3"})
		require.Error(t, err)
		assert.Equal(t, []string{"1", "3"}, deleted, "the failure does not stop the rest")

		var domainErr *services.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, []string{"2"}, domainErr.Details["failed"])
	})

	t.Run("empty id list is a validation error", func(t *testing.T) {
		svc := NewService(sampleCatalog(), zap.NewNop())

		_, err := svc.BatchDelete(context.Background(), "tok", nil)
		require.Error(t, err)
		assert.True(t, services.IsValidationError(err))
	})
}

package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Create validates the payload and stores a new product. Validation
// failures reject before any storage write.
func (s *productService) Create(ctx context.Context, create *model.CreateProduct) (*model.Product, error) {
	if create.Name == "" {
		return nil, model.NewBadRequest("product name is required")
	}
	if create.Price < 0 {
		return nil, model.NewBadRequest("price must not be negative")
	}
	if create.Stock != nil && *create.Stock < 0 {
		return nil, model.NewBadRequest("stock must not be negative")
	}

	product, err := s.productRepo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("name", product.Name).Msg("product created")
	return product, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// List retrieves products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit != nil && *filter.Limit < 0 {
		return nil, model.NewBadRequest("limit must not be negative")
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		return nil, model.NewBadRequest("offset must not be negative")
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// Update validates the provided fields and applies a merge-update.
func (s *productService) Update(ctx context.Context, id uuid.UUID, update *model.UpdateProduct) (*model.Product, error) {
	if update.Name != nil && *update.Name == "" {
		return nil, model.NewBadRequest("product name must not be empty")
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, model.NewBadRequest("price must not be negative")
	}
	if update.Stock != nil && *update.Stock < 0 {
		return nil, model.NewBadRequest("stock must not be negative")
	}

	product, err := s.productRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// Create validates and stores a new product.
	Create(ctx context.Context, create *model.CreateProduct) (*model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Update validates and applies a merge-update.
	Update(ctx context.Context, id uuid.UUID, update *model.UpdateProduct) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService defines operations for user management and authentication.
type UserService interface {
	// Register validates, hashes the credential, and stores a new user.
	Register(ctx context.Context, create *model.CreateUser) (*model.User, error)

	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, login *model.LoginUser) (*model.AuthResponse, error)

	// GetByID retrieves a single user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// List retrieves users matching the filter.
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)

	// Update validates and applies a merge-update, re-hashing a provided
	// password.
	Update(ctx context.Context, id uuid.UUID, update *model.UpdateUser) (*model.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}

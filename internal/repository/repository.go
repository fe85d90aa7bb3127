package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// Create inserts a new product and returns the stored row.
	Create(ctx context.Context, create *model.CreateProduct) (*model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// List retrieves products matching the filter, ordered by name.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Update applies a merge-update inside a transaction. The current
	// row is read under a row-level lock, so concurrent updates to the
	// same product are serialized and no write is silently lost.
	Update(ctx context.Context, id uuid.UUID, update *model.UpdateProduct) (*model.Product, error)

	// Delete removes a product. Zero rows affected is a not-found error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserUpdate carries the optional fields of a user update. PasswordHash
// is already hashed by the caller; repositories never see plaintext.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user with an already-hashed credential.
	Create(ctx context.Context, username, email, passwordHash string) (*model.User, error)

	// GetByID retrieves a single user by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email, for login.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List retrieves users matching the filter, ordered by username.
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)

	// Update applies a merge-update inside a transaction under a
	// row-level lock, as for products.
	Update(ctx context.Context, id uuid.UUID, update *UserUpdate) (*model.User, error)

	// Delete removes a user. Zero rows affected is a not-found error.
	Delete(ctx context.Context, id uuid.UUID) error
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalogue.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int32     `json:"stock" db:"stock"`
	Category    *string   `json:"category" db:"category"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateProduct is the request payload for creating a product.
type CreateProduct struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Stock       *int32  `json:"stock"`
	Category    *string `json:"category"`
}

// UpdateProduct is the request payload for updating a product.
// Every field is optional: a nil field keeps the current value. Nullable
// columns (description, category) are cleared by sending an empty string.
type UpdateProduct struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int32   `json:"stock"`
	Category    *string  `json:"category"`
	IsActive    *bool    `json:"isActive"`
}

// ProductFilter narrows a product list query. Nil fields apply no
// constraint; Name is a case-insensitive substring match, Category an
// exact match, and the price bounds are inclusive.
type ProductFilter struct {
	Name     *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	IsActive *bool
	Limit    *int
	Offset   *int
}

package repository

import (
	"context"
	"errors"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const selectProductBase = `
	SELECT id, name, description, price, stock, category, is_active, created_at, updated_at
	FROM products`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// scanProduct scans a product row from any single-row source.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Category,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product and returns the stored row.
func (r *productRepository) Create(ctx context.Context, create *model.CreateProduct) (*model.Product, error) {
	query := `
		INSERT INTO products (name, description, price, stock, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price, stock, category, is_active, created_at, updated_at
	`

	stock := int32(0)
	if create.Stock != nil {
		stock = *create.Stock
	}

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		create.Name, create.Description, create.Price, stock, create.Category))
	if err != nil {
		r.logger.Error().Err(err).Str("name", create.Name).Msg("failed to insert product")
		return nil, model.MapDBError(err)
	}

	r.logger.Debug().Str("product_id", product.ID.String()).Msg("product created")
	return product, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := scanProduct(r.pool.QueryRow(ctx, selectProductBase+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, model.NewNotFound("product with id %s not found", id)
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, model.MapDBError(err)
	}
	return product, nil
}

// List retrieves products matching the filter. Predicates are applied in
// a fixed order and results are sorted by name so pagination is stable.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query, args := newQueryBuilder(selectProductBase).
		whereContains("name", filter.Name).
		whereEqual("category", filter.Category).
		whereMin("price", filter.MinPrice).
		whereMax("price", filter.MaxPrice).
		whereEqualBool("is_active", filter.IsActive).
		withOrderBy("name").
		withLimit(filter.Limit).
		withOffset(filter.Offset).
		build()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, model.MapDBError(err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, model.MapDBError(err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, model.MapDBError(err)
	}

	return products, nil
}

// Update applies a merge-update: the current row is read under FOR
// UPDATE, absent fields keep their current values, and the new row is
// written in the same transaction.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, update *model.UpdateProduct) (*model.Product, error) {
	var updated *model.Product

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanProduct(tx.QueryRow(ctx, selectProductBase+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.NewNotFound("product with id %s not found", id)
			}
			r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to lock product row")
			return model.MapDBError(err)
		}

		name := current.Name
		if update.Name != nil {
			name = *update.Name
		}
		description := mergeNullable(update.Description, current.Description)
		price := current.Price
		if update.Price != nil {
			price = *update.Price
		}
		stock := current.Stock
		if update.Stock != nil {
			stock = *update.Stock
		}
		category := mergeNullable(update.Category, current.Category)
		isActive := current.IsActive
		if update.IsActive != nil {
			isActive = *update.IsActive
		}

		query := `
			UPDATE products
			SET name = $1, description = $2, price = $3, stock = $4, category = $5, is_active = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING id, name, description, price, stock, category, is_active, created_at, updated_at
		`

		updated, err = scanProduct(tx.QueryRow(ctx, query,
			name, description, price, stock, category, isActive, id))
		if err != nil {
			r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
			return model.MapDBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product updated")
	return updated, nil
}

// Delete removes a product. Zero rows affected maps to not-found.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return model.MapDBError(err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("product with id %s not found", id)
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// mergeNullable resolves an optional nullable text field: absent keeps
// the current value, an empty string clears it, anything else replaces
// it.
func mergeNullable(update, current *string) *string {
	if update == nil {
		return current
	}
	if *update == "" {
		return nil
	}
	return update
}

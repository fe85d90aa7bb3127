package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	productsFile = "products.json"
	usersFile    = "users.json"
)

// Seeder loads initial data from JSON files into empty tables. Seeding
// is idempotent: a resource is skipped when any row already exists.
type Seeder struct {
	products repository.ProductRepository
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	source   Source
	logger   zerolog.Logger
}

// New creates a seeder reading from the given source.
func New(
	products repository.ProductRepository,
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	source Source,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		products: products,
		users:    users,
		hasher:   hasher,
		source:   source,
		logger:   logger.With().Str("component", "seeder").Logger(),
	}
}

// Run seeds products and users.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedProducts(ctx); err != nil {
		return err
	}
	return s.seedUsers(ctx)
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	one := 1
	existing, err := s.products.List(ctx, model.ProductFilter{Limit: &one})
	if err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info().Msg("products already exist, skipping seed")
		return nil
	}

	var creates []model.CreateProduct
	if err := s.load(ctx, productsFile, &creates); err != nil {
		return err
	}

	for i := range creates {
		if _, err := s.products.Create(ctx, &creates[i]); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", creates[i].Name, err)
		}
	}

	s.logger.Info().Int("count", len(creates)).Msg("product seeding completed")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	one := 1
	existing, err := s.users.List(ctx, model.UserFilter{Limit: &one})
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info().Msg("users already exist, skipping seed")
		return nil
	}

	var creates []model.CreateUser
	if err := s.load(ctx, usersFile, &creates); err != nil {
		return err
	}

	for i := range creates {
		hash, err := s.hasher.Hash(creates[i].Password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password for %q: %w", creates[i].Username, err)
		}
		if _, err := s.users.Create(ctx, creates[i].Username, creates[i].Email, hash); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", creates[i].Username, err)
		}
	}

	s.logger.Info().Int("count", len(creates)).Msg("user seeding completed")
	return nil
}

func (s *Seeder) load(ctx context.Context, name string, dst interface{}) error {
	rc, err := s.source.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", name, err)
	}
	return nil
}

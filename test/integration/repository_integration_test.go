package integration

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	repo := repository.NewProductRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, &model.CreateProduct{
			Name:        "Laptop",
			Description: ptr("A thin one"),
			Price:       999.99,
			Stock:       ptr(int32(10)),
			Category:    ptr("electronics"),
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.True(t, created.IsActive)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Laptop", found.Name)
		assert.Equal(t, 999.99, found.Price)
		assert.Equal(t, int32(10), found.Stock)
		require.NotNil(t, found.Category)
		assert.Equal(t, "electronics", *found.Category)
	})

	t.Run("get missing product", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())

		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeNotFound, apiErr.Code)
	})

	t.Run("negative price rejected by schema", func(t *testing.T) {
		db.TruncateTables(t)

		_, err := repo.Create(ctx, &model.CreateProduct{
			Name:  "Broken",
			Price: -1,
		})
		require.Error(t, err)

		var count int
		require.NoError(t, db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("list filters narrow the result", func(t *testing.T) {
		db.TruncateTables(t)

		seed := []model.CreateProduct{
			{Name: "Laptop", Price: 999.99, Category: ptr("electronics")},
			{Name: "Lamp", Price: 25, Category: ptr("home")},
			{Name: "Keyboard", Price: 80, Category: ptr("electronics")},
		}
		for i := range seed {
			_, err := repo.Create(ctx, &seed[i])
			require.NoError(t, err)
		}

		all, err := repo.List(ctx, model.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		// Ordered by name ascending.
		assert.Equal(t, "Keyboard", all[0].Name)
		assert.Equal(t, "Lamp", all[1].Name)
		assert.Equal(t, "Laptop", all[2].Name)

		byName, err := repo.List(ctx, model.ProductFilter{Name: ptr("lap")})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Laptop", byName[0].Name)

		byCategory, err := repo.List(ctx, model.ProductFilter{Category: ptr("electronics")})
		require.NoError(t, err)
		assert.Len(t, byCategory, 2)

		// Bounds are inclusive.
		byPrice, err := repo.List(ctx, model.ProductFilter{
			MinPrice: ptr(25.0),
			MaxPrice: ptr(80.0),
		})
		require.NoError(t, err)
		assert.Len(t, byPrice, 2)

		paged, err := repo.List(ctx, model.ProductFilter{Limit: ptr(2), Offset: ptr(1)})
		require.NoError(t, err)
		require.Len(t, paged, 2)
		assert.Equal(t, "Lamp", paged[0].Name)
	})

	t.Run("update merges fields", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, &model.CreateProduct{
			Name:        "Monitor",
			Description: ptr("27 inch"),
			Price:       300,
			Category:    ptr("electronics"),
		})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, &model.UpdateProduct{
			Price: ptr(250.0),
		})
		require.NoError(t, err)
		assert.Equal(t, 250.0, updated.Price)
		assert.Equal(t, "Monitor", updated.Name)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "27 inch", *updated.Description)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) ||
			updated.UpdatedAt.Equal(created.UpdatedAt))

		// An empty string clears a nullable column.
		cleared, err := repo.Update(ctx, created.ID, &model.UpdateProduct{
			Description: ptr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, cleared.Description)
		require.NotNil(t, cleared.Category)
	})

	t.Run("update missing product", func(t *testing.T) {
		_, err := repo.Update(ctx, uuid.New(), &model.UpdateProduct{Price: ptr(1.0)})

		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeNotFound, apiErr.Code)
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, &model.CreateProduct{
			Name:  "Contended",
			Price: 100,
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = repo.Update(ctx, created.ID, &model.UpdateProduct{Price: ptr(110.0)})
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = repo.Update(ctx, created.ID, &model.UpdateProduct{Stock: ptr(int32(5))})
		}()
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		// Both writes survive: the row lock forces the second writer to
		// merge against the first writer's committed state.
		final, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 110.0, final.Price)
		assert.Equal(t, int32(5), final.Stock)
	})

	t.Run("delete", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, &model.CreateProduct{Name: "Gone", Price: 1})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeNotFound, apiErr.Code)

		err = repo.Delete(ctx, created.ID)
		apiErr = model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeNotFound, apiErr.Code)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	repo := repository.NewUserRepository(db.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, "alice", "alice@example.com", "hashed-credential")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
		assert.Equal(t, "hashed-credential", byEmail.PasswordHash)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		db.TruncateTables(t)

		first, err := repo.Create(ctx, "alice", "alice@example.com", "hash-a")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "alice2", "alice@example.com", "hash-b")
		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeConflict, apiErr.Code)
		assert.Equal(t, "email already in use", apiErr.Message)

		// The first row is unaffected.
		kept, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "hash-a", kept.PasswordHash)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		db.TruncateTables(t)

		_, err := repo.Create(ctx, "alice", "alice@example.com", "hash-a")
		require.NoError(t, err)

		_, err = repo.Create(ctx, "alice", "other@example.com", "hash-b")
		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeConflict, apiErr.Code)
		assert.Equal(t, "username already in use", apiErr.Message)
	})

	t.Run("list with filters", func(t *testing.T) {
		db.TruncateTables(t)

		_, err := repo.Create(ctx, "alice", "alice@example.com", "h")
		require.NoError(t, err)
		_, err = repo.Create(ctx, "bob", "bob@example.com", "h")
		require.NoError(t, err)

		all, err := repo.List(ctx, model.UserFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alice", all[0].Username)
		assert.Equal(t, "bob", all[1].Username)

		filtered, err := repo.List(ctx, model.UserFilter{Email: ptr("bob@")})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "bob", filtered[0].Username)
	})

	t.Run("update under lock", func(t *testing.T) {
		db.TruncateTables(t)

		created, err := repo.Create(ctx, "alice", "alice@example.com", "old-hash")
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, &repository.UserUpdate{
			PasswordHash: ptr("new-hash"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new-hash", updated.PasswordHash)
		assert.Equal(t, "alice", updated.Username)
	})

	t.Run("update to taken email is a conflict", func(t *testing.T) {
		db.TruncateTables(t)

		_, err := repo.Create(ctx, "alice", "alice@example.com", "h")
		require.NoError(t, err)
		bob, err := repo.Create(ctx, "bob", "bob@example.com", "h")
		require.NoError(t, err)

		_, err = repo.Update(ctx, bob.ID, &repository.UserUpdate{
			Email: ptr("alice@example.com"),
		})
		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeConflict, apiErr.Code)
	})

	t.Run("delete missing user", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())

		apiErr := model.AsAPIError(err)
		assert.Equal(t, model.ErrCodeNotFound, apiErr.Code)
	})
}

package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, create *model.CreateProduct) (*model.Product, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id uuid.UUID, update *model.UpdateProduct) (*model.Product, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, update *repository.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// writeSeedDir writes seed JSON files into a temp directory.
func writeSeedDir(t *testing.T, products, users string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, productsFile), []byte(products), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(users), 0o644))
	return dir
}

func TestSeeder_Run(t *testing.T) {
	productRepo := new(MockProductRepository)
	userRepo := new(MockUserRepository)
	hasher := auth.NewPasswordHasher()

	dir := writeSeedDir(t,
		`[{"name": "Laptop", "price": 999.99, "category": "electronics"}]`,
		`[{"username": "alice", "email": "alice@example.com", "password": "seed password"}]`)

	productRepo.On("List", mock.Anything, mock.Anything).Return([]model.Product{}, nil)
	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.CreateProduct) bool {
		return c.Name == "Laptop" && c.Price == 999.99
	})).Return(&model.Product{ID: uuid.New(), Name: "Laptop"}, nil)

	userRepo.On("List", mock.Anything, mock.Anything).Return([]model.User{}, nil)
	// The stored credential is a hash of the seed password, never the
	// plaintext itself.
	userRepo.On("Create", mock.Anything, "alice", "alice@example.com",
		mock.MatchedBy(func(hash string) bool {
			if hash == "seed password" {
				return false
			}
			ok, err := hasher.Verify("seed password", hash)
			return err == nil && ok
		})).Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)

	seeder := New(productRepo, userRepo, hasher,
		NewDirSource(dir, zerolog.Nop()), zerolog.Nop())

	require.NoError(t, seeder.Run(context.Background()))
	productRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestSeeder_SkipsExistingData(t *testing.T) {
	productRepo := new(MockProductRepository)
	userRepo := new(MockUserRepository)

	dir := writeSeedDir(t, `[]`, `[]`)

	productRepo.On("List", mock.Anything, mock.Anything).
		Return([]model.Product{{ID: uuid.New(), Name: "existing"}}, nil)
	userRepo.On("List", mock.Anything, mock.Anything).
		Return([]model.User{{ID: uuid.New(), Username: "existing"}}, nil)

	seeder := New(productRepo, userRepo, auth.NewPasswordHasher(),
		NewDirSource(dir, zerolog.Nop()), zerolog.Nop())

	require.NoError(t, seeder.Run(context.Background()))
	productRepo.AssertNotCalled(t, "Create")
	userRepo.AssertNotCalled(t, "Create")
}

func TestSeeder_MissingFile(t *testing.T) {
	productRepo := new(MockProductRepository)
	userRepo := new(MockUserRepository)

	productRepo.On("List", mock.Anything, mock.Anything).Return([]model.Product{}, nil)

	seeder := New(productRepo, userRepo, auth.NewPasswordHasher(),
		NewDirSource(t.TempDir(), zerolog.Nop()), zerolog.Nop())

	err := seeder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), productsFile)
}

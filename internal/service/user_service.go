package service

import (
	"context"
	"errors"
	"regexp"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.TokenService
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Register validates the payload, hashes the password, and stores a new
// user. The plaintext never reaches the repository.
func (s *userService) Register(ctx context.Context, create *model.CreateUser) (*model.User, error) {
	if create.Username == "" {
		return nil, model.NewBadRequest("username is required")
	}
	if !emailPattern.MatchString(create.Email) {
		return nil, model.NewBadRequest("invalid email format")
	}
	if len(create.Password) < minPasswordLength {
		return nil, model.NewBadRequest("password must be at least %d characters", minPasswordLength)
	}

	hash, err := s.hasher.Hash(create.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, model.NewInternal(err)
	}

	user, err := s.userRepo.Create(ctx, create.Username, create.Email, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown
// email and wrong password produce the same error so the response does
// not reveal which accounts exist.
func (s *userService) Login(ctx context.Context, login *model.LoginUser) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, login.Email)
	if err != nil {
		apiErr := model.AsAPIError(err)
		if apiErr.Code == model.ErrCodeNotFound {
			return nil, model.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(login.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, auth.ErrMalformedHash) {
			s.logger.Error().Str("user_id", user.ID.String()).Msg("stored credential is malformed")
		}
		return nil, model.NewInternal(err)
	}
	if !ok {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, model.NewUnauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue token")
		return nil, model.NewInternal(err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// GetByID retrieves a single user by ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List retrieves users matching the filter.
func (s *userService) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	if filter.Limit != nil && *filter.Limit < 0 {
		return nil, model.NewBadRequest("limit must not be negative")
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		return nil, model.NewBadRequest("offset must not be negative")
	}

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(users)).Msg("retrieved users")
	return users, nil
}

// Update validates the provided fields, re-hashes a provided password,
// and applies a merge-update.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update *model.UpdateUser) (*model.User, error) {
	if update.Username != nil && *update.Username == "" {
		return nil, model.NewBadRequest("username must not be empty")
	}
	if update.Email != nil && !emailPattern.MatchString(*update.Email) {
		return nil, model.NewBadRequest("invalid email format")
	}

	repoUpdate := &repository.UserUpdate{
		Username: update.Username,
		Email:    update.Email,
	}

	if update.Password != nil {
		if len(*update.Password) < minPasswordLength {
			return nil, model.NewBadRequest("password must be at least %d characters", minPasswordLength)
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, model.NewInternal(err)
		}
		repoUpdate.PasswordHash = &hash
	}

	user, err := s.userRepo.Update(ctx, id, repoUpdate)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user updated")
	return user, nil
}

// Delete removes a user.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

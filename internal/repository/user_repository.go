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

const selectUserBase = `
	SELECT id, username, email, password, created_at, updated_at
	FROM users`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Duplicate username or email surfaces as a
// conflict error naming the field.
func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password, created_at, updated_at
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username, email, passwordHash))
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to insert user")
		return nil, model.MapDBError(err)
	}

	r.logger.Debug().Str("user_id", user.ID.String()).Msg("user created")
	return user, nil
}

// GetByID retrieves a single user by its ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUserBase+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", id.String()).Msg("user not found")
			return nil, model.NewNotFound("user with id %s not found", id)
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, model.MapDBError(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUserBase+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound("user with email %s not found", email)
		}
		r.logger.Error().Err(err).Msg("failed to query user by email")
		return nil, model.MapDBError(err)
	}
	return user, nil
}

// List retrieves users matching the filter, ordered by username.
func (r *userRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query, args := newQueryBuilder(selectUserBase).
		whereContains("username", filter.Username).
		whereContains("email", filter.Email).
		withOrderBy("username").
		withLimit(filter.Limit).
		withOffset(filter.Offset).
		build()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, model.MapDBError(err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, model.MapDBError(err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, model.MapDBError(err)
	}

	return users, nil
}

// Update applies a merge-update under a row-level lock, as for
// products. The credential in update is already hashed.
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, update *UserUpdate) (*model.User, error) {
	var updated *model.User

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanUser(tx.QueryRow(ctx, selectUserBase+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.NewNotFound("user with id %s not found", id)
			}
			r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to lock user row")
			return model.MapDBError(err)
		}

		username := current.Username
		if update.Username != nil {
			username = *update.Username
		}
		email := current.Email
		if update.Email != nil {
			email = *update.Email
		}
		passwordHash := current.PasswordHash
		if update.PasswordHash != nil {
			passwordHash = *update.PasswordHash
		}

		query := `
			UPDATE users
			SET username = $1, email = $2, password = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING id, username, email, password, created_at, updated_at
		`

		updated, err = scanUser(tx.QueryRow(ctx, query, username, email, passwordHash, id))
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update user")
			return model.MapDBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Str("user_id", id.String()).Msg("user updated")
	return updated, nil
}

// Delete removes a user. Zero rows affected maps to not-found.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return model.MapDBError(err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("user with id %s not found", id)
	}

	r.logger.Debug().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

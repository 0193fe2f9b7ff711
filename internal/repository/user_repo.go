package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-notes-api/internal/model"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, password_hash, role,
		        COALESCE(wallet_address, ''), COALESCE(secondary_wallet_address, ''),
		        created_at, updated_at`

func scanUser(row pgx.Row) (model.Identity, error) {
	var u model.Identity
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.WalletAddress, &u.SecondaryWalletAddress, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// FindByUsername expects an already normalized username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.Identity, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Identity{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

// Create assigns the ID and timestamps. The unique index on username is the
// final guard against concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, u model.Identity) (model.Identity, error) {
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.Identity{}, model.ErrDuplicateUser
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateWalletAddress(ctx context.Context, userID string, address string) error {
	return r.updateWallet(ctx, "wallet_address", userID, address)
}

func (r *UserRepository) UpdateSecondaryWalletAddress(ctx context.Context, userID string, address string) error {
	return r.updateWallet(ctx, "secondary_wallet_address", userID, address)
}

// column is never user supplied.
func (r *UserRepository) updateWallet(ctx context.Context, column string, userID string, address string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = $3 WHERE id = $1`,
		userID, address, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"parkinglot/internal/db"
)

const userColumns = `user_id, account, password_hash, email, phone, role, created_at`

type UserRepository interface {
	GetByAccount(ctx context.Context, account string) (*db.User, error)
	GetByID(ctx context.Context, userID int64) (*db.User, error)
	CreateUser(ctx context.Context, u *db.User) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(d *db.DB) UserRepository {
	return &userRepository{db: d.DB}
}

// GetByAccount returns (nil, nil) when no user has that account name.
func (r *userRepository) GetByAccount(ctx context.Context, account string) (*db.User, error) {
	var u db.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE account = $1`, account)
	if err != nil {
		return nil, noRows(err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*db.User, error) {
	var u db.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return nil, noRows(err)
	}
	return &u, nil
}

// CreateUser inserts u and fills UserID and CreatedAt. A taken account name
// comes back as ErrIntegrityViolation.
func (r *userRepository) CreateUser(ctx context.Context, u *db.User) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (account, password_hash, email, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at`,
		u.Account, u.PasswordHash, u.Email, u.Phone, u.Role,
	).Scan(&u.UserID, &u.CreatedAt)
	if err != nil {
		return translateError(fmt.Errorf("insert user: %w", err))
	}
	return nil
}

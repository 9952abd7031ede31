package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/benchwise/labstock/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
)

// CreateUser inserts a new user
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string, username *string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, role)
		VALUES ($1, $2, $3, 'user')
		RETURNING id, email, password_hash, username, role, created_at, updated_at
	`, email, passwordHash, username).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, ErrEmailExists
		}
		if strings.Contains(err.Error(), "users_username_key") {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail returns a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, role, created_at, updated_at, last_login_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username,
		&user.Role, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID returns a user by id
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, role, created_at, updated_at, last_login_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Username,
		&user.Role, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// TouchLastLogin records a successful login
func (db *DB) TouchLastLogin(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now().UTC(), id)
	return err
}

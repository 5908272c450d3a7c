package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"cleancity/pkg/database"
	"cleancity/pkg/models"
)

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a SQL-backed user repository
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create_user: %w", models.ErrUsernameExists)
		}
		return fmt.Errorf("create_user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE %s = $1
	`, column)

	user := &models.User{}
	var roleStr string
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&roleStr,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get_user: %w", models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get_user: %w", err)
	}

	user.Role = models.UserRole(roleStr)
	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check_username_exists: %w", err)
	}
	return exists, nil
}

// Update updates user information
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, password_hash = $3, role = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
	)
	if err != nil {
		return fmt.Errorf("update_user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update_user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update_user: %w", models.ErrUserNotFound)
	}
	return nil
}

// isUniqueViolation covers both backends: pq error code 23505 for
// Postgres, constraint message text for sqlite.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

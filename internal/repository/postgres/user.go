package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = "id, name, email, password_hash, theme, cost_threshold, cpu_threshold, memory_threshold, storage_threshold, notifications_enabled, created_at, updated_at"

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (name, email, password_hash, theme, cost_threshold, cpu_threshold, memory_threshold, storage_threshold, notifications_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Theme,
		u.Settings.CostThreshold, u.Settings.CPUThreshold, u.Settings.MemoryThreshold, u.Settings.StorageThreshold,
		u.Settings.NotificationsEnabled, now.Unix(), now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Email already exists")
		}
		return errors.DatabaseError("Failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get user ID", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email, matched case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER(?)"
	return r.getOne(ctx, query, email)
}

// Update updates profile, theme and alert settings
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users SET name = ?, email = ?, theme = ?, cost_threshold = ?, cpu_threshold = ?,
			memory_threshold = ?, storage_threshold = ?, notifications_enabled = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Name, u.Email, u.Theme,
		u.Settings.CostThreshold, u.Settings.CPUThreshold, u.Settings.MemoryThreshold, u.Settings.StorageThreshold,
		u.Settings.NotificationsEnabled, u.UpdatedAt.Unix(), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Email already exists")
		}
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().Unix(), id,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update password", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// ListIDs returns every user ID in ascending order
func (r *UserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan user ID", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list users", err)
	}
	return ids, nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var u user.User
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Theme,
		&u.Settings.CostThreshold, &u.Settings.CPUThreshold, &u.Settings.MemoryThreshold, &u.Settings.StorageThreshold,
		&u.Settings.NotificationsEnabled, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)
	return &u, nil
}

// isUniqueViolation matches the unique-constraint error text of both
// supported drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

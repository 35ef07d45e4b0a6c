package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user. Returns Conflict when the email is
	// already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email (matched case-insensitively)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates profile, theme and alert settings. Returns Conflict
	// when changing to an email that is already taken.
	Update(ctx context.Context, user *User) error

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// ListIDs returns every user ID. Used by the sweep worker to walk
	// accounts.
	ListIDs(ctx context.Context) ([]int64, error)

	// Delete deletes a user
	Delete(ctx context.Context, id int64) error
}

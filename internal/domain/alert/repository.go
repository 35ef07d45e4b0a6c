package alert

import "context"

// Repository defines the interface for the alert ledger
type Repository interface {
	// Create inserts a new alert and returns its ID.
	Create(ctx context.Context, a *Alert) (int64, error)

	// List returns the owner's alerts newest-first, optionally filtered
	// by resolved state, capped at limit.
	List(ctx context.Context, userID int64, resolved *bool, limit int) ([]*Alert, error)

	// ListUnresolvedByType returns the owner's unresolved alerts for a
	// (provider, alert type) pair. Used to avoid duplicate candidates.
	ListUnresolvedByType(ctx context.Context, userID int64, provider, alertType string) ([]*Alert, error)

	// Resolve flips an owned alert to resolved and stamps resolvedAt.
	// Returns NotFound when the alert is absent or owned by someone else.
	Resolve(ctx context.Context, userID int64, id int64) (*Alert, error)

	// Delete removes an owned alert. Returns NotFound when the alert is
	// absent or owned by someone else.
	Delete(ctx context.Context, userID int64, id int64) error

	// CountByResolved returns total and unresolved alert counts.
	CountByResolved(ctx context.Context, userID int64) (total int64, unresolved int64, err error)
}

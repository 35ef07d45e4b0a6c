package provider

import "context"

// Repository defines the interface for credential storage
type Repository interface {
	// Upsert stores or replaces the owner's credential record for a
	// provider.
	Upsert(ctx context.Context, account *Account) error

	// Get retrieves the owner's record for one provider.
	Get(ctx context.Context, userID int64, providerName string) (*Account, error)

	// ListConnected returns the names of providers the owner has
	// connected, in a stable order.
	ListConnected(ctx context.Context, userID int64) ([]string, error)

	// Disconnect clears the connected flag without dropping stored
	// credentials.
	Disconnect(ctx context.Context, userID int64, providerName string) error
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/provider"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
)

// ProviderRepository implements provider.Repository
type ProviderRepository struct {
	db *sql.DB
}

// NewProviderRepository creates a new credential repository
func NewProviderRepository(db *sql.DB) provider.Repository {
	return &ProviderRepository{db: db}
}

// Upsert stores or replaces the owner's credential record for a provider
func (r *ProviderRepository) Upsert(ctx context.Context, account *provider.Account) error {
	raw, err := provider.Marshal(account.Credentials)
	if err != nil {
		return errors.DatabaseError("Failed to serialize credentials", err)
	}

	now := time.Now()
	account.UpdatedAt = now

	query := `
		INSERT INTO provider_credentials (user_id, provider, connected, credentials, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			connected = excluded.connected,
			credentials = excluded.credentials,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		account.UserID, account.Provider, account.Connected, string(raw), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to store credentials", err)
	}
	return nil
}

// Get retrieves the owner's record for one provider
func (r *ProviderRepository) Get(ctx context.Context, userID int64, providerName string) (*provider.Account, error) {
	query := `
		SELECT user_id, provider, connected, credentials, updated_at
		FROM provider_credentials WHERE user_id = ? AND provider = ?
	`

	var acc provider.Account
	var raw string
	var updatedAt int64

	err := r.db.QueryRowContext(ctx, query, userID, providerName).Scan(
		&acc.UserID, &acc.Provider, &acc.Connected, &raw, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Provider credentials")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get credentials", err)
	}

	acc.UpdatedAt = time.Unix(updatedAt, 0)
	creds, err := provider.Parse(acc.Provider, json.RawMessage(raw))
	if err != nil {
		return nil, errors.DatabaseError("Failed to decode stored credentials", err)
	}
	acc.Credentials = creds

	return &acc, nil
}

// ListConnected returns the names of connected providers in a stable order
func (r *ProviderRepository) ListConnected(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT provider FROM provider_credentials WHERE user_id = ? AND connected = ? ORDER BY provider",
		userID, true,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list connected providers", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.DatabaseError("Failed to scan provider", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Disconnect clears the connected flag, keeping stored credentials
func (r *ProviderRepository) Disconnect(ctx context.Context, userID int64, providerName string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE provider_credentials SET connected = ?, updated_at = ? WHERE user_id = ? AND provider = ?",
		false, time.Now().Unix(), userID, providerName,
	)
	if err != nil {
		return errors.DatabaseError("Failed to disconnect provider", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Provider credentials")
	}
	return nil
}

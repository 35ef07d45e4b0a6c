package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
)

// AlertRepository implements alert.Repository
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = "id, user_id, provider, alert_type, threshold, current_value, message, severity, triggered, resolved, created_at, resolved_at"

// Create inserts a new alert with triggered=true, resolved=false.
func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	now := time.Now()
	a.CreatedAt = now
	a.Triggered = true
	a.Resolved = false
	a.ResolvedAt = nil

	query := `
		INSERT INTO alerts (user_id, provider, alert_type, threshold, current_value, message, severity, triggered, resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		a.UserID, a.Provider, a.Type, a.Threshold, a.CurrentValue, a.Message, a.Severity, a.Triggered, a.Resolved, now.UnixMilli(),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create alert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get alert ID", err)
	}

	a.ID = id
	return id, nil
}

// List returns the owner's alerts newest-first, optionally filtered by
// resolved state.
func (r *AlertRepository) List(ctx context.Context, userID int64, resolved *bool, limit int) ([]*alert.Alert, error) {
	if limit <= 0 {
		limit = alert.DefaultListLimit
	}

	where := []string{"user_id = ?"}
	args := []interface{}{userID}

	if resolved != nil {
		where = append(where, "resolved = ?")
		args = append(args, *resolved)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC, id DESC LIMIT ?
	`, alertColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return r.queryAlerts(ctx, query, args...)
}

// ListUnresolvedByType returns the owner's unresolved alerts for one
// (provider, alert type) pair.
func (r *AlertRepository) ListUnresolvedByType(ctx context.Context, userID int64, provider, alertType string) ([]*alert.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM alerts
		WHERE user_id = ? AND provider = ? AND alert_type = ? AND resolved = ?
		ORDER BY created_at DESC, id DESC
	`, alertColumns)

	return r.queryAlerts(ctx, query, userID, provider, alertType, false)
}

// Resolve flips an owned alert to resolved and stamps resolvedAt. The
// update is owner-scoped so a missing row and a foreign row are
// indistinguishable to the caller.
func (r *AlertRepository) Resolve(ctx context.Context, userID int64, id int64) (*alert.Alert, error) {
	now := time.Now()

	result, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET resolved = ?, resolved_at = ? WHERE user_id = ? AND id = ?",
		true, now.UnixMilli(), userID, id,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to resolve alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return nil, errors.NotFound("Alert")
	}

	return r.getByID(ctx, userID, id)
}

// Delete removes an owned alert.
func (r *AlertRepository) Delete(ctx context.Context, userID int64, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM alerts WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}
	return nil
}

// CountByResolved returns total and unresolved counts for the owner.
func (r *AlertRepository) CountByResolved(ctx context.Context, userID int64) (int64, int64, error) {
	var total, unresolved int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN resolved = ? THEN 1 ELSE 0 END), 0) FROM alerts WHERE user_id = ?",
		false, userID,
	).Scan(&total, &unresolved)
	if err != nil {
		return 0, 0, errors.DatabaseError("Failed to count alerts", err)
	}
	return total, unresolved, nil
}

func (r *AlertRepository) getByID(ctx context.Context, userID int64, id int64) (*alert.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE user_id = ? AND id = ?", alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, userID, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]*alert.Alert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var createdAt int64
	var resolvedAt sql.NullInt64

	err := row.Scan(
		&a.ID, &a.UserID, &a.Provider, &a.Type, &a.Threshold, &a.CurrentValue,
		&a.Message, &a.Severity, &a.Triggered, &a.Resolved, &createdAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = time.UnixMilli(createdAt)
	if resolvedAt.Valid {
		t := time.UnixMilli(resolvedAt.Int64)
		a.ResolvedAt = &t
	}
	return &a, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
)

// MetricRepository implements metric.Repository
type MetricRepository struct {
	db *sql.DB
}

// NewMetricRepository creates a new sample repository
func NewMetricRepository(db *sql.DB) metric.Repository {
	return &MetricRepository{db: db}
}

// InsertMany bulk-appends samples row by row. The batch is deliberately
// not wrapped in a transaction: partial success matches the store's
// append-only bulk semantics, and seeding is non-transactional with
// clearing by design.
func (r *MetricRepository) InsertMany(ctx context.Context, samples []metric.Sample) (int, error) {
	query := `
		INSERT INTO metric_samples (user_id, provider, metric_type, value, unit, resource_id, resource_name, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, errors.DatabaseError("Failed to prepare sample insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, s := range samples {
		_, err := stmt.ExecContext(ctx,
			s.UserID, s.Provider, s.Type, s.Value, s.Unit, s.ResourceID, s.ResourceName, s.Timestamp.UnixMilli(),
		)
		if err != nil {
			return inserted, errors.DatabaseError("Failed to insert sample", err)
		}
		inserted++
	}

	return inserted, nil
}

// Query returns the owner's samples matching the filter, ascending by
// (timestamp, id) so ordering is stable across runs.
func (r *MetricRepository) Query(ctx context.Context, userID int64, filter metric.Filter) ([]metric.Sample, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, filter.Provider)
	}
	if len(filter.Types) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Types)), ", ")
		where = append(where, fmt.Sprintf("metric_type IN (%s)", placeholders))
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if !filter.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, filter.From.UnixMilli())
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, provider, metric_type, value, unit, resource_id, resource_name, timestamp
		FROM metric_samples WHERE %s ORDER BY timestamp ASC, id ASC
	`, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to query samples", err)
	}
	defer rows.Close()

	var samples []metric.Sample
	for rows.Next() {
		var s metric.Sample
		var ts int64
		err := rows.Scan(&s.ID, &s.UserID, &s.Provider, &s.Type, &s.Value, &s.Unit, &s.ResourceID, &s.ResourceName, &ts)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan sample", err)
		}
		s.Timestamp = time.UnixMilli(ts)
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// DeleteAll removes every sample for the owner and reports the count.
func (r *MetricRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM metric_samples WHERE user_id = ?", userID)
	if err != nil {
		return 0, errors.DatabaseError("Failed to delete samples", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}
	return count, nil
}

// Count returns the owner's total sample count.
func (r *MetricRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM metric_samples WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count samples", err)
	}
	return count, nil
}

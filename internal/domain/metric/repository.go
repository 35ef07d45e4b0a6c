package metric

import "context"

// Repository defines the interface for sample storage
type Repository interface {
	// InsertMany bulk-appends samples. No dedup is performed and the
	// batch is not required to be atomic: a failure mid-batch may leave
	// earlier rows in place.
	InsertMany(ctx context.Context, samples []Sample) (int, error)

	// Query returns the owner's samples matching the filter, ascending
	// by timestamp (ties broken by insertion order).
	Query(ctx context.Context, userID int64, filter Filter) ([]Sample, error)

	// DeleteAll removes every sample for the owner and returns the
	// number of rows removed.
	DeleteAll(ctx context.Context, userID int64) (int64, error)

	// Count returns the owner's total sample count.
	Count(ctx context.Context, userID int64) (int64, error)
}

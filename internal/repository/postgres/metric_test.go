package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/testutil"
)

func TestMetricRepository_InsertAndQuery(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inserted, err := repo.InsertMany(ctx, []metric.Sample{
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 50, Unit: "%", Timestamp: base.Add(2 * time.Hour)},
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 40, Unit: "%", Timestamp: base},
		{UserID: 1, Provider: "gcp", Type: metric.TypeCPU, Value: 30, Unit: "%", Timestamp: base.Add(time.Hour)},
		{UserID: 2, Provider: "aws", Type: metric.TypeCPU, Value: 99, Unit: "%", Timestamp: base},
	})
	if err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}
	if inserted != 4 {
		t.Fatalf("InsertMany() = %d, want 4", inserted)
	}

	got, err := repo.Query(ctx, 1, metric.Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query() returned %d samples, want 3 (owner scoped)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatal("Query() not ascending by timestamp")
		}
	}

	aws, err := repo.Query(ctx, 1, metric.Filter{Provider: "aws"})
	if err != nil {
		t.Fatalf("Query(provider) error = %v", err)
	}
	if len(aws) != 2 {
		t.Errorf("Query(aws) returned %d samples, want 2", len(aws))
	}
}

func TestMetricRepository_QueryWindowRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if _, err := repo.InsertMany(ctx, []metric.Sample{
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 10, Unit: "%", Timestamp: now.Add(-8 * 24 * time.Hour)},
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 20, Unit: "%", Timestamp: now.Add(-3 * 24 * time.Hour)},
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 30, Unit: "%", Timestamp: now},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := repo.Query(ctx, 1, metric.Filter{From: metric.WindowStart(now, 7)})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Query(7d window) returned %d samples, want 2", len(got))
	}

	// Millisecond timestamps survive storage intact.
	if !got[1].Timestamp.Equal(now) {
		t.Errorf("timestamp round-trip: got %v, want %v", got[1].Timestamp, now)
	}
}

func TestMetricRepository_QueryTypeFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	now := time.Now()
	if _, err := repo.InsertMany(ctx, []metric.Sample{
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 50, Unit: "%", Timestamp: now},
		{UserID: 1, Provider: "aws", Type: metric.TypeMemory, Value: 60, Unit: "%", Timestamp: now},
		{UserID: 1, Provider: "aws", Type: metric.TypeBilling, Value: 100, Unit: "USD", Timestamp: now},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := repo.Query(ctx, 1, metric.Filter{Types: metric.ResourceTypes})
	if err != nil {
		t.Fatalf("Query(types) error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Query(resource types) returned %d samples, want 2", len(got))
	}
}

func TestMetricRepository_DeleteAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetricRepository(db)
	ctx := context.Background()

	now := time.Now()
	if _, err := repo.InsertMany(ctx, []metric.Sample{
		{UserID: 1, Provider: "aws", Type: metric.TypeCPU, Value: 50, Unit: "%", Timestamp: now},
		{UserID: 1, Provider: "gcp", Type: metric.TypeCPU, Value: 60, Unit: "%", Timestamp: now},
		{UserID: 2, Provider: "aws", Type: metric.TypeCPU, Value: 70, Unit: "%", Timestamp: now},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	deleted, err := repo.DeleteAll(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteAll() = %d, want 2", deleted)
	}

	// Deleting again reports zero; the other owner keeps their data.
	deleted, err = repo.DeleteAll(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteAll(again) error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("DeleteAll(again) = %d, want 0", deleted)
	}

	count, err := repo.Count(ctx, 2)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count(other owner) = %d, want 1", count)
	}
}

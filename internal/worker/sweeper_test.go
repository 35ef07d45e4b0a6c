package worker

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/testutil"
)

type sweepFixture struct {
	sweeper *Sweeper
	users   *testutil.MockUserRepository
	samples *testutil.MockMetricRepository
	alerts  *testutil.MockAlertRepository
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	f := &sweepFixture{
		users:   testutil.NewMockUserRepository(),
		samples: testutil.NewMockMetricRepository(),
		alerts:  testutil.NewMockAlertRepository(),
	}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	f.sweeper = NewSweeper(f.users, f.samples, f.alerts, "@every 5m", log)
	return f
}

func (f *sweepFixture) addUser(t *testing.T, settings user.AlertSettings) int64 {
	t.Helper()
	u := &user.User{
		Name:         "Test",
		Email:        "test@example.com",
		PasswordHash: "x",
		Theme:        user.ThemeLight,
		Settings:     settings,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return u.ID
}

func TestSweeperRecordsBreaches(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	userID := f.addUser(t, user.DefaultAlertSettings())

	now := time.Now()
	if _, err := f.samples.InsertMany(ctx, []metric.Sample{
		// Over the default cpu threshold of 80.
		{UserID: userID, Provider: "aws", Type: metric.TypeCPU, Value: 95, Unit: "%", Timestamp: now},
		// Under the default memory threshold.
		{UserID: userID, Provider: "aws", Type: metric.TypeMemory, Value: 40, Unit: "%", Timestamp: now},
		// An older breach superseded by a healthy sample must not fire.
		{UserID: userID, Provider: "gcp", Type: metric.TypeCPU, Value: 99, Unit: "%", Timestamp: now.Add(-2 * time.Hour)},
		{UserID: userID, Provider: "gcp", Type: metric.TypeCPU, Value: 30, Unit: "%", Timestamp: now.Add(-1 * time.Hour)},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	f.sweeper.RunOnce(ctx)

	open, err := f.alerts.List(ctx, userID, nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("sweep created %d alerts, want 1", len(open))
	}
	a := open[0]
	if a.Provider != "aws" || a.Type != "cpu" || a.CurrentValue != 95 {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.Resolved || !a.Triggered {
		t.Error("sweep alert should start triggered and unresolved")
	}
}

func TestSweeperSkipsDuplicates(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	userID := f.addUser(t, user.DefaultAlertSettings())

	if _, err := f.samples.InsertMany(ctx, []metric.Sample{
		{UserID: userID, Provider: "aws", Type: metric.TypeCPU, Value: 95, Unit: "%", Timestamp: time.Now()},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	f.sweeper.RunOnce(ctx)
	f.sweeper.RunOnce(ctx)

	open, err := f.alerts.List(ctx, userID, nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("second sweep duplicated the alert: got %d, want 1", len(open))
	}

	// Once the alert is resolved the condition may fire again.
	if _, err := f.alerts.Resolve(ctx, userID, open[0].ID); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	f.sweeper.RunOnce(ctx)

	all, err := f.alerts.List(ctx, userID, nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("after resolve sweep created %d alerts total, want 2", len(all))
	}
}

func TestSweeperHonorsNotificationToggle(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	settings := user.DefaultAlertSettings()
	settings.NotificationsEnabled = false
	userID := f.addUser(t, settings)

	if _, err := f.samples.InsertMany(ctx, []metric.Sample{
		{UserID: userID, Provider: "aws", Type: metric.TypeCPU, Value: 99, Unit: "%", Timestamp: time.Now()},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	f.sweeper.RunOnce(ctx)

	open, err := f.alerts.List(ctx, userID, nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(open) != 0 {
		t.Errorf("sweep created %d alerts with notifications off, want 0", len(open))
	}
}

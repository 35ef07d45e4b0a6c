package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/provider"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/testutil"
)

func newUser(email string) *user.User {
	now := time.Now()
	return &user.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$12$fakehash",
		Theme:        user.ThemeLight,
		Settings:     user.DefaultAlertSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("alice@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, newUser("alice@example.com"))
	if !errors.IsConflict(err) {
		t.Fatalf("Create(duplicate) error = %v, want conflict", err)
	}
	appErr := err.(*errors.AppError)
	if appErr.Message != "Email already exists" {
		t.Errorf("conflict message = %q", appErr.Message)
	}
}

func TestUserRepository_GetByEmailCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUser("alice@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByEmail(ctx, "ALICE@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", got.ID, u.ID)
	}
	if got.Settings != user.DefaultAlertSettings() {
		t.Errorf("settings round-trip: got %+v", got.Settings)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.IsNotFound(err) {
		t.Errorf("GetByEmail(missing) error = %v, want not found", err)
	}
}

func TestUserRepository_UpdateSettings(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUser("alice@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u.Theme = user.ThemeDark
	u.Settings.CostThreshold = 2500
	u.Settings.NotificationsEnabled = false
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Theme != user.ThemeDark || got.Settings.CostThreshold != 2500 || got.Settings.NotificationsEnabled {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUserRepository_ListIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if err := repo.Create(ctx, newUser(email)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	ids, err := repo.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ListIDs() returned %d, want 2", len(ids))
	}
}

func TestProviderRepository_UpsertRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProviderRepository(db)
	ctx := context.Background()

	account := &provider.Account{
		UserID:    1,
		Provider:  "aws",
		Connected: true,
		Credentials: &provider.AWSCredentials{
			AccessKeyID:     "AKIA123",
			SecretAccessKey: "shhh",
			Region:          "eu-west-1",
		},
		UpdatedAt: time.Now(),
	}
	if err := repo.Upsert(ctx, account); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, 1, "aws")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	aws, ok := got.Credentials.(*provider.AWSCredentials)
	if !ok {
		t.Fatalf("credentials type = %T", got.Credentials)
	}
	if aws.Region != "eu-west-1" || aws.AccessKeyID != "AKIA123" {
		t.Errorf("credentials round-trip: %+v", aws)
	}

	// Upsert replaces in place; one row per (owner, provider).
	account.Credentials = &provider.AWSCredentials{
		AccessKeyID:     "AKIA456",
		SecretAccessKey: "shhh2",
		Region:          "us-east-1",
	}
	if err := repo.Upsert(ctx, account); err != nil {
		t.Fatalf("Upsert(replace) error = %v", err)
	}
	connected, err := repo.ListConnected(ctx, 1)
	if err != nil {
		t.Fatalf("ListConnected() error = %v", err)
	}
	if len(connected) != 1 || connected[0] != "aws" {
		t.Errorf("ListConnected() = %v, want [aws]", connected)
	}

	if err := repo.Disconnect(ctx, 1, "aws"); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	connected, err = repo.ListConnected(ctx, 1)
	if err != nil {
		t.Fatalf("ListConnected(after disconnect) error = %v", err)
	}
	if len(connected) != 0 {
		t.Errorf("still connected after Disconnect(): %v", connected)
	}
}

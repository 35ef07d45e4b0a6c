package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/provider"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/testutil"
)

type userServiceFixture struct {
	service   *UserService
	users     *testutil.MockUserRepository
	providers *testutil.MockProviderRepository
	samples   *testutil.MockMetricRepository
	alerts    *testutil.MockAlertRepository
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:     testutil.NewMockUserRepository(),
		providers: testutil.NewMockProviderRepository(),
		samples:   testutil.NewMockMetricRepository(),
		alerts:    testutil.NewMockAlertRepository(),
	}
	authCfg := config.AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		BCryptCost:         4, // min cost keeps tests fast
	}
	f.service = NewUserService(f.users, f.providers, f.samples, f.alerts, authCfg, newTestLogger())
	return f
}

func TestUserService_Register(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	u, pair, err := f.service.Register(ctx, "Alice", "Alice@Example.COM", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Register() returned empty token pair")
	}
	if u.Settings != user.DefaultAlertSettings() {
		t.Errorf("settings = %+v, want schema defaults", u.Settings)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}

	// Duplicate email, any casing, is a conflict.
	if _, _, err := f.service.Register(ctx, "Other", "ALICE@example.com", "secret2"); !errors.IsConflict(err) {
		t.Errorf("Register(duplicate) error = %v, want conflict", err)
	}

	// Short password rejected before any write.
	if _, _, err := f.service.Register(ctx, "Bob", "bob@example.com", "short"); err == nil {
		t.Error("Register(short password) expected error")
	}
}

func TestUserService_Authenticate(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	if _, _, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	u, pair, err := f.service.Authenticate(ctx, "ALICE@example.com", "secret1")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if u.Email != "alice@example.com" || pair.AccessToken == "" {
		t.Error("Authenticate() returned incomplete result")
	}

	// Wrong password and unknown email produce the same failure.
	_, _, wrongPass := f.service.Authenticate(ctx, "alice@example.com", "nope123")
	_, _, wrongUser := f.service.Authenticate(ctx, "nobody@example.com", "secret1")
	for _, err := range []error{wrongPass, wrongUser} {
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Code != errors.ErrCodeUnauthorized {
			t.Errorf("Authenticate() error = %v, want unauthorized", err)
		}
	}
}

func TestUserService_Refresh(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	_, pair, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	u, next, err := f.service.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if u.Email != "alice@example.com" || next.AccessToken == "" {
		t.Error("Refresh() returned incomplete result")
	}

	if _, _, err := f.service.Refresh(ctx, "not-a-token"); err == nil {
		t.Error("Refresh(garbage) expected error")
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	u, _, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	originalHash := f.users.Users[u.ID].PasswordHash

	if err := f.service.ChangePassword(ctx, u.ID, "wrong", "secret2"); err == nil {
		t.Error("ChangePassword(wrong current) expected error")
	}
	if err := f.service.ChangePassword(ctx, u.ID, "secret1", "tiny"); err == nil {
		t.Error("ChangePassword(short new) expected error")
	}

	// Same plaintext again: accepted, but the hash stays put.
	if err := f.service.ChangePassword(ctx, u.ID, "secret1", "secret1"); err != nil {
		t.Fatalf("ChangePassword(same) error = %v", err)
	}
	if f.users.Users[u.ID].PasswordHash != originalHash {
		t.Error("hash rewritten although the password did not change")
	}

	if err := f.service.ChangePassword(ctx, u.ID, "secret1", "secret2"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if f.users.Users[u.ID].PasswordHash == originalHash {
		t.Error("hash unchanged after password change")
	}
	if _, _, err := f.service.Authenticate(ctx, "alice@example.com", "secret2"); err != nil {
		t.Errorf("Authenticate(new password) error = %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	a, _, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, _, err := f.service.Register(ctx, "Bob", "bob@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := f.service.UpdateProfile(ctx, a.ID, "Alicia", "alicia@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Alicia" || updated.Email != "alicia@example.com" {
		t.Errorf("UpdateProfile() = %q/%q", updated.Name, updated.Email)
	}

	if _, err := f.service.UpdateProfile(ctx, a.ID, "", "bob@example.com"); !errors.IsConflict(err) {
		t.Errorf("UpdateProfile(taken email) error = %v, want conflict", err)
	}
}

func TestUserService_UpdateSettings(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	u, _, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	dark := user.ThemeDark
	updated, err := f.service.UpdateSettings(ctx, u.ID, SettingsUpdate{
		Theme:  &dark,
		Alerts: &user.AlertSettings{CostThreshold: 2000, NotificationsEnabled: true},
		Providers: map[string]json.RawMessage{
			"aws": json.RawMessage(`{"accessKeyId":"AKIA123","secretAccessKey":"shhh"}`),
		},
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.Theme != user.ThemeDark {
		t.Errorf("theme = %q, want dark", updated.Theme)
	}
	if updated.Settings.CostThreshold != 2000 {
		t.Errorf("cost threshold = %v, want 2000", updated.Settings.CostThreshold)
	}
	// Unset thresholds in the partial update fall back to defaults.
	if updated.Settings.CPUThreshold != 80 {
		t.Errorf("cpu threshold = %v, want default 80", updated.Settings.CPUThreshold)
	}

	account, err := f.providers.Get(ctx, u.ID, "aws")
	if err != nil {
		t.Fatalf("provider Get() error = %v", err)
	}
	if !account.Connected {
		t.Error("provider not marked connected")
	}
	aws, ok := account.Credentials.(*provider.AWSCredentials)
	if !ok {
		t.Fatalf("credentials type = %T, want *provider.AWSCredentials", account.Credentials)
	}
	if aws.Region != "us-east-1" {
		t.Errorf("region = %q, want default us-east-1", aws.Region)
	}

	// Invalid credential shapes never get stored.
	if _, err := f.service.UpdateSettings(ctx, u.ID, SettingsUpdate{
		Providers: map[string]json.RawMessage{"gcp": json.RawMessage(`{}`)},
	}); err == nil {
		t.Error("UpdateSettings(incomplete gcp creds) expected error")
	}
	if _, err := f.providers.Get(ctx, u.ID, "gcp"); !errors.IsNotFound(err) {
		t.Error("invalid credentials were stored")
	}

	bad := "neon"
	if _, err := f.service.UpdateSettings(ctx, u.ID, SettingsUpdate{Theme: &bad}); err == nil {
		t.Error("UpdateSettings(bad theme) expected error")
	}
}

func TestUserService_Stats(t *testing.T) {
	f := newUserServiceFixture()
	ctx := context.Background()

	u, _, err := f.service.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	now := time.Now()
	if _, err := f.samples.InsertMany(ctx, []metric.Sample{
		{UserID: u.ID, Provider: "aws", Type: metric.TypeCPU, Value: 50, Unit: "%", Timestamp: now},
		{UserID: u.ID, Provider: "aws", Type: metric.TypeMemory, Value: 60, Unit: "%", Timestamp: now},
		{UserID: u.ID + 1, Provider: "aws", Type: metric.TypeCPU, Value: 70, Unit: "%", Timestamp: now},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	var alertIDs []int64
	for i := 0; i < 3; i++ {
		a := &alert.Alert{
			UserID:       u.ID,
			Provider:     "aws",
			Type:         alert.TypeCPU,
			Threshold:    80,
			CurrentValue: 90,
			Message:      "cpu high",
		}
		id, err := f.alerts.Create(ctx, a)
		if err != nil {
			t.Fatalf("alert Create() error = %v", err)
		}
		alertIDs = append(alertIDs, id)
	}
	if _, err := f.alerts.Resolve(ctx, u.ID, alertIDs[2]); err != nil {
		t.Fatalf("alert Resolve() error = %v", err)
	}

	if _, err := f.service.UpdateSettings(ctx, u.ID, SettingsUpdate{
		Providers: map[string]json.RawMessage{
			"digitalocean": json.RawMessage(`{"apiToken":"dop_v1_abc"}`),
		},
	}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	stats, err := f.service.Stats(ctx, u.ID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.MetricsCount != 2 {
		t.Errorf("MetricsCount = %d, want 2", stats.MetricsCount)
	}
	if stats.AlertsCount != 3 || stats.UnresolvedAlertsCount != 2 {
		t.Errorf("AlertsCount/Unresolved = %d/%d, want 3/2", stats.AlertsCount, stats.UnresolvedAlertsCount)
	}
	if len(stats.ConnectedProviders) != 1 || stats.ConnectedProviders[0] != "digitalocean" {
		t.Errorf("ConnectedProviders = %v, want [digitalocean]", stats.ConnectedProviders)
	}
}

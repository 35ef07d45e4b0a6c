package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/provider"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[int64]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int64]*user.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return errors.Conflict("Email already exists")
		}
	}
	u.ID = m.NextID
	m.NextID++
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	for id, existing := range m.Users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return errors.Conflict("Email already exists")
		}
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *MockUserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Users[id]; !ok {
		return errors.NotFound("User")
	}
	delete(m.Users, id)
	return nil
}

// MockMetricRepository is a mock implementation of metric.Repository
type MockMetricRepository struct {
	Samples     []metric.Sample
	NextID      int64
	InsertError error
	QueryError  error
}

func NewMockMetricRepository() *MockMetricRepository {
	return &MockMetricRepository{NextID: 1}
}

func (m *MockMetricRepository) InsertMany(ctx context.Context, samples []metric.Sample) (int, error) {
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, s := range samples {
		s.ID = m.NextID
		m.NextID++
		m.Samples = append(m.Samples, s)
	}
	return len(samples), nil
}

func (m *MockMetricRepository) Query(ctx context.Context, userID int64, filter metric.Filter) ([]metric.Sample, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	var out []metric.Sample
	for _, s := range m.Samples {
		if s.UserID != userID {
			continue
		}
		if filter.Provider != "" && s.Provider != filter.Provider {
			continue
		}
		if len(filter.Types) > 0 && !containsString(filter.Types, s.Type) {
			continue
		}
		if !filter.From.IsZero() && s.Timestamp.Before(filter.From) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockMetricRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	var kept []metric.Sample
	var removed int64
	for _, s := range m.Samples {
		if s.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.Samples = kept
	return removed, nil
}

func (m *MockMetricRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, s := range m.Samples {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	Alerts      map[int64]*alert.Alert
	NextID      int64
	CreateError error
	ListError   error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[int64]*alert.Alert),
		NextID: 1,
	}
}

// Create mirrors the real repository: every new alert starts triggered
// and unresolved with a fresh creation time, whatever the caller set.
func (m *MockAlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	a.ID = m.NextID
	m.NextID++
	a.CreatedAt = time.Now()
	a.Triggered = true
	a.Resolved = false
	a.ResolvedAt = nil
	cp := *a
	m.Alerts[a.ID] = &cp
	return a.ID, nil
}

func (m *MockAlertRepository) List(ctx context.Context, userID int64, resolved *bool, limit int) ([]*alert.Alert, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*alert.Alert
	for _, a := range m.Alerts {
		if a.UserID != userID {
			continue
		}
		if resolved != nil && a.Resolved != *resolved {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAlertRepository) ListUnresolvedByType(ctx context.Context, userID int64, providerName, alertType string) ([]*alert.Alert, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*alert.Alert
	for _, a := range m.Alerts {
		if a.UserID != userID || a.Resolved || a.Provider != providerName || a.Type != alertType {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockAlertRepository) Resolve(ctx context.Context, userID int64, id int64) (*alert.Alert, error) {
	a, ok := m.Alerts[id]
	if !ok || a.UserID != userID {
		return nil, errors.NotFound("Alert")
	}
	now := time.Now()
	a.Resolved = true
	a.ResolvedAt = &now
	cp := *a
	return &cp, nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, userID int64, id int64) error {
	a, ok := m.Alerts[id]
	if !ok || a.UserID != userID {
		return errors.NotFound("Alert")
	}
	delete(m.Alerts, id)
	return nil
}

func (m *MockAlertRepository) CountByResolved(ctx context.Context, userID int64) (int64, int64, error) {
	var total, unresolved int64
	for _, a := range m.Alerts {
		if a.UserID != userID {
			continue
		}
		total++
		if !a.Resolved {
			unresolved++
		}
	}
	return total, unresolved, nil
}

// MockProviderRepository is a mock implementation of provider.Repository
type MockProviderRepository struct {
	Accounts    map[string]*provider.Account // keyed by userID:provider
	UpsertError error
}

func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{Accounts: make(map[string]*provider.Account)}
}

func accountKey(userID int64, providerName string) string {
	return fmt.Sprintf("%d:%s", userID, providerName)
}

func (m *MockProviderRepository) Upsert(ctx context.Context, account *provider.Account) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	cp := *account
	m.Accounts[accountKey(account.UserID, account.Provider)] = &cp
	return nil
}

func (m *MockProviderRepository) Get(ctx context.Context, userID int64, providerName string) (*provider.Account, error) {
	a, ok := m.Accounts[accountKey(userID, providerName)]
	if !ok {
		return nil, errors.NotFound("Provider credentials")
	}
	cp := *a
	return &cp, nil
}

func (m *MockProviderRepository) ListConnected(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	for _, a := range m.Accounts {
		if a.UserID == userID && a.Connected {
			names = append(names, a.Provider)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockProviderRepository) Disconnect(ctx context.Context, userID int64, providerName string) error {
	a, ok := m.Accounts[accountKey(userID, providerName)]
	if !ok {
		return errors.NotFound("Provider credentials")
	}
	a.Connected = false
	return nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

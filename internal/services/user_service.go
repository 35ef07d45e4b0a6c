package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/auth"
	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/provider"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"

	alertdomain "github.com/pratik-mahalle/cloudlens/internal/domain/alert"
)

// SettingsUpdate carries the optional pieces of a settings change. Nil
// fields are left untouched.
type SettingsUpdate struct {
	Theme     *string
	Alerts    *user.AlertSettings
	Providers map[string]json.RawMessage
}

// UserStats is the account overview shown on the settings page.
type UserStats struct {
	MetricsCount          int64    `json:"metricsCount"`
	AlertsCount           int64    `json:"alertsCount"`
	UnresolvedAlertsCount int64    `json:"unresolvedAlertsCount"`
	ConnectedProviders    []string `json:"connectedProviders"`
}

// UserService handles accounts, authentication and settings.
type UserService struct {
	users     user.Repository
	providers provider.Repository
	samples   metric.Repository
	alerts    alertdomain.Repository
	authCfg   config.AuthConfig
	logger    *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users user.Repository, providers provider.Repository, samples metric.Repository, alerts alertdomain.Repository, authCfg config.AuthConfig, log *logger.Logger) *UserService {
	return &UserService{
		users:     users,
		providers: providers,
		samples:   samples,
		alerts:    alerts,
		authCfg:   authCfg,
		logger:    log,
	}
}

// Register creates an account and returns it with a fresh token pair.
// Emails are stored lowercased; a taken email surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*user.User, auth.TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, auth.TokenPair{}, errors.ValidationError("Please provide all required fields", nil)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, auth.TokenPair{}, errors.ValidationError(err.Error(), nil)
	}

	hash, err := auth.HashPassword(password, s.authCfg.BCryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, errors.Internal("Failed to hash password", err)
	}

	now := time.Now()
	u := &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Theme:        user.ThemeLight,
		Settings:     user.DefaultAlertSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.IsConflict(err) {
			s.logger.ErrorWithErr(err, "Failed to create user")
		}
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.mintTokens(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")

	return u, pair, nil
}

// Authenticate verifies credentials and returns the user with a fresh
// token pair. Wrong email and wrong password are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, auth.TokenPair{}, errors.ValidationError("Please provide email and password", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, auth.TokenPair{}, errors.Unauthorized("Invalid credentials")
		}
		return nil, auth.TokenPair{}, err
	}
	if err := auth.CheckPassword(password, u.PasswordHash); err != nil {
		return nil, auth.TokenPair{}, errors.Unauthorized("Invalid credentials")
	}

	pair, err := s.mintTokens(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*user.User, auth.TokenPair, error) {
	claims, err := auth.ParseClaims(refreshToken, s.authCfg.JWTSecret)
	if err != nil {
		return nil, auth.TokenPair{}, errors.Unauthorized("Invalid refresh token")
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, auth.TokenPair{}, errors.Unauthorized("Invalid refresh token")
		}
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.mintTokens(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// GetProfile returns the account with defaults applied to any unset
// thresholds.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Settings = u.Settings.FillDefaults()
	return u, nil
}

// UpdateProfile changes name and email. Changing to a taken email is a
// conflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name, email string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		u.Email = email
	}
	u.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, u); err != nil {
		if !errors.IsConflict(err) {
			s.logger.ErrorWithErr(err, "Failed to update profile")
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password and stores a new hash.
// When the new password equals the current one no rehash happens.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(current, u.PasswordHash); err != nil {
		return errors.Unauthorized("Current password is incorrect")
	}
	if err := auth.ValidatePassword(next); err != nil {
		return errors.ValidationError(err.Error(), nil)
	}
	if next == current {
		return nil
	}

	hash, err := auth.HashPassword(next, s.authCfg.BCryptCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update password")
		return err
	}

	s.logger.WithFields(map[string]interface{}{"user_id": userID}).Info("Password changed")
	return nil
}

// UpdateSettings applies theme, alert threshold and provider credential
// changes. Credentials are validated per provider shape before they are
// stored; a connected flag is set alongside.
func (s *UserService) UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		theme := *update.Theme
		if theme != user.ThemeLight && theme != user.ThemeDark {
			return nil, errors.BadRequest("Invalid theme")
		}
		u.Theme = theme
	}
	if update.Alerts != nil {
		u.Settings = update.Alerts.FillDefaults()
	}

	for name, raw := range update.Providers {
		creds, err := provider.Parse(name, raw)
		if err != nil {
			return nil, errors.BadRequest("Invalid provider")
		}
		if err := creds.Validate(); err != nil {
			return nil, errors.ValidationError(err.Error(), nil)
		}
		account := &provider.Account{
			UserID:      userID,
			Provider:    name,
			Connected:   true,
			Credentials: creds,
			UpdatedAt:   time.Now(),
		}
		if err := s.providers.Upsert(ctx, account); err != nil {
			s.logger.ErrorWithErr(err, "Failed to store provider credentials")
			return nil, err
		}
	}

	u.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update settings")
		return nil, err
	}
	return u, nil
}

// Stats returns the account overview counters.
func (s *UserService) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	metricsCount, err := s.samples.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, unresolved, err := s.alerts.CountByResolved(ctx, userID)
	if err != nil {
		return nil, err
	}
	connected, err := s.providers.ListConnected(ctx, userID)
	if err != nil {
		return nil, err
	}
	if connected == nil {
		connected = []string{}
	}

	return &UserStats{
		MetricsCount:          metricsCount,
		AlertsCount:           total,
		UnresolvedAlertsCount: unresolved,
		ConnectedProviders:    connected,
	}, nil
}

func (s *UserService) mintTokens(u *user.User) (auth.TokenPair, error) {
	pair, err := auth.MintTokens(u.ID, u.Email, s.authCfg.JWTSecret, s.authCfg.AccessTokenExpiry, s.authCfg.RefreshTokenExpiry)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to mint tokens")
		return auth.TokenPair{}, errors.Internal("Failed to generate tokens", err)
	}
	return pair, nil
}

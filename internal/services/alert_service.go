package services

import (
	"context"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/metrics"
)

// AlertService owns the alert ledger
type AlertService struct {
	repo   alert.Repository
	logger *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(repo alert.Repository, log *logger.Logger) *AlertService {
	return &AlertService{
		repo:   repo,
		logger: log,
	}
}

// Create records a manually created alert. The caller supplies provider,
// alert type, threshold, current value and message; severity defaults to
// medium. New alerts always start triggered and unresolved.
func (s *AlertService) Create(ctx context.Context, a *alert.Alert) (*alert.Alert, error) {
	if a.Provider == "" || a.Type == "" || a.Message == "" || a.Threshold == 0 || a.CurrentValue == 0 {
		return nil, errors.ValidationError("Please provide all required fields", nil)
	}
	if !metric.ValidProvider(a.Provider) {
		return nil, errors.BadRequest("Invalid provider")
	}
	if !alert.ValidType(a.Type) {
		return nil, errors.BadRequest("Invalid alert type")
	}
	if a.Severity == "" {
		a.Severity = alert.SeverityMedium
	}
	if !alert.ValidSeverity(a.Severity) {
		return nil, errors.BadRequest("Invalid severity")
	}

	a.Triggered = true
	a.Resolved = false
	a.ResolvedAt = nil

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create alert")
		return nil, err
	}
	a.ID = id

	metrics.RecordAlertCreated(a.Type, a.Severity)
	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"user_id":  a.UserID,
		"severity": a.Severity,
		"type":     a.Type,
	}).Info("Alert created")

	return a, nil
}

// List returns the owner's alerts newest-first, optionally filtered by
// resolved state. A non-positive limit falls back to the default.
func (s *AlertService) List(ctx context.Context, userID int64, resolved *bool, limit int) ([]*alert.Alert, error) {
	if limit <= 0 {
		limit = alert.DefaultListLimit
	}

	alerts, err := s.repo.List(ctx, userID, resolved, limit)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to list alerts")
		return nil, err
	}
	if alerts == nil {
		alerts = []*alert.Alert{}
	}
	return alerts, nil
}

// Resolve marks an owned alert resolved. Resolving an already-resolved
// alert re-stamps resolvedAt; last write wins.
func (s *AlertService) Resolve(ctx context.Context, userID int64, id int64) (*alert.Alert, error) {
	a, err := s.repo.Resolve(ctx, userID, id)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.ErrorWithErr(err, "Failed to resolve alert")
		}
		return nil, err
	}

	metrics.RecordAlertResolved()
	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"user_id":  userID,
	}).Info("Alert resolved")

	return a, nil
}

// Delete removes an owned alert from the ledger.
func (s *AlertService) Delete(ctx context.Context, userID int64, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.ErrorWithErr(err, "Failed to delete alert")
		}
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"user_id":  userID,
	}).Info("Alert deleted")

	return nil
}

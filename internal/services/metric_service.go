package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/metrics"
)

// recentAlertCount is how many unresolved alerts ride along on the
// dashboard payload.
const recentAlertCount = 5

// Dashboard is the aggregated payload behind GET /api/metrics/dashboard.
type Dashboard struct {
	Summary metric.Summary        `json:"summary"`
	Metrics []metric.LatestSample `json:"metrics"`
	Alerts  []*alert.Alert        `json:"alerts"`
}

// MetricService reads and reduces the sample store.
type MetricService struct {
	samples metric.Repository
	alerts  alert.Repository
	logger  *logger.Logger
	now     func() time.Time
}

// NewMetricService creates a new metric service
func NewMetricService(samples metric.Repository, alerts alert.Repository, log *logger.Logger) *MetricService {
	return &MetricService{
		samples: samples,
		alerts:  alerts,
		logger:  log,
		now:     time.Now,
	}
}

// Dashboard reduces the owner's trailing-24h samples to the latest value
// per (provider, metric type), summarizes them, and attaches the most
// recent unresolved alerts. An empty provider or "all" means all
// providers; dashboard clients send "all" by default.
func (s *MetricService) Dashboard(ctx context.Context, userID int64, provider string) (*Dashboard, error) {
	if provider == "all" {
		provider = ""
	}
	if provider != "" && !metric.ValidProvider(provider) {
		return nil, errors.BadRequest("Invalid provider")
	}

	samples, err := s.samples.Query(ctx, userID, metric.Filter{
		Provider: provider,
		From:     s.now().Add(-metric.SummaryWindow),
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to query dashboard samples")
		return nil, err
	}

	latest := metric.LatestPerGroup(samples)

	unresolved := false
	recent, err := s.alerts.List(ctx, userID, &unresolved, recentAlertCount)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to list dashboard alerts")
		return nil, err
	}
	if recent == nil {
		recent = []*alert.Alert{}
	}

	return &Dashboard{
		Summary: metric.Summarize(latest),
		Metrics: latest,
		Alerts:  recent,
	}, nil
}

// Series returns the owner's unreduced samples for one provider and a set
// of metric types over the last N days, ascending by timestamp. Charts
// consume it directly.
func (s *MetricService) Series(ctx context.Context, userID int64, provider string, types []string, days int) ([]metric.Sample, error) {
	if !metric.ValidProvider(provider) {
		return nil, errors.BadRequest("Invalid provider")
	}
	for _, t := range types {
		if !metric.ValidType(t) {
			return nil, errors.BadRequest("Invalid metric type")
		}
	}

	samples, err := s.samples.Query(ctx, userID, metric.Filter{
		Provider: provider,
		Types:    types,
		From:     metric.WindowStart(s.now(), days),
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to query metric series")
		return nil, err
	}
	if samples == nil {
		samples = []metric.Sample{}
	}
	return samples, nil
}

// Clear removes every sample the owner has and returns how many went.
func (s *MetricService) Clear(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.samples.DeleteAll(ctx, userID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to clear samples")
		return 0, err
	}

	metrics.RecordSamplesDeleted(deleted)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"deleted": deleted,
	}).Info("Cleared metric samples")

	return deleted, nil
}

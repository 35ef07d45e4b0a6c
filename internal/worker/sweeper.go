// Package worker runs the optional threshold sweep: a cron job that
// reduces each account's recent samples, evaluates them against the
// account's thresholds and records breaches in the alert ledger. The
// sweep is off by default; alerting stays a manual concern unless a
// deployment opts in.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/threshold"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/metrics"
)

const sweepTimeout = 2 * time.Minute

// Sweeper periodically evaluates thresholds for every account.
type Sweeper struct {
	users    user.Repository
	samples  metric.Repository
	alerts   alert.Repository
	logger   *logger.Logger
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// NewSweeper creates a sweeper with the given cron schedule
// (e.g. "@every 5m").
func NewSweeper(users user.Repository, samples metric.Repository, alerts alert.Repository, schedule string, log *logger.Logger) *Sweeper {
	return &Sweeper{
		users:    users,
		samples:  samples,
		alerts:   alerts,
		logger:   log,
		schedule: schedule,
		now:      time.Now,
	}
}

// Start schedules the sweep. Returns an error when the schedule spec
// does not parse.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.WithFields(map[string]interface{}{
		"schedule": s.schedule,
	}).Info("Threshold sweep started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Threshold sweep stopped")
}

// RunOnce sweeps every account a single time. Exposed for the CLI and
// for tests; the cron schedule calls it on a timer.
func (s *Sweeper) RunOnce(ctx context.Context) {
	start := s.now()
	status := "ok"

	created, err := s.sweep(ctx)
	if err != nil {
		status = "error"
		s.logger.ErrorWithErr(err, "Threshold sweep failed")
	}

	metrics.RecordSweep(status, s.now().Sub(start))
	if created > 0 || err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alerts_created": created,
			"status":         status,
		}).Info("Threshold sweep finished")
	}
}

func (s *Sweeper) sweep(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	var created int
	for _, userID := range ids {
		n, err := s.sweepUser(ctx, userID)
		if err != nil {
			// One broken account must not starve the rest.
			s.logger.WithFields(map[string]interface{}{
				"user_id": userID,
			}).WithError(err).Error("Sweep failed for user")
			continue
		}
		created += n
	}
	return created, nil
}

// sweepUser evaluates one account: reduce the trailing-24h samples to
// latest-per-group, run the evaluator, and record each candidate unless
// an unresolved alert for the same (provider, alertType) already exists.
func (s *Sweeper) sweepUser(ctx context.Context, userID int64) (int, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !u.Settings.NotificationsEnabled {
		return 0, nil
	}
	settings := u.Settings.FillDefaults()

	recent, err := s.samples.Query(ctx, userID, metric.Filter{
		From: s.now().Add(-metric.SummaryWindow),
	})
	if err != nil {
		return 0, err
	}

	latest := metric.LatestPerGroup(recent)
	reduced := make([]metric.Sample, 0, len(latest))
	for _, m := range latest {
		reduced = append(reduced, metric.Sample{
			UserID:    userID,
			Provider:  m.Provider,
			Type:      m.Type,
			Value:     m.Value,
			Unit:      m.Unit,
			Timestamp: time.UnixMilli(m.Timestamp),
		})
	}

	var created int
	for _, c := range threshold.EvaluateAll(reduced, settings) {
		open, err := s.alerts.ListUnresolvedByType(ctx, userID, c.Provider, c.AlertType)
		if err != nil {
			return created, err
		}
		if len(open) > 0 {
			continue
		}

		a := &alert.Alert{
			UserID:       userID,
			Provider:     c.Provider,
			Type:         c.AlertType,
			Threshold:    c.Threshold,
			CurrentValue: c.CurrentValue,
			Message:      c.Message,
			Severity:     c.Severity,
			Triggered:    true,
			CreatedAt:    s.now(),
		}
		if _, err := s.alerts.Create(ctx, a); err != nil {
			return created, err
		}
		metrics.RecordAlertCreated(a.Type, a.Severity)
		created++
	}
	return created, nil
}

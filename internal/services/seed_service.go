package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/metrics"
)

// SeedDays is how many trailing days of demo samples the seeder writes.
const SeedDays = 7

// SeedService generates demo samples so a fresh account has something to
// look at. It only ever appends: seeding twice doubles the data.
type SeedService struct {
	samples metric.Repository
	logger  *logger.Logger
	now     func() time.Time
	randFn  func() float64
}

// NewSeedService creates a new seed service
func NewSeedService(samples metric.Repository, log *logger.Logger) *SeedService {
	return &SeedService{
		samples: samples,
		logger:  log,
		now:     time.Now,
		randFn:  rand.Float64,
	}
}

// Seed writes one sample per provider per metric type for each of the
// last SeedDays days: billing stamped at midnight, everything else at
// noon. Returns the inserted count.
func (s *SeedService) Seed(ctx context.Context, userID int64) (int, error) {
	now := s.now()
	var batch []metric.Sample

	for day := 0; day < SeedDays; day++ {
		date := now.AddDate(0, 0, -day)
		midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())

		for _, provider := range metric.Providers {
			batch = append(batch,
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeBilling,
					Value:     s.randFn()*500 + 100,
					Unit:      "USD",
					Timestamp: midnight,
				},
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeCPU,
					Value:     s.randFn()*40 + 40,
					Unit:      "%",
					Timestamp: noon,
				},
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeMemory,
					Value:     s.randFn()*30 + 50,
					Unit:      "%",
					Timestamp: noon,
				},
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeStorage,
					Value:     s.randFn()*20 + 60,
					Unit:      "%",
					Timestamp: noon,
				},
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeLatency,
					Value:     s.randFn()*100 + 50,
					Unit:      "ms",
					Timestamp: noon,
				},
				metric.Sample{
					UserID:    userID,
					Provider:  provider,
					Type:      metric.TypeThroughput,
					Value:     s.randFn()*1000 + 500,
					Unit:      "req/s",
					Timestamp: noon,
				},
			)
		}
	}

	inserted, err := s.samples.InsertMany(ctx, batch)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to seed samples")
		return inserted, err
	}

	metrics.RecordSamplesInserted("seed", inserted)
	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"inserted": inserted,
	}).Info("Seeded sample metrics")

	return inserted, nil
}

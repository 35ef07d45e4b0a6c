// Package threshold decides whether a metric sample should produce an
// alert. Evaluation is a pure function over (sample, settings): it never
// touches storage, so callers decide whether candidates become ledger
// entries. The API layer compares informationally; the optional sweep
// worker records candidates as alerts.
package threshold

import (
	"fmt"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
)

// Candidate is an alert-worthy observation: a sample whose value met or
// exceeded the configured threshold for its metric type.
type Candidate struct {
	Provider     string  `json:"provider"`
	AlertType    string  `json:"alertType"`
	Threshold    float64 `json:"threshold"`
	CurrentValue float64 `json:"currentValue"`
	Severity     string  `json:"severity"`
	Message      string  `json:"message"`
}

// Severity breakpoints, as a ratio of value over threshold.
const (
	highRatio     = 1.10
	criticalRatio = 1.50
)

// Evaluate compares one sample against the owner's thresholds. It
// returns a candidate and true when the value is at or over the limit
// for its metric type. Metric types without a configured threshold
// (latency, throughput, health) never produce candidates. The function
// is total and idempotent: equal inputs always yield equal outputs.
func Evaluate(s metric.Sample, settings user.AlertSettings) (Candidate, bool) {
	alertType, limit, ok := thresholdFor(s.Type, settings)
	if !ok || s.Value < limit {
		return Candidate{}, false
	}

	return Candidate{
		Provider:     s.Provider,
		AlertType:    alertType,
		Threshold:    limit,
		CurrentValue: s.Value,
		Severity:     SeverityFor(s.Value, limit),
		Message:      message(s, alertType, limit),
	}, true
}

// EvaluateAll runs Evaluate over a set of samples, typically the
// latest-per-group reduction, and returns every candidate.
func EvaluateAll(samples []metric.Sample, settings user.AlertSettings) []Candidate {
	var out []Candidate
	for _, s := range samples {
		if c, ok := Evaluate(s, settings); ok {
			out = append(out, c)
		}
	}
	return out
}

// SeverityFor maps how far a value overshoots its threshold to a
// severity tier: under 110% of the threshold is medium, under 150% is
// high, anything beyond is critical.
func SeverityFor(value, limit float64) string {
	if limit <= 0 {
		return alert.SeverityMedium
	}
	ratio := value / limit
	switch {
	case ratio >= criticalRatio:
		return alert.SeverityCritical
	case ratio >= highRatio:
		return alert.SeverityHigh
	default:
		return alert.SeverityMedium
	}
}

func thresholdFor(metricType string, settings user.AlertSettings) (string, float64, bool) {
	switch metricType {
	case metric.TypeBilling:
		return alert.TypeCost, settings.CostThreshold, true
	case metric.TypeCPU:
		return alert.TypeCPU, settings.CPUThreshold, true
	case metric.TypeMemory:
		return alert.TypeMemory, settings.MemoryThreshold, true
	case metric.TypeStorage:
		return alert.TypeStorage, settings.StorageThreshold, true
	}
	return "", 0, false
}

func message(s metric.Sample, alertType string, limit float64) string {
	if alertType == alert.TypeCost {
		return fmt.Sprintf("%s billing reached $%.2f (threshold $%.2f)", s.Provider, s.Value, limit)
	}
	return fmt.Sprintf("%s %s usage reached %.2f%s (threshold %.2f%s)", s.Provider, s.Type, s.Value, s.Unit, limit, s.Unit)
}

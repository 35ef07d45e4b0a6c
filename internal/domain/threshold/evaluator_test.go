package threshold

import (
	"testing"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
)

func testSample(typ string, value float64) metric.Sample {
	return metric.Sample{
		UserID:    1,
		Provider:  metric.ProviderAWS,
		Type:      typ,
		Value:     value,
		Unit:      "%",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEvaluate(t *testing.T) {
	settings := user.DefaultAlertSettings() // cost 1000, cpu 80, mem 80, storage 90

	tests := []struct {
		name         string
		sample       metric.Sample
		wantCand     bool
		wantType     string
		wantSeverity string
	}{
		{
			name:     "cpu below threshold",
			sample:   testSample(metric.TypeCPU, 79.9),
			wantCand: false,
		},
		{
			name:         "cpu exactly at threshold breaches",
			sample:       testSample(metric.TypeCPU, 80),
			wantCand:     true,
			wantType:     alert.TypeCPU,
			wantSeverity: alert.SeverityMedium,
		},
		{
			name:         "cpu just under 110 percent is medium",
			sample:       testSample(metric.TypeCPU, 87.9),
			wantCand:     true,
			wantType:     alert.TypeCPU,
			wantSeverity: alert.SeverityMedium,
		},
		{
			name:         "cpu at 110 percent is high",
			sample:       testSample(metric.TypeCPU, 88),
			wantCand:     true,
			wantType:     alert.TypeCPU,
			wantSeverity: alert.SeverityHigh,
		},
		{
			name:         "cpu at 150 percent is critical",
			sample:       testSample(metric.TypeCPU, 120),
			wantCand:     true,
			wantType:     alert.TypeCPU,
			wantSeverity: alert.SeverityCritical,
		},
		{
			name:         "billing maps to cost alert",
			sample:       testSample(metric.TypeBilling, 1200),
			wantCand:     true,
			wantType:     alert.TypeCost,
			wantSeverity: alert.SeverityHigh,
		},
		{
			name:         "storage uses its own threshold",
			sample:       testSample(metric.TypeStorage, 95),
			wantCand:     true,
			wantType:     alert.TypeStorage,
			wantSeverity: alert.SeverityMedium,
		},
		{
			name:     "latency has no threshold",
			sample:   testSample(metric.TypeLatency, 99999),
			wantCand: false,
		},
		{
			name:     "health has no threshold",
			sample:   testSample(metric.TypeHealth, 0),
			wantCand: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Evaluate(tt.sample, settings)
			if ok != tt.wantCand {
				t.Fatalf("Evaluate() candidate = %v, want %v", ok, tt.wantCand)
			}
			if !ok {
				return
			}
			if c.AlertType != tt.wantType {
				t.Errorf("alert type = %q, want %q", c.AlertType, tt.wantType)
			}
			if c.Severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", c.Severity, tt.wantSeverity)
			}
			if c.CurrentValue != tt.sample.Value {
				t.Errorf("current value = %v, want %v", c.CurrentValue, tt.sample.Value)
			}
			if c.Message == "" {
				t.Error("candidate message is empty")
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	settings := user.DefaultAlertSettings()
	s := testSample(metric.TypeMemory, 92.5)

	first, ok := Evaluate(s, settings)
	if !ok {
		t.Fatal("expected a candidate")
	}
	for i := 0; i < 25; i++ {
		again, ok := Evaluate(s, settings)
		if !ok || again != first {
			t.Fatalf("Evaluate() not idempotent on run %d: %+v vs %+v", i, again, first)
		}
	}
}

func TestEvaluateAll(t *testing.T) {
	settings := user.DefaultAlertSettings()
	samples := []metric.Sample{
		testSample(metric.TypeCPU, 95),
		testSample(metric.TypeMemory, 50),
		testSample(metric.TypeBilling, 2000),
		testSample(metric.TypeThroughput, 5000),
	}

	cands := EvaluateAll(samples, settings)
	if len(cands) != 2 {
		t.Fatalf("EvaluateAll() returned %d candidates, want 2", len(cands))
	}
}

func TestSeverityFor_ZeroThreshold(t *testing.T) {
	// A malformed zero threshold must not panic or divide by zero.
	if got := SeverityFor(100, 0); got != alert.SeverityMedium {
		t.Errorf("SeverityFor(100, 0) = %q, want medium", got)
	}
}

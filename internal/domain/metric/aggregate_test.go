package metric

import (
	"testing"
	"time"
)

func sample(id int64, provider, typ string, value float64, ts time.Time) Sample {
	return Sample{
		ID:        id,
		UserID:    1,
		Provider:  provider,
		Type:      typ,
		Value:     value,
		Unit:      "USD",
		Timestamp: ts,
	}
}

func TestLatestPerGroup(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		samples []Sample
		want    map[GroupKey]float64
	}{
		{
			name:    "empty input",
			samples: nil,
			want:    map[GroupKey]float64{},
		},
		{
			name: "newest sample wins per group",
			samples: []Sample{
				sample(1, ProviderAWS, TypeBilling, 100, now.Add(-2*time.Hour)),
				sample(2, ProviderAWS, TypeBilling, 120, now.Add(-1*time.Hour)),
				sample(3, ProviderGCP, TypeBilling, 50, now.Add(-3*time.Hour)),
			},
			want: map[GroupKey]float64{
				{ProviderAWS, TypeBilling}: 120,
				{ProviderGCP, TypeBilling}: 50,
			},
		},
		{
			name: "groups split by provider and type",
			samples: []Sample{
				sample(1, ProviderAWS, TypeCPU, 70, now),
				sample(2, ProviderAWS, TypeMemory, 60, now),
				sample(3, ProviderAzure, TypeCPU, 40, now),
			},
			want: map[GroupKey]float64{
				{ProviderAWS, TypeCPU}:      70,
				{ProviderAWS, TypeMemory}:   60,
				{ProviderAzure, TypeCPU}:    40,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestPerGroup(tt.samples)
			if len(got) != len(tt.want) {
				t.Fatalf("LatestPerGroup() returned %d groups, want %d", len(got), len(tt.want))
			}
			for _, m := range got {
				want, ok := tt.want[m.GroupKey]
				if !ok {
					t.Errorf("unexpected group %+v", m.GroupKey)
					continue
				}
				if m.Value != want {
					t.Errorf("group %+v value = %v, want %v", m.GroupKey, m.Value, want)
				}
			}
		})
	}
}

func TestLatestPerGroup_TieBreakDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := []Sample{
		sample(1, ProviderAWS, TypeBilling, 100, ts),
		sample(2, ProviderAWS, TypeBilling, 200, ts),
	}

	first := LatestPerGroup(samples)
	if len(first) != 1 {
		t.Fatalf("expected exactly one group, got %d", len(first))
	}
	// Greater ID wins on equal timestamps.
	if first[0].Value != 200 {
		t.Errorf("tie-break picked value %v, want 200", first[0].Value)
	}

	// Repeated runs, including with reversed input order, must agree.
	reversed := []Sample{samples[1], samples[0]}
	for i := 0; i < 10; i++ {
		again := LatestPerGroup(reversed)
		if len(again) != 1 || again[0].Value != first[0].Value {
			t.Fatalf("tie-break not deterministic on run %d: %+v", i, again)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		samples []Sample
		want    Summary
	}{
		{
			name:    "no samples",
			samples: nil,
			want:    Summary{TotalBilling: "0.00", AvgCPU: "0.00", AvgMemory: "0.00", AvgStorage: "0.00"},
		},
		{
			name: "billing summed across providers",
			samples: []Sample{
				sample(1, ProviderAWS, TypeBilling, 100, now),
				sample(2, ProviderGCP, TypeBilling, 50, now),
			},
			want: Summary{TotalBilling: "150.00", AvgCPU: "0.00", AvgMemory: "0.00", AvgStorage: "0.00"},
		},
		{
			name: "averages over providers",
			samples: []Sample{
				sample(1, ProviderAWS, TypeCPU, 80, now),
				sample(2, ProviderGCP, TypeCPU, 40, now),
				sample(3, ProviderAWS, TypeMemory, 50, now),
				sample(4, ProviderAWS, TypeStorage, 75.555, now),
			},
			want: Summary{TotalBilling: "0.00", AvgCPU: "60.00", AvgMemory: "50.00", AvgStorage: "75.56"},
		},
		{
			name: "stale samples per group are ignored",
			samples: []Sample{
				sample(1, ProviderAWS, TypeBilling, 900, now.Add(-2*time.Hour)),
				sample(2, ProviderAWS, TypeBilling, 100, now),
				sample(3, ProviderGCP, TypeBilling, 50, now),
			},
			want: Summary{TotalBilling: "150.00", AvgCPU: "0.00", AvgMemory: "0.00", AvgStorage: "0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(LatestPerGroup(tt.samples))
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 6, 8, 9, 30, 0, 0, time.UTC)

	if got := WindowStart(now, 7); !got.Equal(now.Add(-7 * 24 * time.Hour)) {
		t.Errorf("WindowStart(7) = %v", got)
	}
	// Zero and negative day counts fall back to the default window.
	if got := WindowStart(now, 0); !got.Equal(now.Add(-7 * 24 * time.Hour)) {
		t.Errorf("WindowStart(0) = %v", got)
	}
}

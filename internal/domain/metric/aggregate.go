package metric

import (
	"sort"
	"strconv"
)

// GroupKey identifies a (provider, metric type) pair in the reduced
// dashboard view.
type GroupKey struct {
	Provider string `json:"provider"`
	Type     string `json:"metricType"`
}

// LatestSample is one entry of the latest-per-group reduction.
type LatestSample struct {
	GroupKey
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp int64   `json:"timestamp"`
}

// Summary is the aggregated dashboard view. Values are rendered to two
// decimal places, matching what the charts expect.
type Summary struct {
	TotalBilling string `json:"totalBilling"`
	AvgCPU       string `json:"avgCpu"`
	AvgMemory    string `json:"avgMemory"`
	AvgStorage   string `json:"avgStorage"`
}

// LatestPerGroup reduces samples to the single most recent sample per
// (provider, metric type) pair. Ties on equal timestamps are broken by
// the greater ID, which makes repeated runs deterministic. The result
// is ordered by provider then metric type.
func LatestPerGroup(samples []Sample) []LatestSample {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ID > sorted[j].ID
	})

	seen := make(map[GroupKey]bool, len(sorted))
	var latest []LatestSample
	for _, s := range sorted {
		key := GroupKey{Provider: s.Provider, Type: s.Type}
		if seen[key] {
			continue
		}
		seen[key] = true
		latest = append(latest, LatestSample{
			GroupKey:  key,
			Value:     s.Value,
			Unit:      s.Unit,
			Timestamp: s.Timestamp.UnixMilli(),
		})
	}

	sort.Slice(latest, func(i, j int) bool {
		if latest[i].Provider != latest[j].Provider {
			return latest[i].Provider < latest[j].Provider
		}
		return latest[i].Type < latest[j].Type
	})
	return latest
}

// Summarize computes the dashboard summary from a latest-per-group
// reduction: total billing across providers and mean cpu/memory/storage.
// Averages with no samples come out as "0.00".
func Summarize(latest []LatestSample) Summary {
	var billing float64
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, m := range latest {
		switch m.Type {
		case TypeBilling:
			billing += m.Value
		case TypeCPU, TypeMemory, TypeStorage:
			sums[m.Type] += m.Value
			counts[m.Type]++
		}
	}

	avg := func(t string) float64 {
		if counts[t] == 0 {
			return 0
		}
		return sums[t] / float64(counts[t])
	}

	return Summary{
		TotalBilling: formatValue(billing),
		AvgCPU:       formatValue(avg(TypeCPU)),
		AvgMemory:    formatValue(avg(TypeMemory)),
		AvgStorage:   formatValue(avg(TypeStorage)),
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

package metric

import "time"

// Sample is a single timestamped observation of a metric for a cloud
// provider. Samples are immutable: they are inserted once and only ever
// removed in bulk per owner.
type Sample struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Provider     string    `json:"provider"`
	Type         string    `json:"metricType"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit"`
	ResourceID   string    `json:"resourceId,omitempty"`
	ResourceName string    `json:"resourceName,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Supported cloud providers
const (
	ProviderAWS          = "aws"
	ProviderGCP          = "gcp"
	ProviderAzure        = "azure"
	ProviderDigitalOcean = "digitalocean"
)

// Metric types
const (
	TypeBilling    = "billing"
	TypeCPU        = "cpu"
	TypeMemory     = "memory"
	TypeStorage    = "storage"
	TypeLatency    = "latency"
	TypeThroughput = "throughput"
	TypeHealth     = "health"
)

// Providers lists every supported provider in a stable order.
var Providers = []string{ProviderAWS, ProviderGCP, ProviderAzure, ProviderDigitalOcean}

// ResourceTypes are the metric types shown on the resource charts.
var ResourceTypes = []string{TypeCPU, TypeMemory, TypeStorage}

// PerformanceTypes are the metric types shown on the performance charts.
var PerformanceTypes = []string{TypeLatency, TypeThroughput}

// ValidProvider reports whether p names a supported provider.
func ValidProvider(p string) bool {
	switch p {
	case ProviderAWS, ProviderGCP, ProviderAzure, ProviderDigitalOcean:
		return true
	}
	return false
}

// ValidType reports whether t names a known metric type.
func ValidType(t string) bool {
	switch t {
	case TypeBilling, TypeCPU, TypeMemory, TypeStorage, TypeLatency, TypeThroughput, TypeHealth:
		return true
	}
	return false
}

// Filter narrows a sample query. Zero values mean "no constraint".
// Queries are always scoped to an owner first; the repository applies
// the filter on top of that.
type Filter struct {
	Provider string
	Types    []string
	From     time.Time
}

// SummaryWindow is the trailing window the dashboard summary reduces over.
const SummaryWindow = 24 * time.Hour

// DefaultSeriesDays is the chart window used when the caller does not
// pass an explicit day count.
const DefaultSeriesDays = 7

// WindowStart returns the rolling window boundary for a "last N days"
// query. The boundary is now minus N*24h, not a midnight-aligned calendar
// day, so callers see a rolling instant.
func WindowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

package alert

import "time"

// Alert is a durable record of a threshold breach or other noteworthy
// condition. The record outlives the condition itself: nothing resolves
// an alert automatically once the underlying metric recovers.
type Alert struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Provider     string     `json:"provider"`
	Type         string     `json:"alertType"`
	Threshold    float64    `json:"threshold"`
	CurrentValue float64    `json:"currentValue"`
	Message      string     `json:"message"`
	Severity     string     `json:"severity"`
	Triggered    bool       `json:"triggered"`
	Resolved     bool       `json:"resolved"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

// Alert types
const (
	TypeCost        = "cost"
	TypeCPU         = "cpu"
	TypeMemory      = "memory"
	TypeStorage     = "storage"
	TypePerformance = "performance"
	TypeHealth      = "health"
)

// Severity levels
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// DefaultListLimit caps alert listings when the caller does not ask for
// a specific limit.
const DefaultListLimit = 50

// ValidType reports whether t names a known alert type.
func ValidType(t string) bool {
	switch t {
	case TypeCost, TypeCPU, TypeMemory, TypeStorage, TypePerformance, TypeHealth:
		return true
	}
	return false
}

// ValidSeverity reports whether s names a known severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

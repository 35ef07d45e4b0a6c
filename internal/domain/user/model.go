package user

import "time"

// User represents an account in the system
type User struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"` // Never exposed in JSON
	Theme        string        `json:"theme"`
	Settings     AlertSettings `json:"alertSettings"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AlertSettings is the per-owner threshold configuration the evaluator
// compares samples against. Loaded once per request, never shared as
// mutable state.
type AlertSettings struct {
	CostThreshold        float64 `json:"costThreshold"`
	CPUThreshold         float64 `json:"cpuThreshold"`
	MemoryThreshold      float64 `json:"memoryThreshold"`
	StorageThreshold     float64 `json:"storageThreshold"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
}

// DefaultAlertSettings returns the default-filled threshold schema.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		CostThreshold:        1000,
		CPUThreshold:         80,
		MemoryThreshold:      80,
		StorageThreshold:     90,
		NotificationsEnabled: true,
	}
}

// FillDefaults replaces unset thresholds with the schema defaults. A
// threshold of zero is treated as unset; zero would otherwise make every
// sample a breach.
func (s AlertSettings) FillDefaults() AlertSettings {
	def := DefaultAlertSettings()
	if s.CostThreshold <= 0 {
		s.CostThreshold = def.CostThreshold
	}
	if s.CPUThreshold <= 0 {
		s.CPUThreshold = def.CPUThreshold
	}
	if s.MemoryThreshold <= 0 {
		s.MemoryThreshold = def.MemoryThreshold
	}
	if s.StorageThreshold <= 0 {
		s.StorageThreshold = def.StorageThreshold
	}
	return s
}

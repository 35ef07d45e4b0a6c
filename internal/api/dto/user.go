package dto

import (
	"encoding/json"
	"time"

	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
)

// UserDTO is the public shape of an account. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Theme         string             `json:"theme"`
	AlertSettings user.AlertSettings `json:"alertSettings"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewUserDTO converts a domain user to its public shape
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Theme:         u.Theme,
		AlertSettings: u.Settings.FillDefaults(),
		CreatedAt:     u.CreatedAt,
	}
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AlertSettingsRequest carries partial threshold updates. Omitted
// thresholds fall back to the schema defaults; an omitted
// notificationsEnabled means enabled, not off.
type AlertSettingsRequest struct {
	CostThreshold        float64 `json:"costThreshold" validate:"omitempty,gte=0"`
	CPUThreshold         float64 `json:"cpuThreshold" validate:"omitempty,gte=0,lte=100"`
	MemoryThreshold      float64 `json:"memoryThreshold" validate:"omitempty,gte=0,lte=100"`
	StorageThreshold     float64 `json:"storageThreshold" validate:"omitempty,gte=0,lte=100"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
}

// UpdateSettingsRequest represents a settings update. Provider
// credentials are raw JSON keyed by provider name; each value is parsed
// and validated against its provider's credential shape.
type UpdateSettingsRequest struct {
	Theme          *string                    `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	AlertSettings  *AlertSettingsRequest      `json:"alertSettings,omitempty"`
	CloudProviders map[string]json.RawMessage `json:"cloudProviders,omitempty"`
}

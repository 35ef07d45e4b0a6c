package dto

// CreateAlertRequest represents a manual alert creation
type CreateAlertRequest struct {
	Provider     string  `json:"provider" validate:"required,oneof=aws gcp azure digitalocean"`
	AlertType    string  `json:"alertType" validate:"required,oneof=cost cpu memory storage performance health"`
	Threshold    float64 `json:"threshold" validate:"required"`
	CurrentValue float64 `json:"currentValue" validate:"required"`
	Message      string  `json:"message" validate:"required"`
	Severity     string  `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
}

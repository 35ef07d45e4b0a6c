package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/cloudlens/internal/api/dto"
	"github.com/pratik-mahalle/cloudlens/internal/api/middleware"
	"github.com/pratik-mahalle/cloudlens/internal/domain/alert"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/utils"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/validator"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

// AlertsHandler handles alert ledger requests
type AlertsHandler struct {
	alerts    *services.AlertService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(alerts *services.AlertService, log *logger.Logger, val *validator.Validator) *AlertsHandler {
	return &AlertsHandler{
		alerts:    alerts,
		logger:    log,
		validator: val,
	}
}

// List returns the caller's alerts, newest first
// @Summary List alerts
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param resolved query bool false "Filter by resolved state"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {array} alert.Alert "Alerts, newest first"
// @Router /users/alerts [get]
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var resolved *bool
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("Invalid resolved filter"))
			return
		}
		resolved = &v
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	alerts, err := h.alerts.List(r.Context(), userID, resolved, limit)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to list alerts")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, alerts)
}

// Create records a manual alert
// @Summary Create an alert
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAlertRequest true "Alert details"
// @Success 201 {object} alert.Alert "Created alert"
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid fields"
// @Router /users/alerts [post]
func (h *AlertsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req dto.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Please provide all required fields", validationErrs))
		return
	}

	created, err := h.alerts.Create(r.Context(), &alert.Alert{
		UserID:       userID,
		Provider:     req.Provider,
		Type:         req.AlertType,
		Threshold:    req.Threshold,
		CurrentValue: req.CurrentValue,
		Message:      req.Message,
		Severity:     req.Severity,
	})
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to create alert")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, created)
}

// Resolve marks an alert resolved
// @Summary Resolve an alert
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Success 200 {object} alert.Alert "Resolved alert"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /users/alerts/{id}/resolve [put]
func (h *AlertsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}
	id, err := alertID(r)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert ID"))
		return
	}

	resolved, err := h.alerts.Resolve(r.Context(), userID, id)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to resolve alert")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, resolved)
}

// Delete removes an alert
// @Summary Delete an alert
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Deleted"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /users/alerts/{id} [delete]
func (h *AlertsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}
	id, err := alertID(r)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert ID"))
		return
	}

	if err := h.alerts.Delete(r.Context(), userID, id); err != nil {
		utils.WriteAnyError(w, err, "Failed to delete alert")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert deleted successfully", nil)
}

func alertID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

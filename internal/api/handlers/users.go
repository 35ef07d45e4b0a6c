package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/cloudlens/internal/api/dto"
	"github.com/pratik-mahalle/cloudlens/internal/api/middleware"
	"github.com/pratik-mahalle/cloudlens/internal/domain/user"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/utils"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/validator"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

// UsersHandler handles profile and settings requests
type UsersHandler struct {
	users     *services.UserService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(users *services.UserService, log *logger.Logger, val *validator.Validator) *UsersHandler {
	return &UsersHandler{
		users:     users,
		logger:    log,
		validator: val,
	}
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserDTO "Profile"
// @Router /users/profile [get]
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	u, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to load profile")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// UpdateProfile changes the caller's name and email
// @Summary Update profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} dto.UserDTO "Updated profile"
// @Failure 400 {object} utils.ErrorResponse "Email already exists"
// @Router /users/profile [put]
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to update profile")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} utils.SuccessResponse "Password changed"
// @Failure 401 {object} utils.ErrorResponse "Current password is incorrect"
// @Router /users/password [put]
func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.WriteAnyError(w, err, "Failed to change password")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Password updated successfully", nil)
}

// UpdateSettings changes theme, thresholds and provider credentials
// @Summary Update settings
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "Settings changes"
// @Success 200 {object} dto.UserDTO "Updated account"
// @Failure 400 {object} utils.ErrorResponse "Invalid settings or credentials"
// @Router /users/settings [put]
func (h *UsersHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	update := services.SettingsUpdate{
		Theme:     req.Theme,
		Providers: req.CloudProviders,
	}
	if req.AlertSettings != nil {
		// An omitted notificationsEnabled restores the default, like the
		// omitted thresholds.
		notify := true
		if req.AlertSettings.NotificationsEnabled != nil {
			notify = *req.AlertSettings.NotificationsEnabled
		}
		update.Alerts = &user.AlertSettings{
			CostThreshold:        req.AlertSettings.CostThreshold,
			CPUThreshold:         req.AlertSettings.CPUThreshold,
			MemoryThreshold:      req.AlertSettings.MemoryThreshold,
			StorageThreshold:     req.AlertSettings.StorageThreshold,
			NotificationsEnabled: notify,
		}
	}

	u, err := h.users.UpdateSettings(r.Context(), userID, update)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to update settings")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// Stats returns the caller's account counters
// @Summary Account stats
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.UserStats "Counters"
// @Router /users/stats [get]
func (h *UsersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	stats, err := h.users.Stats(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to load stats")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}

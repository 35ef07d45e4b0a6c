package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/cloudlens/internal/api/dto"
	"github.com/pratik-mahalle/cloudlens/internal/api/middleware"
	"github.com/pratik-mahalle/cloudlens/internal/auth"
	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/utils"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/validator"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	users     *services.UserService
	config    *config.Config
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService, cfg *config.Config, log *logger.Logger, val *validator.Validator) *AuthHandler {
	return &AuthHandler{
		users:     users,
		config:    cfg,
		logger:    log,
		validator: val,
	}
}

// Register handles account creation
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or email taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, tokens, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to register user")
		return
	}

	h.setAuthCookies(w, tokens)
	utils.WriteSuccess(w, http.StatusCreated, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.NewUserDTO(u),
	})
}

// Login handles user login
// @Summary User login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, tokens, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteAnyError(w, err, "Failed to authenticate")
		return
	}

	h.setAuthCookies(w, tokens)
	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.NewUserDTO(u),
	})
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest false "Refresh token (optional when the cookie is set)"
// @Success 200 {object} dto.AuthResponse "New token pair"
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	// Body is optional; browser clients rely on the cookie.
	_ = json.NewDecoder(r.Body).Decode(&req)

	tokenStr := req.RefreshToken
	if tokenStr == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			tokenStr = cookie.Value
		}
	}
	if tokenStr == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}

	u, tokens, err := h.users.Refresh(r.Context(), tokenStr)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to refresh tokens")
		return
	}

	h.setAuthCookies(w, tokens)
	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.NewUserDTO(u),
	})
}

// Me returns the authenticated account
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserDTO "Current account"
// @Failure 401 {object} utils.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	u, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to load user")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(u))
}

// Logout clears the auth cookies
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, tokens auth.TokenPair) {
	secure := h.config.Server.Environment == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.AccessTokenExpiry.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.RefreshTokenExpiry.Seconds()),
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Path:     "/",
			MaxAge:   -1,
		})
	}
}

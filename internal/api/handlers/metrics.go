package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/cloudlens/internal/api/dto"
	"github.com/pratik-mahalle/cloudlens/internal/api/middleware"
	"github.com/pratik-mahalle/cloudlens/internal/domain/metric"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/errors"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/utils"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

// MetricsHandler handles metric read, seed and clear requests
type MetricsHandler struct {
	metrics *services.MetricService
	seeder  *services.SeedService
	logger  *logger.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metricSvc *services.MetricService, seeder *services.SeedService, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		metrics: metricSvc,
		seeder:  seeder,
		logger:  log,
	}
}

// Dashboard returns the aggregated dashboard view
// @Summary Dashboard summary
// @Description Latest value per provider and metric type over the trailing 24h, with totals and recent alerts
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param provider query string false "Filter to one provider"
// @Success 200 {object} services.Dashboard "Dashboard payload"
// @Router /metrics/dashboard [get]
func (h *MetricsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	dash, err := h.metrics.Dashboard(r.Context(), userID, r.URL.Query().Get("provider"))
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to load dashboard")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dash)
}

// Billing returns the billing series for one provider
// @Summary Billing series
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name"
// @Param days query int false "Trailing window in days (default 7)"
// @Success 200 {array} metric.Sample "Billing samples, ascending"
// @Router /metrics/{provider}/billing [get]
func (h *MetricsHandler) Billing(w http.ResponseWriter, r *http.Request) {
	h.series(w, r, []string{metric.TypeBilling})
}

// Resources returns cpu/memory/storage series for one provider
// @Summary Resource usage series
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name"
// @Param days query int false "Trailing window in days (default 7)"
// @Success 200 {array} metric.Sample "Resource samples, ascending"
// @Router /metrics/{provider}/resources [get]
func (h *MetricsHandler) Resources(w http.ResponseWriter, r *http.Request) {
	h.series(w, r, metric.ResourceTypes)
}

// Performance returns latency/throughput series for one provider
// @Summary Performance series
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name"
// @Param days query int false "Trailing window in days (default 7)"
// @Success 200 {array} metric.Sample "Performance samples, ascending"
// @Router /metrics/{provider}/performance [get]
func (h *MetricsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	h.series(w, r, metric.PerformanceTypes)
}

// All returns every series for one provider, optionally one type
// @Summary All metric series
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name"
// @Param type query string false "Restrict to one metric type"
// @Param days query int false "Trailing window in days (default 7)"
// @Success 200 {array} metric.Sample "Samples, ascending"
// @Router /metrics/{provider}/all [get]
func (h *MetricsHandler) All(w http.ResponseWriter, r *http.Request) {
	var types []string
	if t := r.URL.Query().Get("type"); t != "" {
		types = []string{t}
	}
	h.series(w, r, types)
}

// Seed writes a week of demo samples for the caller
// @Summary Seed demo metrics
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.SeedResponse "Inserted count"
// @Router /metrics/seed [post]
func (h *MetricsHandler) Seed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	count, err := h.seeder.Seed(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err, "Error seeding metrics")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Sample metrics seeded successfully", dto.SeedResponse{Count: count})
}

// Clear removes every sample the caller owns
// @Summary Clear metrics
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ClearResponse "Deleted count"
// @Router /metrics/clear [delete]
func (h *MetricsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	deleted, err := h.metrics.Clear(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err, "Error clearing metrics")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Metrics cleared successfully", dto.ClearResponse{DeletedCount: deleted})
}

func (h *MetricsHandler) series(w http.ResponseWriter, r *http.Request, types []string) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Not authenticated"))
		return
	}

	provider := chi.URLParam(r, "provider")
	days := parseDays(r.URL.Query().Get("days"))

	samples, err := h.metrics.Series(r.Context(), userID, provider, types, days)
	if err != nil {
		utils.WriteAnyError(w, err, "Failed to load metrics")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, samples)
}

func parseDays(raw string) int {
	if raw == "" {
		return metric.DefaultSeriesDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return metric.DefaultSeriesDays
	}
	return days
}

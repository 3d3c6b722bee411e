package handlers

import (
	"net/http"
	"strconv"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/repositories"
)

// AnalyticsHandler exposes the pipeline audit log.
type AnalyticsHandler struct {
	auditLog repositories.RecommendationLogRepository
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(auditLog repositories.RecommendationLogRepository) *AnalyticsHandler {
	return &AnalyticsHandler{auditLog: auditLog}
}

// GetFallbackRuns handles GET /api/analytics/fallback-runs
func (h *AnalyticsHandler) GetFallbackRuns(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.auditLog.ListFallbackRuns(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list fallback runs")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data": runs,
	})
}

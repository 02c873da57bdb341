package handlers

import (
	"net/http"

	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StatsHandler handles stats-related HTTP requests
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats/{profile_id}
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	stats, err := h.statsService.Compute(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to compute stats")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

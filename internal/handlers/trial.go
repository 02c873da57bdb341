package handlers

import (
	"encoding/json"
	"net/http"

	"medalarm-backend/internal/models"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TrialHandler handles premium-trial-related HTTP requests
type TrialHandler struct {
	trialService *services.TrialService
}

// NewTrialHandler creates a new trial handler
func NewTrialHandler(trialService *services.TrialService) *TrialHandler {
	return &TrialHandler{trialService: trialService}
}

// CreateTrial handles POST /api/v1/premium-trial
func (h *TrialHandler) CreateTrial(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trial, err := h.trialService.Start(r.Context(), req.ProfileID, req.TrialDays)
	if err != nil {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("Failed to create trial")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("trial_id", trial.ID).
		Str("profile_id", trial.ProfileID).
		Time("trial_end", trial.TrialEnd).
		Msg("Premium trial started")

	respondJSON(w, http.StatusOK, trial)
}

// GetTrial handles GET /api/v1/premium-trial/{profile_id}; responds null when
// the profile has no trial
func (h *TrialHandler) GetTrial(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	trial, err := h.trialService.Get(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to get trial")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trial)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"medalarm-backend/internal/models"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// CreateProfile handles POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.Create(ctx, &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create profile")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("profile_id", profile.ID).
		Str("name", profile.Name).
		Msg("Profile created")

	respondJSON(w, http.StatusOK, profile)
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list profiles")
		respondDomainError(w, err)
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	respondJSON(w, http.StatusOK, profiles)
}

// GetProfile handles GET /api/v1/profiles/{profile_id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	profile, err := h.profileService.Get(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to get profile")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// DeleteProfile handles DELETE /api/v1/profiles/{profile_id}
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	if err := h.profileService.Delete(r.Context(), profileID); err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to delete profile")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully"})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"medalarm-backend/internal/models"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MedicationHandler handles medication-related HTTP requests
type MedicationHandler struct {
	medService *services.MedicationService
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medService *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{medService: medService}
}

// CreateMedication handles POST /api/v1/medications
func (h *MedicationHandler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	med, err := h.medService.Create(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("Failed to create medication")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("medication_id", med.ID).
		Str("profile_id", med.ProfileID).
		Str("name", med.Name).
		Msg("Medication created")

	respondJSON(w, http.StatusOK, med)
}

// ListMedications handles GET /api/v1/medications?profile_id=
func (h *MedicationHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profile_id")

	meds, err := h.medService.List(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to list medications")
		respondDomainError(w, err)
		return
	}
	if meds == nil {
		meds = []*models.Medication{}
	}
	respondJSON(w, http.StatusOK, meds)
}

// GetMedication handles GET /api/v1/medications/{medication_id}
func (h *MedicationHandler) GetMedication(w http.ResponseWriter, r *http.Request) {
	medicationID := chi.URLParam(r, "medication_id")

	med, err := h.medService.Get(r.Context(), medicationID)
	if err != nil {
		log.Error().Err(err).Str("medication_id", medicationID).Msg("Failed to get medication")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

// UpdateMedication handles PUT /api/v1/medications/{medication_id}
func (h *MedicationHandler) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	medicationID := chi.URLParam(r, "medication_id")

	var req models.UpdateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	med, err := h.medService.Update(r.Context(), medicationID, &req)
	if err != nil {
		log.Error().Err(err).Str("medication_id", medicationID).Msg("Failed to update medication")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

// DeleteMedication handles DELETE /api/v1/medications/{medication_id}
func (h *MedicationHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	medicationID := chi.URLParam(r, "medication_id")

	if err := h.medService.Delete(r.Context(), medicationID); err != nil {
		log.Error().Err(err).Str("medication_id", medicationID).Msg("Failed to delete medication")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Medication deleted successfully"})
}

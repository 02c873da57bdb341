package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"medalarm-backend/internal/models"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AlarmHandler handles alarm-related HTTP requests
type AlarmHandler struct {
	alarmService *services.AlarmService
}

// NewAlarmHandler creates a new alarm handler
func NewAlarmHandler(alarmService *services.AlarmService) *AlarmHandler {
	return &AlarmHandler{alarmService: alarmService}
}

// CreateAlarm handles POST /api/v1/alarms
func (h *AlarmHandler) CreateAlarm(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	alarm, err := h.alarmService.Create(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("profile_id", req.ProfileID).Msg("Failed to create alarm")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("alarm_id", alarm.ID).
		Str("profile_id", alarm.ProfileID).
		Str("time", alarm.Time).
		Str("frequency", alarm.Frequency).
		Msg("Alarm created")

	respondJSON(w, http.StatusOK, alarm)
}

// ListAlarms handles GET /api/v1/alarms?profile_id=
func (h *AlarmHandler) ListAlarms(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profile_id")

	alarms, err := h.alarmService.List(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to list alarms")
		respondDomainError(w, err)
		return
	}
	if alarms == nil {
		alarms = []*models.Alarm{}
	}
	respondJSON(w, http.StatusOK, alarms)
}

// GetAlarm handles GET /api/v1/alarms/{alarm_id}
func (h *AlarmHandler) GetAlarm(w http.ResponseWriter, r *http.Request) {
	alarmID := chi.URLParam(r, "alarm_id")

	alarm, err := h.alarmService.Get(r.Context(), alarmID)
	if err != nil {
		log.Error().Err(err).Str("alarm_id", alarmID).Msg("Failed to get alarm")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alarm)
}

// UpdateAlarm handles PUT /api/v1/alarms/{alarm_id}
func (h *AlarmHandler) UpdateAlarm(w http.ResponseWriter, r *http.Request) {
	alarmID := chi.URLParam(r, "alarm_id")

	var req models.UpdateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	alarm, err := h.alarmService.Update(r.Context(), alarmID, &req)
	if err != nil {
		log.Error().Err(err).Str("alarm_id", alarmID).Msg("Failed to update alarm")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, alarm)
}

// DeleteAlarm handles DELETE /api/v1/alarms/{alarm_id}
func (h *AlarmHandler) DeleteAlarm(w http.ResponseWriter, r *http.Request) {
	alarmID := chi.URLParam(r, "alarm_id")

	if err := h.alarmService.Delete(r.Context(), alarmID); err != nil {
		log.Error().Err(err).Str("alarm_id", alarmID).Msg("Failed to delete alarm")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Alarm deleted successfully"})
}

// NextOccurrenceResponse is the payload for the next-occurrence endpoint
type NextOccurrenceResponse struct {
	AlarmID        string     `json:"alarm_id"`
	NextOccurrence *time.Time `json:"next_occurrence"`
}

// GetNextOccurrence handles GET /api/v1/alarms/{alarm_id}/next
func (h *AlarmHandler) GetNextOccurrence(w http.ResponseWriter, r *http.Request) {
	alarmID := chi.URLParam(r, "alarm_id")

	next, ok, err := h.alarmService.NextOccurrence(r.Context(), alarmID)
	if err != nil {
		log.Error().Err(err).Str("alarm_id", alarmID).Msg("Failed to compute next occurrence")
		respondDomainError(w, err)
		return
	}

	resp := NextOccurrenceResponse{AlarmID: alarmID}
	if ok {
		resp.NextOccurrence = &next
	}
	respondJSON(w, http.StatusOK, resp)
}

// CheckFiringRequest is the payload for a firing check; At defaults to now
type CheckFiringRequest struct {
	At *time.Time `json:"at,omitempty"`
}

// CheckFiring handles POST /api/v1/alarms/{alarm_id}/check
func (h *AlarmHandler) CheckFiring(w http.ResponseWriter, r *http.Request) {
	alarmID := chi.URLParam(r, "alarm_id")

	var req CheckFiringRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	at := time.Time{}
	if req.At != nil {
		at = *req.At
	}

	result, err := h.alarmService.CheckFiring(r.Context(), alarmID, at)
	if err != nil {
		log.Error().Err(err).Str("alarm_id", alarmID).Msg("Failed to check alarm firing")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

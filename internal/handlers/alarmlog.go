package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"medalarm-backend/internal/models"
	"medalarm-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AlarmLogHandler handles alarm-log-related HTTP requests
type AlarmLogHandler struct {
	logService *services.AlarmLogService
}

// NewAlarmLogHandler creates a new alarm log handler
func NewAlarmLogHandler(logService *services.AlarmLogService) *AlarmLogHandler {
	return &AlarmLogHandler{logService: logService}
}

// AlarmLogResponse is an alarm log plus any stock decrement warnings
type AlarmLogResponse struct {
	*models.AlarmLog
	Warnings []string `json:"warnings,omitempty"`
}

// CreateAlarmLog handles POST /api/v1/alarm-logs
func (h *AlarmLogHandler) CreateAlarmLog(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlarmLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logEntry, partial, err := h.logService.Log(r.Context(), &req)
	if err != nil {
		log.Error().
			Err(err).
			Str("alarm_id", req.AlarmID).
			Str("profile_id", req.ProfileID).
			Msg("Failed to create alarm log")
		respondDomainError(w, err)
		return
	}

	resp := AlarmLogResponse{AlarmLog: logEntry}
	if partial != nil {
		resp.Warnings = partial.Warnings
	}

	log.Info().
		Str("alarm_log_id", logEntry.ID).
		Str("alarm_id", logEntry.AlarmID).
		Str("status", logEntry.Status).
		Int("warnings", len(resp.Warnings)).
		Msg("Alarm log created")

	respondJSON(w, http.StatusOK, resp)
}

// ListAlarmLogs handles GET /api/v1/alarm-logs?profile_id=&limit=
func (h *AlarmLogHandler) ListAlarmLogs(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profile_id")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	logs, err := h.logService.List(r.Context(), profileID, limit)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to list alarm logs")
		respondDomainError(w, err)
		return
	}
	if logs == nil {
		logs = []*models.AlarmLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// ClearAlarmLogs handles DELETE /api/v1/alarm-logs/{profile_id}
func (h *AlarmLogHandler) ClearAlarmLogs(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	deleted, err := h.logService.ClearByProfile(r.Context(), profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to clear alarm logs")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Deleted %d logs", deleted),
		"deleted_count": deleted,
	})
}

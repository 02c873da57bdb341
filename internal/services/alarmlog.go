package services

import (
	"context"
	"fmt"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultLogListLimit = 100

// AlarmLogStore is the repository surface the log service needs
type AlarmLogStore interface {
	Create(ctx context.Context, logEntry *models.AlarmLog) error
	List(ctx context.Context, profileID string, limit int) ([]*models.AlarmLog, error)
	DeleteByProfile(ctx context.Context, profileID string) (int64, error)
}

// StockDecrementer decrements one unit of a medication's stock
type StockDecrementer interface {
	DecrementStock(ctx context.Context, id string) error
}

// AlarmLogService records occurrence outcomes and applies stock side effects
type AlarmLogService struct {
	logRepo AlarmLogStore
	stock   StockDecrementer
	clock   clock.Clock
}

// NewAlarmLogService creates a new alarm log service
func NewAlarmLogService(logRepo AlarmLogStore, stock StockDecrementer, clk clock.Clock) *AlarmLogService {
	return &AlarmLogService{
		logRepo: logRepo,
		stock:   stock,
		clock:   clk,
	}
}

// Log persists one occurrence outcome. For a taken outcome each referenced
// medication's stock is decremented by one; the decrements are independent
// writes and a failed decrement never rolls back the log or blocks the
// remaining medications. Collected failures come back as a PartialFailure
// alongside the persisted log.
func (s *AlarmLogService) Log(ctx context.Context, req *models.CreateAlarmLogRequest) (*models.AlarmLog, *errs.PartialFailure, error) {
	if req.AlarmID == "" {
		return nil, nil, errs.InvalidArgument("alarm_id is required")
	}
	if req.ProfileID == "" {
		return nil, nil, errs.InvalidArgument("profile_id is required")
	}
	switch req.Status {
	case models.StatusTaken, models.StatusSkipped, models.StatusMissed:
	default:
		return nil, nil, errs.InvalidArgument(fmt.Sprintf("unknown status %q", req.Status))
	}

	now := s.clock.Now()
	var confirmed *time.Time
	if req.Status != models.StatusMissed {
		confirmed = &now
	}

	logEntry := &models.AlarmLog{
		ID:            uuid.New().String(),
		AlarmID:       req.AlarmID,
		ProfileID:     req.ProfileID,
		MedicationIDs: req.MedicationIDs,
		ScheduledTime: req.ScheduledTime,
		ConfirmedTime: confirmed,
		Status:        req.Status,
		Notes:         req.Notes,
		CreatedAt:     now,
	}

	if err := s.logRepo.Create(ctx, logEntry); err != nil {
		return nil, nil, fmt.Errorf("failed to create alarm log: %w", err)
	}

	var partial errs.PartialFailure
	if req.Status == models.StatusTaken {
		for _, medID := range req.MedicationIDs {
			if err := s.stock.DecrementStock(ctx, medID); err != nil {
				log.Warn().
					Err(err).
					Str("medication_id", medID).
					Str("alarm_log_id", logEntry.ID).
					Msg("Failed to decrement stock")
				partial.Add("medication %s: %v", medID, err)
			}
		}
	}

	if len(partial.Warnings) > 0 {
		return logEntry, &partial, nil
	}
	return logEntry, nil, nil
}

// List retrieves alarm logs newest first, optionally filtered by profile ID
func (s *AlarmLogService) List(ctx context.Context, profileID string, limit int) ([]*models.AlarmLog, error) {
	if limit <= 0 {
		limit = defaultLogListLimit
	}
	return s.logRepo.List(ctx, profileID, limit)
}

// ClearByProfile deletes all logs for a profile and returns the count
func (s *AlarmLogService) ClearByProfile(ctx context.Context, profileID string) (int64, error) {
	return s.logRepo.DeleteByProfile(ctx, profileID)
}

package services

import (
	"context"
	"fmt"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"
	"medalarm-backend/internal/schedule"

	"github.com/google/uuid"
)

const defaultRepeatIntervalMinutes = 5

// AlarmStore is the repository surface the alarm service needs
type AlarmStore interface {
	Create(ctx context.Context, alarm *models.Alarm) error
	GetByID(ctx context.Context, id string) (*models.Alarm, error)
	List(ctx context.Context, profileID string) ([]*models.Alarm, error)
	Update(ctx context.Context, id string, req *models.UpdateAlarmRequest) error
	Delete(ctx context.Context, id string) error
}

// AlarmLogReader is the log surface firing checks need
type AlarmLogReader interface {
	ListByAlarmSince(ctx context.Context, alarmID string, since time.Time) ([]*models.AlarmLog, error)
}

// AlarmService handles alarm-related business logic
type AlarmService struct {
	alarmRepo AlarmStore
	logRepo   AlarmLogReader
	clock     clock.Clock
}

// NewAlarmService creates a new alarm service
func NewAlarmService(alarmRepo AlarmStore, logRepo AlarmLogReader, clk clock.Clock) *AlarmService {
	return &AlarmService{
		alarmRepo: alarmRepo,
		logRepo:   logRepo,
		clock:     clk,
	}
}

// Create creates a new alarm
func (s *AlarmService) Create(ctx context.Context, req *models.CreateAlarmRequest) (*models.Alarm, error) {
	if req.ProfileID == "" {
		return nil, errs.InvalidArgument("profile_id is required")
	}
	if len(req.MedicationIDs) == 0 {
		return nil, errs.InvalidArgument("medication_ids must not be empty")
	}
	if err := schedule.ValidateRule(req.Time, req.Frequency, req.SpecificDays, req.SpecificDates); err != nil {
		return nil, errs.InvalidArgument(err.Error())
	}

	isCritical := false
	if req.IsCritical != nil {
		isCritical = *req.IsCritical
	}
	repeatInterval := defaultRepeatIntervalMinutes
	if req.RepeatIntervalMinutes != nil {
		repeatInterval = *req.RepeatIntervalMinutes
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	alarm := &models.Alarm{
		ID:                    uuid.New().String(),
		ProfileID:             req.ProfileID,
		Time:                  req.Time,
		Frequency:             req.Frequency,
		SpecificDays:          req.SpecificDays,
		SpecificDates:         req.SpecificDates,
		MedicationIDs:         req.MedicationIDs,
		IsCritical:            isCritical,
		RepeatIntervalMinutes: repeatInterval,
		IsActive:              isActive,
		CreatedAt:             s.clock.Now(),
	}

	if err := s.alarmRepo.Create(ctx, alarm); err != nil {
		return nil, fmt.Errorf("failed to create alarm: %w", err)
	}

	return alarm, nil
}

// Get retrieves an alarm by ID
func (s *AlarmService) Get(ctx context.Context, id string) (*models.Alarm, error) {
	return s.alarmRepo.GetByID(ctx, id)
}

// List retrieves alarms ordered by time of day, optionally filtered by
// profile ID
func (s *AlarmService) List(ctx context.Context, profileID string) ([]*models.Alarm, error) {
	return s.alarmRepo.List(ctx, profileID)
}

// Update applies a partial update and returns the updated alarm. The merged
// recurrence rule is validated before anything is written.
func (s *AlarmService) Update(ctx context.Context, id string, req *models.UpdateAlarmRequest) (*models.Alarm, error) {
	if req.Empty() {
		return nil, errs.InvalidArgument("no fields to update")
	}
	if req.MedicationIDs != nil && len(req.MedicationIDs) == 0 {
		return nil, errs.InvalidArgument("medication_ids must not be empty")
	}

	current, err := s.alarmRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if req.Time != nil {
		merged.Time = *req.Time
	}
	if req.Frequency != nil {
		merged.Frequency = *req.Frequency
	}
	if req.SpecificDays != nil {
		merged.SpecificDays = req.SpecificDays
	}
	if req.SpecificDates != nil {
		merged.SpecificDates = req.SpecificDates
	}
	if err := schedule.ValidateRule(merged.Time, merged.Frequency, merged.SpecificDays, merged.SpecificDates); err != nil {
		return nil, errs.InvalidArgument(err.Error())
	}

	if err := s.alarmRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.alarmRepo.GetByID(ctx, id)
}

// Delete deletes an alarm by ID
func (s *AlarmService) Delete(ctx context.Context, id string) error {
	return s.alarmRepo.Delete(ctx, id)
}

// NextOccurrence computes the alarm's next occurrence at or after now. The
// boolean is false when the rule yields no further occurrences.
func (s *AlarmService) NextOccurrence(ctx context.Context, id string) (time.Time, bool, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, id)
	if err != nil {
		return time.Time{}, false, err
	}

	next, ok, err := schedule.NextOccurrence(alarm, s.clock.Now())
	if err != nil {
		return time.Time{}, false, errs.InvalidArgument(err.Error())
	}
	return next, ok, nil
}

// CheckFiring decides whether the alarm should fire at instant at (zero
// value means now), consulting today's logs for the alarm.
func (s *AlarmService) CheckFiring(ctx context.Context, id string, at time.Time) (schedule.CheckResult, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, id)
	if err != nil {
		return schedule.CheckResult{}, err
	}

	if at.IsZero() {
		at = s.clock.Now()
	}

	startOfDay := time.Date(at.UTC().Year(), at.UTC().Month(), at.UTC().Day(), 0, 0, 0, 0, time.UTC)
	logs, err := s.logRepo.ListByAlarmSince(ctx, id, startOfDay)
	if err != nil {
		return schedule.CheckResult{}, fmt.Errorf("failed to load logs for firing check: %w", err)
	}

	result, err := schedule.Check(alarm, logs, at)
	if err != nil {
		return schedule.CheckResult{}, errs.InvalidArgument(err.Error())
	}
	return result, nil
}

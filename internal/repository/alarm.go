package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// AlarmRepository handles database operations for alarms
type AlarmRepository struct {
	db DB
}

// NewAlarmRepository creates a new alarm repository
func NewAlarmRepository(db DB) *AlarmRepository {
	return &AlarmRepository{db: db}
}

const alarmColumns = `id, profile_id, alarm_time, frequency, specific_days,
		specific_dates, medication_ids, is_critical, repeat_interval_minutes,
		is_active, created_at`

// Create creates a new alarm
func (r *AlarmRepository) Create(ctx context.Context, alarm *models.Alarm) error {
	query := `
		INSERT INTO alarms (` + alarmColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		alarm.ID, alarm.ProfileID, alarm.Time, alarm.Frequency,
		alarm.SpecificDays, alarm.SpecificDates, alarm.MedicationIDs,
		alarm.IsCritical, alarm.RepeatIntervalMinutes, alarm.IsActive, alarm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alarm: %w", err)
	}
	return nil
}

// GetByID retrieves an alarm by ID
func (r *AlarmRepository) GetByID(ctx context.Context, id string) (*models.Alarm, error) {
	query := `SELECT ` + alarmColumns + ` FROM alarms WHERE id = $1`
	alarm, err := scanAlarm(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("alarm", id)
		}
		return nil, fmt.Errorf("failed to get alarm: %w", err)
	}
	return alarm, nil
}

// List retrieves alarms ordered by time of day, optionally filtered by
// profile ID
func (r *AlarmRepository) List(ctx context.Context, profileID string) ([]*models.Alarm, error) {
	query := `SELECT ` + alarmColumns + ` FROM alarms`
	var args []any
	if profileID != "" {
		query += ` WHERE profile_id = $1`
		args = append(args, profileID)
	}
	query += ` ORDER BY alarm_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alarms: %w", err)
	}
	defer rows.Close()

	var alarms []*models.Alarm
	for rows.Next() {
		alarm, err := scanAlarm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alarm: %w", err)
		}
		alarms = append(alarms, alarm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alarms: %w", err)
	}

	return alarms, nil
}

// CountActiveByProfile counts the profile's active alarms
func (r *AlarmRepository) CountActiveByProfile(ctx context.Context, profileID string) (int, error) {
	query := `SELECT COUNT(*) FROM alarms WHERE profile_id = $1 AND is_active`
	var count int
	if err := r.db.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alarms: %w", err)
	}
	return count, nil
}

// Update applies the non-nil fields of the request to the alarm
func (r *AlarmRepository) Update(ctx context.Context, id string, req *models.UpdateAlarmRequest) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Time != nil {
		add("alarm_time", *req.Time)
	}
	if req.Frequency != nil {
		add("frequency", *req.Frequency)
	}
	if req.SpecificDays != nil {
		add("specific_days", req.SpecificDays)
	}
	if req.SpecificDates != nil {
		add("specific_dates", req.SpecificDates)
	}
	if req.MedicationIDs != nil {
		add("medication_ids", req.MedicationIDs)
	}
	if req.IsCritical != nil {
		add("is_critical", *req.IsCritical)
	}
	if req.RepeatIntervalMinutes != nil {
		add("repeat_interval_minutes", *req.RepeatIntervalMinutes)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	if len(sets) == 0 {
		return errs.InvalidArgument("no fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE alarms SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update alarm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("alarm", id)
	}
	return nil
}

// Delete deletes an alarm by ID
func (r *AlarmRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM alarms WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete alarm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("alarm", id)
	}
	return nil
}

// DeleteByProfile deletes all alarms belonging to a profile
func (r *AlarmRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	query := `DELETE FROM alarms WHERE profile_id = $1`
	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to delete alarms for profile: %w", err)
	}
	return nil
}

// scanAlarm scans one alarm row
func scanAlarm(row pgx.Row) (*models.Alarm, error) {
	var alarm models.Alarm
	err := row.Scan(
		&alarm.ID, &alarm.ProfileID, &alarm.Time, &alarm.Frequency,
		&alarm.SpecificDays, &alarm.SpecificDates, &alarm.MedicationIDs,
		&alarm.IsCritical, &alarm.RepeatIntervalMinutes, &alarm.IsActive, &alarm.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &alarm, nil
}

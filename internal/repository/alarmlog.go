package repository

import (
	"context"
	"fmt"
	"time"

	"medalarm-backend/internal/models"
)

// AlarmLogRepository handles database operations for alarm logs
type AlarmLogRepository struct {
	db DB
}

// NewAlarmLogRepository creates a new alarm log repository
func NewAlarmLogRepository(db DB) *AlarmLogRepository {
	return &AlarmLogRepository{db: db}
}

const alarmLogColumns = `id, alarm_id, profile_id, medication_ids,
		scheduled_time, confirmed_time, status, notes, created_at`

// Create creates a new alarm log
func (r *AlarmLogRepository) Create(ctx context.Context, logEntry *models.AlarmLog) error {
	query := `
		INSERT INTO alarm_logs (` + alarmLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		logEntry.ID, logEntry.AlarmID, logEntry.ProfileID, logEntry.MedicationIDs,
		logEntry.ScheduledTime, logEntry.ConfirmedTime, logEntry.Status,
		logEntry.Notes, logEntry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alarm log: %w", err)
	}
	return nil
}

// List retrieves alarm logs ordered by creation instant descending, bounded
// by limit and optionally filtered by profile ID
func (r *AlarmLogRepository) List(ctx context.Context, profileID string, limit int) ([]*models.AlarmLog, error) {
	query := `SELECT ` + alarmLogColumns + ` FROM alarm_logs`
	var args []any
	if profileID != "" {
		query += ` WHERE profile_id = $1`
		args = append(args, profileID)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alarm logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AlarmLog
	for rows.Next() {
		var l models.AlarmLog
		err := rows.Scan(
			&l.ID, &l.AlarmID, &l.ProfileID, &l.MedicationIDs,
			&l.ScheduledTime, &l.ConfirmedTime, &l.Status, &l.Notes, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alarm log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alarm logs: %w", err)
	}

	return logs, nil
}

// ListByAlarmSince retrieves the alarm's logs whose scheduled time is at or
// after since. Used by firing checks to find logs for today's occurrence.
func (r *AlarmLogRepository) ListByAlarmSince(ctx context.Context, alarmID string, since time.Time) ([]*models.AlarmLog, error) {
	query := `
		SELECT ` + alarmLogColumns + `
		FROM alarm_logs
		WHERE alarm_id = $1 AND scheduled_time >= $2
		ORDER BY scheduled_time ASC
	`
	rows, err := r.db.Query(ctx, query, alarmID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list alarm logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AlarmLog
	for rows.Next() {
		var l models.AlarmLog
		err := rows.Scan(
			&l.ID, &l.AlarmID, &l.ProfileID, &l.MedicationIDs,
			&l.ScheduledTime, &l.ConfirmedTime, &l.Status, &l.Notes, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alarm log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alarm logs: %w", err)
	}

	return logs, nil
}

// DeleteByProfile deletes all logs belonging to a profile and returns the
// number of deleted rows
func (r *AlarmLogRepository) DeleteByProfile(ctx context.Context, profileID string) (int64, error) {
	query := `DELETE FROM alarm_logs WHERE profile_id = $1`
	result, err := r.db.Exec(ctx, query, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete alarm logs for profile: %w", err)
	}
	return result.RowsAffected(), nil
}

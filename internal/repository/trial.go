package repository

import (
	"context"
	"errors"
	"fmt"

	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// TrialRepository handles database operations for premium trials
type TrialRepository struct {
	db DB
}

// NewTrialRepository creates a new trial repository
func NewTrialRepository(db DB) *TrialRepository {
	return &TrialRepository{db: db}
}

// Create creates a new premium trial
func (r *TrialRepository) Create(ctx context.Context, trial *models.PremiumTrial) error {
	query := `
		INSERT INTO premium_trials (id, profile_id, trial_start, trial_end, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		trial.ID, trial.ProfileID, trial.TrialStart, trial.TrialEnd, trial.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create trial: %w", err)
	}
	return nil
}

// GetByProfile retrieves the trial for a profile. Returns (nil, nil) when no
// trial exists; a missing trial is not an error for callers.
func (r *TrialRepository) GetByProfile(ctx context.Context, profileID string) (*models.PremiumTrial, error) {
	query := `
		SELECT id, profile_id, trial_start, trial_end, is_active
		FROM premium_trials
		WHERE profile_id = $1
	`
	var trial models.PremiumTrial
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&trial.ID, &trial.ProfileID, &trial.TrialStart, &trial.TrialEnd, &trial.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trial: %w", err)
	}
	return &trial, nil
}

// Deactivate flips the trial's is_active to false
func (r *TrialRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE premium_trials SET is_active = false WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate trial: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("trial", id)
	}
	return nil
}

// DeleteByProfile deletes the trial belonging to a profile, if any
func (r *TrialRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	query := `DELETE FROM premium_trials WHERE profile_id = $1`
	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to delete trial for profile: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TrialStore is the repository surface the trial service needs
type TrialStore interface {
	Create(ctx context.Context, trial *models.PremiumTrial) error
	GetByProfile(ctx context.Context, profileID string) (*models.PremiumTrial, error)
	Deactivate(ctx context.Context, id string) error
}

// TrialService manages the premium trial window per profile
type TrialService struct {
	trialRepo   TrialStore
	clock       clock.Clock
	defaultDays int
}

// NewTrialService creates a new trial service
func NewTrialService(trialRepo TrialStore, clk clock.Clock, defaultDays int) *TrialService {
	return &TrialService{
		trialRepo:   trialRepo,
		clock:       clk,
		defaultDays: defaultDays,
	}
}

// Start creates the profile's trial. At most one trial exists per profile;
// a duplicate attempt fails with ErrAlreadyExists.
func (s *TrialService) Start(ctx context.Context, profileID string, trialDays int) (*models.PremiumTrial, error) {
	if profileID == "" {
		return nil, errs.InvalidArgument("profile_id is required")
	}
	if trialDays <= 0 {
		trialDays = s.defaultDays
	}

	existing, err := s.trialRepo.GetByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing trial: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("trial for profile %s: %w", profileID, errs.ErrAlreadyExists)
	}

	now := s.clock.Now()
	trial := &models.PremiumTrial{
		ID:         uuid.New().String(),
		ProfileID:  profileID,
		TrialStart: now,
		TrialEnd:   now.AddDate(0, 0, trialDays),
		IsActive:   true,
	}

	if err := s.trialRepo.Create(ctx, trial); err != nil {
		return nil, fmt.Errorf("failed to create trial: %w", err)
	}

	return trial, nil
}

// Get retrieves the profile's trial, lazily expiring it: when the trial is
// still marked active but its end has passed, the flip to inactive happens
// here, is persisted, and the updated record is returned. There is no
// background sweeper; every read performs this check. Returns (nil, nil)
// when the profile has no trial.
func (s *TrialService) Get(ctx context.Context, profileID string) (*models.PremiumTrial, error) {
	trial, err := s.trialRepo.GetByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if trial == nil {
		return nil, nil
	}

	if trial.IsActive && s.clock.Now().After(trial.TrialEnd) {
		if err := s.trialRepo.Deactivate(ctx, trial.ID); err != nil {
			return nil, fmt.Errorf("failed to expire trial: %w", err)
		}
		trial.IsActive = false
		log.Info().
			Str("profile_id", profileID).
			Str("trial_id", trial.ID).
			Msg("Premium trial expired")
	}

	return trial, nil
}

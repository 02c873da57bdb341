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

// ProfileStore is the repository surface the profile service needs
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Delete(ctx context.Context, id string) error
}

// ProfileCascade covers the per-entity bulk deletes a profile delete fans
// out to
type ProfileCascade interface {
	DeleteMedicationsByProfile(ctx context.Context, profileID string) error
	DeleteAlarmsByProfile(ctx context.Context, profileID string) error
	DeleteAlarmLogsByProfile(ctx context.Context, profileID string) (int64, error)
	DeleteTrialByProfile(ctx context.Context, profileID string) error
}

// ProfileService handles profile-related business logic
type ProfileService struct {
	profileRepo ProfileStore
	cascade     ProfileCascade
	clock       clock.Clock
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ProfileStore, cascade ProfileCascade, clk clock.Clock) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		cascade:     cascade,
		clock:       clk,
	}
}

// Create creates a new profile
func (s *ProfileService) Create(ctx context.Context, req *models.CreateProfileRequest) (*models.Profile, error) {
	if req.Name == "" {
		return nil, errs.InvalidArgument("name is required")
	}

	profile := &models.Profile{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Color:     req.Color,
		Avatar:    req.Avatar,
		CreatedAt: s.clock.Now(),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

// Get retrieves a profile by ID
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// List retrieves all profiles
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// Delete deletes a profile and cascades to its medications, alarms, alarm
// logs and premium trial
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cascade.DeleteMedicationsByProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade medications: %w", err)
	}
	if err := s.cascade.DeleteAlarmsByProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade alarms: %w", err)
	}
	deleted, err := s.cascade.DeleteAlarmLogsByProfile(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cascade alarm logs: %w", err)
	}
	if err := s.cascade.DeleteTrialByProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade trial: %w", err)
	}

	log.Info().
		Str("profile_id", id).
		Int64("deleted_logs", deleted).
		Msg("Profile deleted with owned records")

	return nil
}

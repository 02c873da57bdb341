package services

import (
	"context"
	"fmt"
	"math"

	"medalarm-backend/internal/models"
)

// adherenceWindow is the number of most recent logs (by creation instant,
// not scheduled time) the adherence rate is derived from
const adherenceWindow = 7

// StatsMedicationReader is the medication surface stats aggregation needs
type StatsMedicationReader interface {
	CountByProfile(ctx context.Context, profileID string) (int, error)
	ListLowStock(ctx context.Context, profileID string) ([]*models.Medication, error)
}

// StatsAlarmReader is the alarm surface stats aggregation needs
type StatsAlarmReader interface {
	CountActiveByProfile(ctx context.Context, profileID string) (int, error)
}

// StatsLogReader is the log surface stats aggregation needs
type StatsLogReader interface {
	List(ctx context.Context, profileID string, limit int) ([]*models.AlarmLog, error)
}

// StatsService derives per-profile medication and adherence statistics
type StatsService struct {
	meds   StatsMedicationReader
	alarms StatsAlarmReader
	logs   StatsLogReader
}

// NewStatsService creates a new stats service
func NewStatsService(meds StatsMedicationReader, alarms StatsAlarmReader, logs StatsLogReader) *StatsService {
	return &StatsService{
		meds:   meds,
		alarms: alarms,
		logs:   logs,
	}
}

// Compute derives the profile's stats from current medication and log state.
// The adherence rate covers the trailing adherenceWindow logged events (not
// a trailing-day window) and is 0 when no logs exist; the low-stock boundary
// is inclusive.
func (s *StatsService) Compute(ctx context.Context, profileID string) (*models.Stats, error) {
	medsCount, err := s.meds.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count medications: %w", err)
	}

	alarmsCount, err := s.alarms.CountActiveByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count alarms: %w", err)
	}

	lowStock, err := s.meds.ListLowStock(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock medications: %w", err)
	}

	recent, err := s.logs.List(ctx, profileID, adherenceWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent logs: %w", err)
	}

	adherence := 0.0
	if len(recent) > 0 {
		taken := 0
		for _, l := range recent {
			if l.Status == models.StatusTaken {
				taken++
			}
		}
		adherence = roundOneDecimal(float64(taken) / float64(len(recent)) * 100)
	}

	if lowStock == nil {
		lowStock = []*models.Medication{}
	}

	return &models.Stats{
		MedicationsCount: medsCount,
		AlarmsCount:      alarmsCount,
		LowStockCount:    len(lowStock),
		LowStockItems:    lowStock,
		AdherenceRate:    adherence,
	}, nil
}

// roundOneDecimal rounds to one decimal place
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

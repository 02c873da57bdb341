package repository

import (
	"context"
	"testing"
	"time"

	"medalarm-backend/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialGetByProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTrialRepository(mock)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 15)
	rows := pgxmock.NewRows([]string{"id", "profile_id", "trial_start", "trial_end", "is_active"}).
		AddRow("trial-1", "profile-1", start, end, true)

	mock.ExpectQuery("FROM premium_trials").
		WithArgs("profile-1").
		WillReturnRows(rows)

	trial, err := repo.GetByProfile(context.Background(), "profile-1")
	require.NoError(t, err)
	require.NotNil(t, trial)
	assert.Equal(t, "trial-1", trial.ID)
	assert.Equal(t, end, trial.TrialEnd)
	assert.True(t, trial.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrialGetByProfile_NoTrial(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTrialRepository(mock)

	mock.ExpectQuery("FROM premium_trials").
		WithArgs("profile-1").
		WillReturnError(pgx.ErrNoRows)

	trial, err := repo.GetByProfile(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Nil(t, trial)
}

func TestTrialDeactivate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTrialRepository(mock)

	mock.ExpectExec("UPDATE premium_trials SET is_active = false").
		WithArgs("trial-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Deactivate(context.Background(), "trial-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrialDeactivate_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTrialRepository(mock)

	mock.ExpectExec("UPDATE premium_trials SET is_active = false").
		WithArgs("trial-gone").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Deactivate(context.Background(), "trial-gone")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

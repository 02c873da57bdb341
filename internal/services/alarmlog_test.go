package services

import (
	"context"
	"testing"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	created []*models.AlarmLog
	logs    []*models.AlarmLog
	deleted map[string]int64
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{deleted: map[string]int64{}}
}

func (f *fakeLogStore) Create(ctx context.Context, l *models.AlarmLog) error {
	f.created = append(f.created, l)
	return nil
}

func (f *fakeLogStore) List(ctx context.Context, profileID string, limit int) ([]*models.AlarmLog, error) {
	if limit > len(f.logs) {
		limit = len(f.logs)
	}
	return f.logs[:limit], nil
}

func (f *fakeLogStore) DeleteByProfile(ctx context.Context, profileID string) (int64, error) {
	return f.deleted[profileID], nil
}

type fakeStock struct {
	decrements map[string]int
	missing    map[string]bool
}

func newFakeStock() *fakeStock {
	return &fakeStock{decrements: map[string]int{}, missing: map[string]bool{}}
}

func (f *fakeStock) DecrementStock(ctx context.Context, id string) error {
	if f.missing[id] {
		return errs.NotFound("medication", id)
	}
	f.decrements[id]++
	return nil
}

func TestLog_TakenDecrementsEveryMedication(t *testing.T) {
	store := newFakeLogStore()
	stock := newFakeStock()
	now := time.Date(2025, time.January, 10, 8, 30, 15, 0, time.UTC)
	svc := NewAlarmLogService(store, stock, clock.NewFake(now))

	logEntry, partial, err := svc.Log(context.Background(), &models.CreateAlarmLogRequest{
		AlarmID:       "alarm-1",
		ProfileID:     "profile-1",
		MedicationIDs: []string{"med-1", "med-2"},
		ScheduledTime: time.Date(2025, time.January, 10, 8, 30, 0, 0, time.UTC),
		Status:        models.StatusTaken,
	})

	require.NoError(t, err)
	assert.Nil(t, partial)
	require.Len(t, store.created, 1)
	assert.NotEmpty(t, logEntry.ID)
	assert.Equal(t, 1, stock.decrements["med-1"])
	assert.Equal(t, 1, stock.decrements["med-2"])
	require.NotNil(t, logEntry.ConfirmedTime)
	assert.Equal(t, now, *logEntry.ConfirmedTime)
	assert.Equal(t, now, logEntry.CreatedAt)
}

func TestLog_SkippedAndMissedLeaveStockAlone(t *testing.T) {
	for _, status := range []string{models.StatusSkipped, models.StatusMissed} {
		store := newFakeLogStore()
		stock := newFakeStock()
		svc := NewAlarmLogService(store, stock, clock.NewFake(time.Now()))

		logEntry, partial, err := svc.Log(context.Background(), &models.CreateAlarmLogRequest{
			AlarmID:       "alarm-1",
			ProfileID:     "profile-1",
			MedicationIDs: []string{"med-1"},
			Status:        status,
		})

		require.NoError(t, err, status)
		assert.Nil(t, partial)
		assert.Empty(t, stock.decrements, status)
		if status == models.StatusMissed {
			assert.Nil(t, logEntry.ConfirmedTime)
		} else {
			assert.NotNil(t, logEntry.ConfirmedTime)
		}
	}
}

func TestLog_MissingMedicationIsPartialFailure(t *testing.T) {
	store := newFakeLogStore()
	stock := newFakeStock()
	stock.missing["med-gone"] = true
	svc := NewAlarmLogService(store, stock, clock.NewFake(time.Now()))

	logEntry, partial, err := svc.Log(context.Background(), &models.CreateAlarmLogRequest{
		AlarmID:       "alarm-1",
		ProfileID:     "profile-1",
		MedicationIDs: []string{"med-gone", "med-2"},
		Status:        models.StatusTaken,
	})

	// The log itself still succeeds and the surviving decrement applies.
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.NotNil(t, logEntry)
	assert.Equal(t, 1, stock.decrements["med-2"])

	require.NotNil(t, partial)
	require.Len(t, partial.Warnings, 1)
	assert.Contains(t, partial.Warnings[0], "med-gone")
}

func TestLog_RejectsUnknownStatus(t *testing.T) {
	svc := NewAlarmLogService(newFakeLogStore(), newFakeStock(), clock.NewFake(time.Now()))

	_, _, err := svc.Log(context.Background(), &models.CreateAlarmLogRequest{
		AlarmID:   "alarm-1",
		ProfileID: "profile-1",
		Status:    "snoozed",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestLog_RequiresReferences(t *testing.T) {
	svc := NewAlarmLogService(newFakeLogStore(), newFakeStock(), clock.NewFake(time.Now()))

	_, _, err := svc.Log(context.Background(), &models.CreateAlarmLogRequest{
		ProfileID: "profile-1",
		Status:    models.StatusTaken,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, _, err = svc.Log(context.Background(), &models.CreateAlarmLogRequest{
		AlarmID: "alarm-1",
		Status:  models.StatusTaken,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestList_DefaultsLimit(t *testing.T) {
	store := newFakeLogStore()
	for i := 0; i < 150; i++ {
		store.logs = append(store.logs, &models.AlarmLog{ID: "log"})
	}
	svc := NewAlarmLogService(store, newFakeStock(), clock.NewFake(time.Now()))

	logs, err := svc.List(context.Background(), "profile-1", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 100)
}

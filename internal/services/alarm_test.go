package services

import (
	"context"
	"testing"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"
	"medalarm-backend/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlarmStore struct {
	alarms map[string]*models.Alarm
}

func newFakeAlarmStore() *fakeAlarmStore {
	return &fakeAlarmStore{alarms: map[string]*models.Alarm{}}
}

func (f *fakeAlarmStore) Create(ctx context.Context, a *models.Alarm) error {
	cp := *a
	f.alarms[a.ID] = &cp
	return nil
}

func (f *fakeAlarmStore) GetByID(ctx context.Context, id string) (*models.Alarm, error) {
	a, ok := f.alarms[id]
	if !ok {
		return nil, errs.NotFound("alarm", id)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAlarmStore) List(ctx context.Context, profileID string) ([]*models.Alarm, error) {
	var out []*models.Alarm
	for _, a := range f.alarms {
		if profileID == "" || a.ProfileID == profileID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlarmStore) Update(ctx context.Context, id string, req *models.UpdateAlarmRequest) error {
	a, ok := f.alarms[id]
	if !ok {
		return errs.NotFound("alarm", id)
	}
	if req.Time != nil {
		a.Time = *req.Time
	}
	if req.Frequency != nil {
		a.Frequency = *req.Frequency
	}
	if req.SpecificDays != nil {
		a.SpecificDays = req.SpecificDays
	}
	if req.SpecificDates != nil {
		a.SpecificDates = req.SpecificDates
	}
	if req.MedicationIDs != nil {
		a.MedicationIDs = req.MedicationIDs
	}
	if req.IsCritical != nil {
		a.IsCritical = *req.IsCritical
	}
	if req.RepeatIntervalMinutes != nil {
		a.RepeatIntervalMinutes = *req.RepeatIntervalMinutes
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	return nil
}

func (f *fakeAlarmStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.alarms[id]; !ok {
		return errs.NotFound("alarm", id)
	}
	delete(f.alarms, id)
	return nil
}

type fakeAlarmLogReader struct {
	logs []*models.AlarmLog
}

func (f *fakeAlarmLogReader) ListByAlarmSince(ctx context.Context, alarmID string, since time.Time) ([]*models.AlarmLog, error) {
	var out []*models.AlarmLog
	for _, l := range f.logs {
		if l.AlarmID == alarmID && !l.ScheduledTime.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func newAlarmService(store *fakeAlarmStore, logs *fakeAlarmLogReader, now time.Time) *AlarmService {
	return NewAlarmService(store, logs, clock.NewFake(now))
}

func TestCreateAlarm_Defaults(t *testing.T) {
	store := newFakeAlarmStore()
	now := time.Date(2025, time.January, 10, 7, 0, 0, 0, time.UTC)
	svc := newAlarmService(store, &fakeAlarmLogReader{}, now)

	alarm, err := svc.Create(context.Background(), &models.CreateAlarmRequest{
		ProfileID:     "profile-1",
		Time:          "08:30",
		Frequency:     models.FrequencyDaily,
		MedicationIDs: []string{"med-1"},
	})
	require.NoError(t, err)

	assert.False(t, alarm.IsCritical)
	assert.True(t, alarm.IsActive)
	assert.Equal(t, 5, alarm.RepeatIntervalMinutes)
	assert.Equal(t, now, alarm.CreatedAt)
}

func TestCreateAlarm_Validation(t *testing.T) {
	svc := newAlarmService(newFakeAlarmStore(), &fakeAlarmLogReader{}, time.Now())

	tests := []struct {
		name string
		req  models.CreateAlarmRequest
	}{
		{"missing profile", models.CreateAlarmRequest{
			Time: "08:30", Frequency: models.FrequencyDaily, MedicationIDs: []string{"m"},
		}},
		{"empty medications", models.CreateAlarmRequest{
			ProfileID: "p", Time: "08:30", Frequency: models.FrequencyDaily,
		}},
		{"specific without days or dates", models.CreateAlarmRequest{
			ProfileID: "p", Time: "08:30", Frequency: models.FrequencySpecific,
			MedicationIDs: []string{"m"},
		}},
		{"bad time", models.CreateAlarmRequest{
			ProfileID: "p", Time: "830", Frequency: models.FrequencyDaily,
			MedicationIDs: []string{"m"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestUpdateAlarm_ValidatesMergedRule(t *testing.T) {
	store := newFakeAlarmStore()
	svc := newAlarmService(store, &fakeAlarmLogReader{}, time.Now())

	alarm, err := svc.Create(context.Background(), &models.CreateAlarmRequest{
		ProfileID:     "profile-1",
		Time:          "08:30",
		Frequency:     models.FrequencyDaily,
		MedicationIDs: []string{"med-1"},
	})
	require.NoError(t, err)

	// Switching to specific without supplying days or dates is malformed
	freq := models.FrequencySpecific
	_, err = svc.Update(context.Background(), alarm.ID, &models.UpdateAlarmRequest{Frequency: &freq})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	// Supplying days alongside makes it valid
	updated, err := svc.Update(context.Background(), alarm.ID, &models.UpdateAlarmRequest{
		Frequency:    &freq,
		SpecificDays: []int{1, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencySpecific, updated.Frequency)
	assert.Equal(t, []int{1, 3}, updated.SpecificDays)
}

func TestUpdateAlarm_EmptyRequestRejected(t *testing.T) {
	svc := newAlarmService(newFakeAlarmStore(), &fakeAlarmLogReader{}, time.Now())

	_, err := svc.Update(context.Background(), "any", &models.UpdateAlarmRequest{})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCheckFiring_UsesTodaysLogs(t *testing.T) {
	store := newFakeAlarmStore()
	now := time.Date(2025, time.January, 10, 8, 30, 10, 0, time.UTC)
	logs := &fakeAlarmLogReader{}
	svc := newAlarmService(store, logs, now)

	alarm, err := svc.Create(context.Background(), &models.CreateAlarmRequest{
		ProfileID:     "profile-1",
		Time:          "08:30",
		Frequency:     models.FrequencyDaily,
		MedicationIDs: []string{"med-1"},
	})
	require.NoError(t, err)

	result, err := svc.CheckFiring(context.Background(), alarm.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, schedule.Due, result.Decision)

	// Once a log covers the occurrence the same check goes quiet
	logs.logs = append(logs.logs, &models.AlarmLog{
		AlarmID:       alarm.ID,
		Status:        models.StatusTaken,
		ScheduledTime: time.Date(2025, time.January, 10, 8, 30, 0, 0, time.UTC),
	})
	result, err = svc.CheckFiring(context.Background(), alarm.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, schedule.NotDue, result.Decision)
}

func TestNextOccurrence_UsesClock(t *testing.T) {
	store := newFakeAlarmStore()
	now := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	svc := newAlarmService(store, &fakeAlarmLogReader{}, now)

	alarm, err := svc.Create(context.Background(), &models.CreateAlarmRequest{
		ProfileID:     "profile-1",
		Time:          "08:30",
		Frequency:     models.FrequencyDaily,
		MedicationIDs: []string{"med-1"},
	})
	require.NoError(t, err)

	next, ok, err := svc.NextOccurrence(context.Background(), alarm.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 11, 8, 30, 0, 0, time.UTC), next)
}

func TestAlarm_NotFound(t *testing.T) {
	svc := newAlarmService(newFakeAlarmStore(), &fakeAlarmLogReader{}, time.Now())

	_, err := svc.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, _, err = svc.NextOccurrence(context.Background(), "absent")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.CheckFiring(context.Background(), "absent", time.Time{})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"medalarm-backend/internal/clock"
	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedStore struct {
	meds map[string]*models.Medication
}

func newFakeMedStore() *fakeMedStore {
	return &fakeMedStore{meds: map[string]*models.Medication{}}
}

func (f *fakeMedStore) Create(ctx context.Context, m *models.Medication) error {
	cp := *m
	f.meds[m.ID] = &cp
	return nil
}

func (f *fakeMedStore) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	m, ok := f.meds[id]
	if !ok {
		return nil, errs.NotFound("medication", id)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedStore) List(ctx context.Context, profileID string) ([]*models.Medication, error) {
	var out []*models.Medication
	for _, m := range f.meds {
		if profileID == "" || m.ProfileID == profileID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMedStore) Update(ctx context.Context, id string, req *models.UpdateMedicationRequest) error {
	m, ok := f.meds[id]
	if !ok {
		return errs.NotFound("medication", id)
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.StockQuantity != nil {
		m.StockQuantity = *req.StockQuantity
	}
	if req.PrescriptionPhoto != nil {
		m.PrescriptionPhoto = req.PrescriptionPhoto
	}
	return nil
}

func (f *fakeMedStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.meds[id]; !ok {
		return errs.NotFound("medication", id)
	}
	delete(f.meds, id)
	return nil
}

type fakeAttachmentStore struct {
	stored map[string][]byte
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{stored: map[string][]byte{}}
}

func (f *fakeAttachmentStore) Store(ctx context.Context, key, contentType string, data []byte) (string, bool, error) {
	f.stored[key] = data
	return "https://attachments.example/" + key, true, nil
}

func TestCreateMedication_Defaults(t *testing.T) {
	store := newFakeMedStore()
	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	svc := NewMedicationService(store, InlineAttachmentStore{}, clock.NewFake(now))

	med, err := svc.Create(context.Background(), &models.CreateMedicationRequest{
		ProfileID: "profile-1",
		Name:      "Metformin",
		Dosage:    "500mg",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityNormal, med.Priority)
	assert.Equal(t, 0, med.StockQuantity)
	assert.Equal(t, 10, med.MinStockAlert)
	assert.True(t, med.IsPrescriptionRequired)
	assert.Equal(t, now, med.CreatedAt)
}

func TestCreateMedication_Validation(t *testing.T) {
	svc := NewMedicationService(newFakeMedStore(), InlineAttachmentStore{}, clock.NewFake(time.Now()))

	_, err := svc.Create(context.Background(), &models.CreateMedicationRequest{Name: "x"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = svc.Create(context.Background(), &models.CreateMedicationRequest{ProfileID: "p"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestUpdateMedication_EmptyRequestRejected(t *testing.T) {
	svc := NewMedicationService(newFakeMedStore(), InlineAttachmentStore{}, clock.NewFake(time.Now()))

	_, err := svc.Update(context.Background(), "any", &models.UpdateMedicationRequest{})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCreateMedication_OffloadsBase64Image(t *testing.T) {
	store := newFakeMedStore()
	attachments := newFakeAttachmentStore()
	svc := NewMedicationService(store, attachments, clock.NewFake(time.Now()))

	payload := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	med, err := svc.Create(context.Background(), &models.CreateMedicationRequest{
		ProfileID:         "profile-1",
		Name:              "Metformin",
		PrescriptionPhoto: &payload,
	})
	require.NoError(t, err)

	require.NotNil(t, med.PrescriptionPhoto)
	assert.Contains(t, *med.PrescriptionPhoto, "https://attachments.example/")
	assert.Len(t, attachments.stored, 1)
}

func TestCreateMedication_InlineStoreKeepsPayload(t *testing.T) {
	store := newFakeMedStore()
	svc := NewMedicationService(store, InlineAttachmentStore{}, clock.NewFake(time.Now()))

	payload := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	med, err := svc.Create(context.Background(), &models.CreateMedicationRequest{
		ProfileID:         "profile-1",
		Name:              "Metformin",
		PrescriptionPhoto: &payload,
	})
	require.NoError(t, err)

	require.NotNil(t, med.PrescriptionPhoto)
	assert.Equal(t, payload, *med.PrescriptionPhoto)
}

func TestDecodeImagePayload(t *testing.T) {
	raw := []byte("image bytes")
	b64 := base64.StdEncoding.EncodeToString(raw)

	contentType, data, ok := decodeImagePayload(b64)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, raw, data)

	contentType, data, ok = decodeImagePayload("data:image/png;base64," + b64)
	require.True(t, ok)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, raw, data)

	// Already-offloaded URLs stay untouched
	_, _, ok = decodeImagePayload("https://bucket.s3.us-east-1.amazonaws.com/key.jpg")
	assert.False(t, ok)
}

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

const defaultMinStockAlert = 10

// MedicationStore is the repository surface the medication service needs
type MedicationStore interface {
	Create(ctx context.Context, med *models.Medication) error
	GetByID(ctx context.Context, id string) (*models.Medication, error)
	List(ctx context.Context, profileID string) ([]*models.Medication, error)
	Update(ctx context.Context, id string, req *models.UpdateMedicationRequest) error
	Delete(ctx context.Context, id string) error
}

// MedicationService handles medication-related business logic
type MedicationService struct {
	medRepo     MedicationStore
	attachments AttachmentStore
	clock       clock.Clock
}

// NewMedicationService creates a new medication service
func NewMedicationService(medRepo MedicationStore, attachments AttachmentStore, clk clock.Clock) *MedicationService {
	return &MedicationService{
		medRepo:     medRepo,
		attachments: attachments,
		clock:       clk,
	}
}

// Create creates a new medication
func (s *MedicationService) Create(ctx context.Context, req *models.CreateMedicationRequest) (*models.Medication, error) {
	if req.ProfileID == "" {
		return nil, errs.InvalidArgument("profile_id is required")
	}
	if req.Name == "" {
		return nil, errs.InvalidArgument("name is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	minStockAlert := defaultMinStockAlert
	if req.MinStockAlert != nil {
		minStockAlert = *req.MinStockAlert
	}
	prescriptionRequired := true
	if req.IsPrescriptionRequired != nil {
		prescriptionRequired = *req.IsPrescriptionRequired
	}

	med := &models.Medication{
		ID:                     uuid.New().String(),
		ProfileID:              req.ProfileID,
		Name:                   req.Name,
		Dosage:                 req.Dosage,
		Priority:               priority,
		StockQuantity:          req.StockQuantity,
		MinStockAlert:          minStockAlert,
		DoctorName:             req.DoctorName,
		DoctorContact:          req.DoctorContact,
		IsPrescriptionRequired: prescriptionRequired,
		CreatedAt:              s.clock.Now(),
	}
	med.PrescriptionPhoto = s.offloadImage(ctx, attachmentKey(med.ID, "prescription"), req.PrescriptionPhoto)
	med.BoxPhoto = s.offloadImage(ctx, attachmentKey(med.ID, "box"), req.BoxPhoto)

	if err := s.medRepo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	return med, nil
}

// Get retrieves a medication by ID
func (s *MedicationService) Get(ctx context.Context, id string) (*models.Medication, error) {
	return s.medRepo.GetByID(ctx, id)
}

// List retrieves medications, optionally filtered by profile ID
func (s *MedicationService) List(ctx context.Context, profileID string) ([]*models.Medication, error) {
	return s.medRepo.List(ctx, profileID)
}

// Update applies a partial update and returns the updated medication
func (s *MedicationService) Update(ctx context.Context, id string, req *models.UpdateMedicationRequest) (*models.Medication, error) {
	if req.Empty() {
		return nil, errs.InvalidArgument("no fields to update")
	}

	req.PrescriptionPhoto = s.offloadImage(ctx, attachmentKey(id, "prescription"), req.PrescriptionPhoto)
	req.BoxPhoto = s.offloadImage(ctx, attachmentKey(id, "box"), req.BoxPhoto)

	if err := s.medRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.medRepo.GetByID(ctx, id)
}

// Delete deletes a medication by ID
func (s *MedicationService) Delete(ctx context.Context, id string) error {
	return s.medRepo.Delete(ctx, id)
}

// offloadImage moves a base64 image payload into the attachment store. On
// any failure the payload stays inline so a storage outage never blocks the
// medication write.
func (s *MedicationService) offloadImage(ctx context.Context, key string, value *string) *string {
	if value == nil {
		return nil
	}

	contentType, data, ok := decodeImagePayload(*value)
	if !ok {
		return value
	}

	url, stored, err := s.attachments.Store(ctx, key, contentType, data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to offload attachment, keeping inline")
		return value
	}
	if !stored {
		return value
	}
	return &url
}

// attachmentKey builds the object key for a medication image
func attachmentKey(medicationID, kind string) string {
	return fmt.Sprintf("medications/%s/%s.jpg", medicationID, kind)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medalarm-backend/internal/errs"
	"medalarm-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// MedicationRepository handles database operations for medications
type MedicationRepository struct {
	db DB
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(db DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

const medicationColumns = `id, profile_id, name, dosage, priority, stock_quantity,
		min_stock_alert, doctor_name, doctor_contact, prescription_photo,
		box_photo, is_prescription_required, created_at`

// Create creates a new medication
func (r *MedicationRepository) Create(ctx context.Context, med *models.Medication) error {
	query := `
		INSERT INTO medications (` + medicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		med.ID, med.ProfileID, med.Name, med.Dosage, med.Priority,
		med.StockQuantity, med.MinStockAlert, med.DoctorName, med.DoctorContact,
		med.PrescriptionPhoto, med.BoxPhoto, med.IsPrescriptionRequired, med.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

// GetByID retrieves a medication by ID
func (r *MedicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	med, err := scanMedication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("medication", id)
		}
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return med, nil
}

// List retrieves medications, optionally filtered by profile ID
func (r *MedicationRepository) List(ctx context.Context, profileID string) ([]*models.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications`
	var args []any
	if profileID != "" {
		query += ` WHERE profile_id = $1`
		args = append(args, profileID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return meds, nil
}

// ListLowStock retrieves the profile's medications whose stock is at or
// below their alert threshold
func (r *MedicationRepository) ListLowStock(ctx context.Context, profileID string) ([]*models.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE profile_id = $1 AND stock_quantity <= min_stock_alert
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock medications: %w", err)
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return meds, nil
}

// CountByProfile counts the profile's medications
func (r *MedicationRepository) CountByProfile(ctx context.Context, profileID string) (int, error) {
	query := `SELECT COUNT(*) FROM medications WHERE profile_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count medications: %w", err)
	}
	return count, nil
}

// Update applies the non-nil fields of the request to the medication
func (r *MedicationRepository) Update(ctx context.Context, id string, req *models.UpdateMedicationRequest) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Dosage != nil {
		add("dosage", *req.Dosage)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}
	if req.StockQuantity != nil {
		add("stock_quantity", *req.StockQuantity)
	}
	if req.MinStockAlert != nil {
		add("min_stock_alert", *req.MinStockAlert)
	}
	if req.DoctorName != nil {
		add("doctor_name", *req.DoctorName)
	}
	if req.DoctorContact != nil {
		add("doctor_contact", *req.DoctorContact)
	}
	if req.PrescriptionPhoto != nil {
		add("prescription_photo", *req.PrescriptionPhoto)
	}
	if req.BoxPhoto != nil {
		add("box_photo", *req.BoxPhoto)
	}
	if req.IsPrescriptionRequired != nil {
		add("is_prescription_required", *req.IsPrescriptionRequired)
	}

	if len(sets) == 0 {
		return errs.InvalidArgument("no fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE medications SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("medication", id)
	}
	return nil
}

// DecrementStock decrements the medication's stock by one. No floor is
// applied; a negative stock is a visible over-dispensed signal.
func (r *MedicationRepository) DecrementStock(ctx context.Context, id string) error {
	query := `UPDATE medications SET stock_quantity = stock_quantity - 1 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("medication", id)
	}
	return nil
}

// Delete deletes a medication by ID
func (r *MedicationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM medications WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.NotFound("medication", id)
	}
	return nil
}

// DeleteByProfile deletes all medications belonging to a profile
func (r *MedicationRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	query := `DELETE FROM medications WHERE profile_id = $1`
	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to delete medications for profile: %w", err)
	}
	return nil
}

// scanMedication scans one medication row
func scanMedication(row pgx.Row) (*models.Medication, error) {
	var med models.Medication
	err := row.Scan(
		&med.ID, &med.ProfileID, &med.Name, &med.Dosage, &med.Priority,
		&med.StockQuantity, &med.MinStockAlert, &med.DoctorName, &med.DoctorContact,
		&med.PrescriptionPhoto, &med.BoxPhoto, &med.IsPrescriptionRequired, &med.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &med, nil
}

package models

import "time"

// CreateProfileRequest is the payload for creating a profile
type CreateProfileRequest struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}

// CreateMedicationRequest is the payload for creating a medication
type CreateMedicationRequest struct {
	ProfileID              string  `json:"profile_id"`
	Name                   string  `json:"name"`
	Dosage                 string  `json:"dosage"`
	Priority               string  `json:"priority"`
	StockQuantity          int     `json:"stock_quantity"`
	MinStockAlert          *int    `json:"min_stock_alert,omitempty"`
	DoctorName             *string `json:"doctor_name,omitempty"`
	DoctorContact          *string `json:"doctor_contact,omitempty"`
	PrescriptionPhoto      *string `json:"prescription_photo,omitempty"`
	BoxPhoto               *string `json:"box_photo,omitempty"`
	IsPrescriptionRequired *bool   `json:"is_prescription_required,omitempty"`
}

// UpdateMedicationRequest is a partial update; nil fields are left unchanged
type UpdateMedicationRequest struct {
	Name                   *string `json:"name,omitempty"`
	Dosage                 *string `json:"dosage,omitempty"`
	Priority               *string `json:"priority,omitempty"`
	StockQuantity          *int    `json:"stock_quantity,omitempty"`
	MinStockAlert          *int    `json:"min_stock_alert,omitempty"`
	DoctorName             *string `json:"doctor_name,omitempty"`
	DoctorContact          *string `json:"doctor_contact,omitempty"`
	PrescriptionPhoto      *string `json:"prescription_photo,omitempty"`
	BoxPhoto               *string `json:"box_photo,omitempty"`
	IsPrescriptionRequired *bool   `json:"is_prescription_required,omitempty"`
}

// Empty reports whether the update carries no fields to change
func (r *UpdateMedicationRequest) Empty() bool {
	return r.Name == nil && r.Dosage == nil && r.Priority == nil &&
		r.StockQuantity == nil && r.MinStockAlert == nil &&
		r.DoctorName == nil && r.DoctorContact == nil &&
		r.PrescriptionPhoto == nil && r.BoxPhoto == nil &&
		r.IsPrescriptionRequired == nil
}

// CreateAlarmRequest is the payload for creating an alarm
type CreateAlarmRequest struct {
	ProfileID             string   `json:"profile_id"`
	Time                  string   `json:"time"`
	Frequency             string   `json:"frequency"`
	SpecificDays          []int    `json:"specific_days,omitempty"`
	SpecificDates         []string `json:"specific_dates,omitempty"`
	MedicationIDs         []string `json:"medication_ids"`
	IsCritical            *bool    `json:"is_critical,omitempty"`
	RepeatIntervalMinutes *int     `json:"repeat_interval_minutes,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// UpdateAlarmRequest is a partial update; nil fields are left unchanged
type UpdateAlarmRequest struct {
	Time                  *string  `json:"time,omitempty"`
	Frequency             *string  `json:"frequency,omitempty"`
	SpecificDays          []int    `json:"specific_days,omitempty"`
	SpecificDates         []string `json:"specific_dates,omitempty"`
	MedicationIDs         []string `json:"medication_ids,omitempty"`
	IsCritical            *bool    `json:"is_critical,omitempty"`
	RepeatIntervalMinutes *int     `json:"repeat_interval_minutes,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// Empty reports whether the update carries no fields to change
func (r *UpdateAlarmRequest) Empty() bool {
	return r.Time == nil && r.Frequency == nil && r.SpecificDays == nil &&
		r.SpecificDates == nil && r.MedicationIDs == nil &&
		r.IsCritical == nil && r.RepeatIntervalMinutes == nil &&
		r.IsActive == nil
}

// CreateAlarmLogRequest is the payload for logging one alarm occurrence
type CreateAlarmLogRequest struct {
	AlarmID       string    `json:"alarm_id"`
	ProfileID     string    `json:"profile_id"`
	MedicationIDs []string  `json:"medication_ids"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
}

// CreateTrialRequest is the payload for starting a premium trial
type CreateTrialRequest struct {
	ProfileID string `json:"profile_id"`
	TrialDays int    `json:"trial_days"`
}

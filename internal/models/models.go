package models

import "time"

// Medication priority levels
const (
	PriorityNormal    = "normal"
	PriorityImportant = "important"
	PriorityCritical  = "critical"
)

// Alarm frequencies
const (
	FrequencyDaily     = "daily"
	FrequencyAlternate = "alternate"
	FrequencySpecific  = "specific"
)

// Alarm log statuses
const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
	StatusMissed  = "missed"
)

// Profile represents a user profile owning medications, alarms and logs
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Medication represents a medication tracked for a profile
type Medication struct {
	ID                     string    `json:"id"`
	ProfileID              string    `json:"profile_id"`
	Name                   string    `json:"name"`
	Dosage                 string    `json:"dosage"`
	Priority               string    `json:"priority"`
	StockQuantity          int       `json:"stock_quantity"`
	MinStockAlert          int       `json:"min_stock_alert"`
	DoctorName             *string   `json:"doctor_name,omitempty"`
	DoctorContact          *string   `json:"doctor_contact,omitempty"`
	PrescriptionPhoto      *string   `json:"prescription_photo,omitempty"`
	BoxPhoto               *string   `json:"box_photo,omitempty"`
	IsPrescriptionRequired bool      `json:"is_prescription_required"`
	CreatedAt              time.Time `json:"created_at"`
}

// Alarm represents a recurring medication alarm.
//
// SpecificDays holds weekday indices 0-6 with 0 = Sunday, matching
// time.Weekday. SpecificDates holds ISO dates (YYYY-MM-DD). Exactly one of
// the two is populated when Frequency is "specific".
type Alarm struct {
	ID                    string    `json:"id"`
	ProfileID             string    `json:"profile_id"`
	Time                  string    `json:"time"` // HH:MM wall clock, no timezone
	Frequency             string    `json:"frequency"`
	SpecificDays          []int     `json:"specific_days,omitempty"`
	SpecificDates         []string  `json:"specific_dates,omitempty"`
	MedicationIDs         []string  `json:"medication_ids"`
	IsCritical            bool      `json:"is_critical"`
	RepeatIntervalMinutes int       `json:"repeat_interval_minutes"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
}

// AlarmLog records the outcome of one alarm occurrence. Immutable after
// creation; MedicationIDs is a snapshot taken from the alarm at log time.
type AlarmLog struct {
	ID            string     `json:"id"`
	AlarmID       string     `json:"alarm_id"`
	ProfileID     string     `json:"profile_id"`
	MedicationIDs []string   `json:"medication_ids"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	ConfirmedTime *time.Time `json:"confirmed_time,omitempty"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PremiumTrial is the time-boxed premium window for a profile, at most one
// per profile. IsActive flips to false the first time the trial is read
// after TrialEnd has passed.
type PremiumTrial struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	TrialStart time.Time `json:"trial_start"`
	TrialEnd   time.Time `json:"trial_end"`
	IsActive   bool      `json:"is_active"`
}

// Stats is the derived per-profile summary
type Stats struct {
	MedicationsCount int           `json:"medications_count"`
	AlarmsCount      int           `json:"alarms_count"`
	LowStockCount    int           `json:"low_stock_count"`
	LowStockItems    []*Medication `json:"low_stock_items"`
	AdherenceRate    float64       `json:"adherence_rate"`
}

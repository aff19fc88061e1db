package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSlotDuration           = 30
	DefaultMaxAppointmentsPerSlot = 1
	DefaultAvailabilityStatus     = "available"
	DefaultAvailabilityType       = "consultation"
	DefaultCurrency               = "USD"
)

var (
	AvailabilityStatuses = []string{"available", "booked", "cancelled", "blocked", "maintenance"}
	RecurrencePatterns   = []string{"daily", "weekly", "monthly"}
	LocationTypes        = []string{"clinic", "hospital", "telemedicine", "home_visit"}
)

// ProviderAvailability model. Date is stored as YYYY-MM-DD and the window as
// HH:MM strings in the provider's timezone.
type ProviderAvailability struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ProviderID             uuid.UUID `gorm:"type:uuid;column:provider_id;not null;index" json:"provider_id"`
	Date                   string    `gorm:"column:date;size:10;not null;index" json:"date"`
	StartTime              string    `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime                string    `gorm:"column:end_time;size:5;not null" json:"end_time"`
	Timezone               string    `gorm:"column:timezone;size:64" json:"timezone"`
	IsRecurring            bool      `gorm:"column:is_recurring;not null;default:false" json:"is_recurring"`
	RecurrencePattern      string    `gorm:"column:recurrence_pattern;size:16" json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate      string    `gorm:"column:recurrence_end_date;size:10" json:"recurrence_end_date,omitempty"`
	SlotDuration           int       `gorm:"column:slot_duration;not null" json:"slot_duration"`
	BreakDuration          int       `gorm:"column:break_duration;not null" json:"break_duration"`
	Status                 string    `gorm:"column:status;size:16;not null" json:"status"`
	MaxAppointmentsPerSlot int       `gorm:"column:max_appointments_per_slot;not null" json:"max_appointments_per_slot"`
	CurrentAppointments    int       `gorm:"column:current_appointments;not null" json:"current_appointments"`
	AppointmentType        string    `gorm:"column:appointment_type;size:64;not null" json:"appointment_type"`
	LocationType           string    `gorm:"column:location_type;size:16" json:"location_type"`
	LocationAddress        string    `gorm:"column:location_address" json:"location_address"`
	RoomNumber             string    `gorm:"column:room_number;size:32" json:"room_number"`
	BaseFee                *float64  `gorm:"column:base_fee" json:"base_fee,omitempty"`
	InsuranceAccepted      *bool     `gorm:"column:insurance_accepted" json:"insurance_accepted,omitempty"`
	Currency               string    `gorm:"column:currency;size:3;not null" json:"currency"`
	Notes                  string    `gorm:"column:notes;type:text" json:"notes"`
	SpecialRequirements    string    `gorm:"column:special_requirements;type:text" json:"special_requirements"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Provider               Provider  `gorm:"foreignKey:ProviderID;references:ID" json:"-"`
}

func (ProviderAvailability) TableName() string {
	return "provider_availability"
}

func (a *ProviderAvailability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ApplyDefaults fills zero values with the defaults a new slot starts with.
func (a *ProviderAvailability) ApplyDefaults() {
	if a.SlotDuration == 0 {
		a.SlotDuration = DefaultSlotDuration
	}
	if a.MaxAppointmentsPerSlot == 0 {
		a.MaxAppointmentsPerSlot = DefaultMaxAppointmentsPerSlot
	}
	if a.Status == "" {
		a.Status = DefaultAvailabilityStatus
	}
	if a.AppointmentType == "" {
		a.AppointmentType = DefaultAvailabilityType
	}
	if a.Currency == "" {
		a.Currency = DefaultCurrency
	}
	a.Status = strings.ToLower(a.Status)
	a.RecurrencePattern = strings.ToLower(a.RecurrencePattern)
	a.LocationType = strings.ToLower(a.LocationType)
	a.Currency = strings.ToUpper(a.Currency)
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentMode string

const (
	ModeInPerson  AppointmentMode = "IN_PERSON"
	ModeVideoCall AppointmentMode = "VIDEO_CALL"
	ModeHome      AppointmentMode = "HOME"
)

func ParseAppointmentMode(s string) (AppointmentMode, bool) {
	switch mode := AppointmentMode(upper(s)); mode {
	case ModeInPerson, ModeVideoCall, ModeHome:
		return mode, true
	}
	return "", false
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch status := AppointmentStatus(upper(s)); status {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return status, true
	}
	return "", false
}

// Appointment model
type Appointment struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	PatientID           uuid.UUID         `gorm:"type:uuid;column:patient_id;not null;index" json:"patient_id"`
	ProviderID          uuid.UUID         `gorm:"type:uuid;column:provider_id;not null;index:idx_appointment_provider_time" json:"provider_id"`
	AppointmentMode     AppointmentMode   `gorm:"column:appointment_mode;size:16;not null" json:"appointment_mode"`
	AppointmentType     string            `gorm:"column:appointment_type;not null" json:"appointment_type"`
	EstimatedAmount     *float64          `gorm:"column:estimated_amount" json:"estimated_amount,omitempty"`
	AppointmentDateTime time.Time         `gorm:"column:appointment_date_time;not null;index:idx_appointment_provider_time" json:"appointment_date_time"`
	ReasonForVisit      string            `gorm:"column:reason_for_visit;type:text" json:"reason_for_visit"`
	Status              AppointmentStatus `gorm:"column:status;size:16;not null;default:SCHEDULED" json:"status"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient             Patient           `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Provider            Provider          `gorm:"foreignKey:ProviderID;references:ID" json:"provider"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

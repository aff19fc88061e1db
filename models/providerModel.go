package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// ParseVerificationStatus accepts the enum names case-insensitively.
func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch status := VerificationStatus(upper(s)); status {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return status, true
	}
	return "", false
}

type ClinicAddress struct {
	Street string `gorm:"column:street" json:"street"`
	City   string `gorm:"column:city" json:"city"`
	State  string `gorm:"column:state" json:"state"`
	Zip    string `gorm:"column:zip" json:"zip"`
}

// Provider model
type Provider struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	FirstName          string             `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName           string             `gorm:"column:last_name;size:50;not null;index" json:"last_name"`
	Email              string             `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	PhoneNumber        string             `gorm:"column:phone_number;size:32;not null;uniqueIndex" json:"phone_number"`
	PasswordHash       string             `gorm:"column:password_hash;not null" json:"-"`
	Specialization     string             `gorm:"column:specialization;size:100;not null" json:"specialization"`
	LicenseNumber      string             `gorm:"column:license_number;size:20;not null;uniqueIndex" json:"license_number"`
	YearsOfExperience  int                `gorm:"column:years_of_experience;not null;default:0" json:"years_of_experience"`
	ClinicAddress      ClinicAddress      `gorm:"embedded;embeddedPrefix:clinic_" json:"clinic_address"`
	VerificationStatus VerificationStatus `gorm:"column:verification_status;size:16;not null;default:PENDING" json:"verification_status"`
	EmailVerified      bool               `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	IsActive           bool               `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Provider) TableName() string {
	return "providers"
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Provider) FullName() string {
	return p.FirstName + " " + p.LastName
}

// CanLogin requires an active account whose license has been verified.
func (p *Provider) CanLogin() bool {
	return p.IsActive && p.VerificationStatus == VerificationVerified
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Valid reports whether g is one of the supported genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Address is embedded into the patient row with an address_ prefix.
type Address struct {
	Street string `gorm:"column:street" json:"street"`
	City   string `gorm:"column:city" json:"city"`
	State  string `gorm:"column:state" json:"state"`
	Zip    string `gorm:"column:zip" json:"zip"`
}

type EmergencyContact struct {
	Name         string `gorm:"column:name" json:"name"`
	Phone        string `gorm:"column:phone" json:"phone"`
	Relationship string `gorm:"column:relationship" json:"relationship"`
}

type InsuranceInfo struct {
	Provider     string `gorm:"column:provider" json:"provider"`
	PolicyNumber string `gorm:"column:policy_number" json:"policy_number"`
}

// Patient model
type Patient struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	FirstName        string           `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName         string           `gorm:"column:last_name;size:50;not null;index" json:"last_name"`
	Email            string           `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	PhoneNumber      string           `gorm:"column:phone_number;size:32;not null;uniqueIndex" json:"phone_number"`
	PasswordHash     string           `gorm:"column:password_hash;not null" json:"-"`
	DateOfBirth      time.Time        `gorm:"column:date_of_birth;type:date;not null" json:"date_of_birth"`
	Gender           Gender           `gorm:"column:gender;size:16;not null" json:"gender"`
	Address          Address          `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_contact_" json:"emergency_contact"`
	MedicalHistory   []string         `gorm:"column:medical_history;type:jsonb;serializer:json" json:"medical_history"`
	InsuranceInfo    InsuranceInfo    `gorm:"embedded;embeddedPrefix:insurance_" json:"insurance_info"`
	EmailVerified    bool             `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	PhoneVerified    bool             `gorm:"column:phone_verified;not null;default:false" json:"phone_verified"`
	IsActive         bool             `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name the way responses display it.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

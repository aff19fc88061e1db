package services

import (
	"HealthFirst/models"
	"HealthFirst/repositories"
	"HealthFirst/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minimumPatientAge = 13

type RegisterPatientInput struct {
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Email            string                  `json:"email"`
	PhoneNumber      string                  `json:"phone_number"`
	Password         string                  `json:"password"`
	ConfirmPassword  string                  `json:"confirm_password"`
	DateOfBirth      string                  `json:"date_of_birth"`
	Gender           models.Gender           `json:"gender"`
	Address          models.Address          `json:"address"`
	EmergencyContact models.EmergencyContact `json:"emergency_contact"`
	MedicalHistory   []string                `json:"medical_history"`
	InsuranceInfo    models.InsuranceInfo    `json:"insurance_info"`
}

func (in RegisterPatientInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, utils.NameRules...),
		validation.Field(&in.LastName, utils.NameRules...),
		validation.Field(&in.Email, utils.EmailRules...),
		validation.Field(&in.PhoneNumber, utils.PhoneRules...),
		validation.Field(&in.Password, utils.PasswordRules...),
		validation.Field(&in.ConfirmPassword, validation.Required),
		validation.Field(&in.DateOfBirth, append([]validation.Rule{validation.Required}, utils.DateRules...)...),
		validation.Field(&in.Gender, validation.Required, validation.In(models.GenderMale, models.GenderFemale, models.GenderOther)),
		validation.Field(&in.Address, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&in.Address,
				validation.Field(&in.Address.Street, validation.Length(0, 200)),
				validation.Field(&in.Address.City, validation.Length(0, 100)),
				validation.Field(&in.Address.State, validation.Length(0, 50)),
				validation.Field(&in.Address.Zip, validation.Length(0, 10)),
			)
		})),
		validation.Field(&in.EmergencyContact, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&in.EmergencyContact,
				validation.Field(&in.EmergencyContact.Name, validation.Length(0, 100)),
				validation.Field(&in.EmergencyContact.Phone, utils.PhoneRules[1:]...),
				validation.Field(&in.EmergencyContact.Relationship, validation.Length(0, 50)),
			)
		})),
	)
}

type PatientService interface {
	Register(ctx context.Context, in RegisterPatientInput) (*models.Patient, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	Get(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	RequestPasswordReset(ctx context.Context, in ForgotPasswordInput) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

type patientService struct {
	repo repositories.PatientRepository
	deps AccountDependencies
}

func NewPatientService(repo repositories.PatientRepository, deps AccountDependencies) PatientService {
	return &patientService{repo: repo, deps: deps}
}

func (s *patientService) Register(ctx context.Context, in RegisterPatientInput) (*models.Patient, error) {
	in.Email = normalizeEmail(in.Email)
	in.Gender = models.Gender(strings.ToUpper(strings.TrimSpace(string(in.Gender))))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, InvalidArgument("Passwords do not match")
	}

	dob, _ := time.Parse(utils.DateLayout, in.DateOfBirth)
	if utils.AgeOn(dob, s.deps.now()) < minimumPatientAge {
		return nil, InvalidArgument("Must be at least 13 years old")
	}

	release, err := s.deps.lockRegistration(ctx, utils.RolePatient, in.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	if exists, err := s.repo.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, InvalidArgument("Email already registered")
	}
	if exists, err := s.repo.PhoneExists(ctx, in.PhoneNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, InvalidArgument("Phone number already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            in.Email,
		PhoneNumber:      in.PhoneNumber,
		PasswordHash:     hash,
		DateOfBirth:      dob,
		Gender:           in.Gender,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		MedicalHistory:   in.MedicalHistory,
		InsuranceInfo:    in.InsuranceInfo,
		IsActive:         true,
	}
	if patient.MedicalHistory == nil {
		patient.MedicalHistory = []string{}
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, InvalidArgument("Email or phone number already registered")
		}
		return nil, err
	}

	log.Info().Str("patient_id", patient.ID.String()).Msg("patient registered")
	s.deps.sendVerificationEmail(utils.RolePatient, patient.ID.String(), patient.Email, patient.FullName())
	return patient, nil
}

func (s *patientService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	patient, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if patient == nil || !utils.CheckPassword(patient.PasswordHash, in.Password) {
		return nil, Unauthorized("Invalid email or password")
	}
	if !patient.IsActive {
		return nil, Forbidden("Account is inactive")
	}

	token, err := s.deps.Tokens.IssuePatientToken(patient.ID.String(), patient.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token.Token, ExpiresIn: token.ExpiresIn}, nil
}

func (s *patientService) VerifyEmail(ctx context.Context, token string) error {
	id, err := s.deps.verifiedSubject(token, utils.RolePatient)
	if err != nil {
		return err
	}
	if err := s.repo.MarkEmailVerified(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Patient not found")
		}
		return err
	}
	return nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, NotFound("Patient not found")
	}
	return patient, nil
}

func (s *patientService) RequestPasswordReset(ctx context.Context, in ForgotPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.deps.requireResetCodes(); err != nil {
		return err
	}

	patient, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if patient == nil {
		log.Debug().Str("email", in.Email).Msg("password reset requested for unknown patient")
		return nil
	}
	return s.deps.issueResetCode(ctx, utils.RolePatient, patient.Email)
}

func (s *patientService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return err
	}
	if in.NewPassword != in.ConfirmPassword {
		return InvalidArgument("Passwords do not match")
	}
	if err := s.deps.requireResetCodes(); err != nil {
		return err
	}

	patient, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if patient == nil {
		return InvalidArgument("Invalid or expired reset code")
	}

	hash, err := s.deps.checkResetCode(ctx, utils.RolePatient, in)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, patient.ID, hash); err != nil {
		return fmt.Errorf("failed to reset patient password: %w", err)
	}
	s.deps.clearResetCode(ctx, utils.RolePatient, in.Email)
	return nil
}

package services

import (
	"HealthFirst/models"
	"HealthFirst/repositories"
	"HealthFirst/utils"
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RegisterProviderInput struct {
	FirstName         string               `json:"first_name"`
	LastName          string               `json:"last_name"`
	Email             string               `json:"email"`
	PhoneNumber       string               `json:"phone_number"`
	Password          string               `json:"password"`
	ConfirmPassword   string               `json:"confirm_password"`
	Specialization    string               `json:"specialization"`
	LicenseNumber     string               `json:"license_number"`
	YearsOfExperience int                  `json:"years_of_experience"`
	ClinicAddress     models.ClinicAddress `json:"clinic_address"`
}

func (in RegisterProviderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, utils.NameRules...),
		validation.Field(&in.LastName, utils.NameRules...),
		validation.Field(&in.Email, utils.EmailRules...),
		validation.Field(&in.PhoneNumber, utils.PhoneRules...),
		validation.Field(&in.Password, utils.PasswordRules...),
		validation.Field(&in.ConfirmPassword, validation.Required),
		validation.Field(&in.Specialization, utils.SpecializationRules...),
		validation.Field(&in.LicenseNumber, utils.LicenseRules...),
		validation.Field(&in.YearsOfExperience, validation.Min(0), validation.Max(50)),
		validation.Field(&in.ClinicAddress, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&in.ClinicAddress,
				validation.Field(&in.ClinicAddress.Street, validation.Required, validation.Length(0, 200)),
				validation.Field(&in.ClinicAddress.City, validation.Required, validation.Length(0, 100)),
				validation.Field(&in.ClinicAddress.State, validation.Required, validation.Length(0, 50)),
				validation.Field(&in.ClinicAddress.Zip, validation.Required, validation.Length(0, 10)),
			)
		})),
	)
}

type ProviderService interface {
	Register(ctx context.Context, in RegisterProviderInput) (*models.Provider, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	Get(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) (*models.Provider, error)
	RequestPasswordReset(ctx context.Context, in ForgotPasswordInput) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

type providerService struct {
	repo repositories.ProviderRepository
	deps AccountDependencies
}

func NewProviderService(repo repositories.ProviderRepository, deps AccountDependencies) ProviderService {
	return &providerService{repo: repo, deps: deps}
}

func (s *providerService) Register(ctx context.Context, in RegisterProviderInput) (*models.Provider, error) {
	in.Email = normalizeEmail(in.Email)
	in.LicenseNumber = strings.ToUpper(strings.ReplaceAll(in.LicenseNumber, " ", ""))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, InvalidArgument("Passwords do not match")
	}

	release, err := s.deps.lockRegistration(ctx, utils.RoleProvider, in.Email)
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
	if exists, err := s.repo.LicenseExists(ctx, in.LicenseNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, InvalidArgument("License number already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	provider := &models.Provider{
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              in.Email,
		PhoneNumber:        in.PhoneNumber,
		PasswordHash:       hash,
		Specialization:     strings.TrimSpace(in.Specialization),
		LicenseNumber:      in.LicenseNumber,
		YearsOfExperience:  in.YearsOfExperience,
		ClinicAddress:      in.ClinicAddress,
		VerificationStatus: models.VerificationPending,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, provider); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, InvalidArgument("Email, phone number or license number already registered")
		}
		return nil, err
	}

	log.Info().Str("provider_id", provider.ID.String()).Msg("provider registered")
	s.deps.sendVerificationEmail(utils.RoleProvider, provider.ID.String(), provider.Email, provider.FullName())
	return provider, nil
}

func (s *providerService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	provider, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if provider == nil || !utils.CheckPassword(provider.PasswordHash, in.Password) {
		return nil, Unauthorized("Invalid email or password")
	}
	if !provider.CanLogin() {
		return nil, Forbidden("Account not active or verified")
	}

	token, err := s.deps.Tokens.IssueProviderToken(
		provider.ID.String(),
		provider.Email,
		provider.Specialization,
		string(provider.VerificationStatus),
	)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token.Token, ExpiresIn: token.ExpiresIn}, nil
}

func (s *providerService) VerifyEmail(ctx context.Context, token string) error {
	id, err := s.deps.verifiedSubject(token, utils.RoleProvider)
	if err != nil {
		return err
	}
	if err := s.repo.MarkEmailVerified(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Provider not found")
		}
		return err
	}
	return nil
}

func (s *providerService) Get(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, NotFound("Provider not found")
	}
	return provider, nil
}

func (s *providerService) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status string) (*models.Provider, error) {
	parsed, ok := models.ParseVerificationStatus(status)
	if !ok {
		return nil, InvalidArgument("Invalid verification status")
	}
	if err := s.repo.UpdateVerificationStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Provider not found")
		}
		return nil, err
	}

	log.Info().Str("provider_id", id.String()).Str("verification_status", string(parsed)).Msg("provider verification status updated")
	return s.Get(ctx, id)
}

func (s *providerService) RequestPasswordReset(ctx context.Context, in ForgotPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.deps.requireResetCodes(); err != nil {
		return err
	}

	provider, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if provider == nil {
		log.Debug().Str("email", in.Email).Msg("password reset requested for unknown provider")
		return nil
	}
	return s.deps.issueResetCode(ctx, utils.RoleProvider, provider.Email)
}

func (s *providerService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
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

	provider, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if provider == nil {
		return InvalidArgument("Invalid or expired reset code")
	}

	hash, err := s.deps.checkResetCode(ctx, utils.RoleProvider, in)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, provider.ID, hash); err != nil {
		return fmt.Errorf("failed to reset provider password: %w", err)
	}
	s.deps.clearResetCode(ctx, utils.RoleProvider, in.Email)
	return nil
}

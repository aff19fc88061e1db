package services

import (
	"HealthFirst/models"
	"HealthFirst/repositories"
	"HealthFirst/utils"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validProviderInput() RegisterProviderInput {
	return RegisterProviderInput{
		FirstName:         "John",
		LastName:          "Doe",
		Email:             "john.doe@clinic.com",
		PhoneNumber:       "+1234567890",
		Password:          "SecurePassword123",
		ConfirmPassword:   "SecurePassword123",
		Specialization:    "Cardiology",
		LicenseNumber:     "md 123456",
		YearsOfExperience: 10,
		ClinicAddress:     models.ClinicAddress{Street: "123 Medical Center Dr", City: "New York", State: "NY", Zip: "10001"},
	}
}

func TestProviderRegister(t *testing.T) {
	deps, mailer, _ := newTestDeps(t)
	repo := new(mockProviderRepository)
	repo.On("EmailExists", mock.Anything, "john.doe@clinic.com").Return(false, nil)
	repo.On("PhoneExists", mock.Anything, "+1234567890").Return(false, nil)
	repo.On("LicenseExists", mock.Anything, "MD123456").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Provider) bool {
		return p.VerificationStatus == models.VerificationPending && p.IsActive && p.LicenseNumber == "MD123456"
	})).Return(nil)

	provider, err := NewProviderService(repo, deps).Register(context.Background(), validProviderInput())
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, provider.VerificationStatus)
	assert.Len(t, mailer.verifications, 1)
	assert.Contains(t, mailer.verifications[0], "/api/v1/provider/verify-email?token=")
	repo.AssertExpectations(t)
}

func TestProviderRegisterRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterProviderInput)
		setup   func(*mockProviderRepository)
		message string
	}{
		{
			name:    "password mismatch",
			mutate:  func(in *RegisterProviderInput) { in.ConfirmPassword = "Different123" },
			message: "Passwords do not match",
		},
		{
			name: "duplicate email",
			setup: func(repo *mockProviderRepository) {
				repo.On("EmailExists", mock.Anything, mock.Anything).Return(true, nil)
			},
			message: "Email already registered",
		},
		{
			name: "duplicate license",
			setup: func(repo *mockProviderRepository) {
				repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
				repo.On("PhoneExists", mock.Anything, mock.Anything).Return(false, nil)
				repo.On("LicenseExists", mock.Anything, mock.Anything).Return(true, nil)
			},
			message: "License number already registered",
		},
		{
			name: "unique index race",
			setup: func(repo *mockProviderRepository) {
				repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
				repo.On("PhoneExists", mock.Anything, mock.Anything).Return(false, nil)
				repo.On("LicenseExists", mock.Anything, mock.Anything).Return(false, nil)
				repo.On("Create", mock.Anything, mock.Anything).
					Return(fmt.Errorf("failed to create provider: %w", repositories.ErrDuplicate))
			},
			message: "Email, phone number or license number already registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, _ := newTestDeps(t)
			repo := new(mockProviderRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			in := validProviderInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			_, err := NewProviderService(repo, deps).Register(context.Background(), in)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestProviderRegisterExperienceBounds(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	in := validProviderInput()
	in.YearsOfExperience = 51

	_, err := NewProviderService(new(mockProviderRepository), deps).Register(context.Background(), in)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Contains(t, err.Error(), "years_of_experience")
}

func TestProviderLogin(t *testing.T) {
	hash, err := utils.HashPassword("SecurePassword123")
	require.NoError(t, err)

	verified := &models.Provider{
		ID:                 uuid.New(),
		Email:              "john@clinic.com",
		PasswordHash:       hash,
		Specialization:     "Cardiology",
		VerificationStatus: models.VerificationVerified,
		IsActive:           true,
	}
	pending := *verified
	pending.ID = uuid.New()
	pending.Email = "pending@clinic.com"
	pending.VerificationStatus = models.VerificationPending

	deps, _, _ := newTestDeps(t)
	repo := new(mockProviderRepository)
	repo.On("GetByEmail", mock.Anything, "john@clinic.com").Return(verified, nil)
	repo.On("GetByEmail", mock.Anything, "pending@clinic.com").Return(&pending, nil)
	svc := NewProviderService(repo, deps)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Email: "john@clinic.com", Password: "SecurePassword123"})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, result.ExpiresIn)

	claims, err := deps.Tokens.ParseToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleProvider, claims.Role)
	assert.Equal(t, "Cardiology", claims.Specialization)
	assert.Equal(t, "VERIFIED", claims.VerificationStatus)

	_, err = svc.Login(ctx, LoginInput{Email: "pending@clinic.com", Password: "SecurePassword123"})
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.EqualError(t, err, "Account not active or verified")

	_, err = svc.Login(ctx, LoginInput{Email: "john@clinic.com", Password: "nope"})
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestProviderUpdateVerificationStatus(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	repo := new(mockProviderRepository)
	svc := NewProviderService(repo, deps)
	id := uuid.New()
	missing := uuid.New()

	repo.On("UpdateVerificationStatus", mock.Anything, id, models.VerificationVerified).Return(nil)
	repo.On("GetByID", mock.Anything, id).Return(&models.Provider{ID: id, VerificationStatus: models.VerificationVerified}, nil)
	repo.On("UpdateVerificationStatus", mock.Anything, missing, models.VerificationRejected).Return(gorm.ErrRecordNotFound)

	provider, err := svc.UpdateVerificationStatus(context.Background(), id, "verified")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, provider.VerificationStatus)

	_, err = svc.UpdateVerificationStatus(context.Background(), missing, "REJECTED")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.UpdateVerificationStatus(context.Background(), id, "APPROVED")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestProviderVerifyEmail(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	repo := new(mockProviderRepository)
	svc := NewProviderService(repo, deps)
	id := uuid.New()
	missing := uuid.New()
	repo.On("MarkEmailVerified", mock.Anything, id).Return(nil).Once()
	repo.On("MarkEmailVerified", mock.Anything, missing).Return(gorm.ErrRecordNotFound).Once()

	token, err := deps.Verifier.Generate(id.String(), utils.RoleProvider)
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyEmail(context.Background(), token))

	patientToken, err := deps.Verifier.Generate(id.String(), utils.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(svc.VerifyEmail(context.Background(), patientToken)))
	assert.Equal(t, KindInvalidArgument, KindOf(svc.VerifyEmail(context.Background(), "")))

	token, err = deps.Verifier.Generate(missing.String(), utils.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, KindOf(svc.VerifyEmail(context.Background(), token)))
	repo.AssertExpectations(t)
}

func TestProviderPasswordReset(t *testing.T) {
	deps, mailer, mr := newRedisTestDeps(t)
	repo := new(mockProviderRepository)
	provider := &models.Provider{ID: uuid.New(), Email: "john@clinic.com", IsActive: true}
	repo.On("GetByEmail", mock.Anything, "john@clinic.com").Return(provider, nil)
	repo.On("UpdatePassword", mock.Anything, provider.ID, mock.MatchedBy(func(hash string) bool {
		return utils.CheckPassword(hash, "NewSecure123")
	})).Return(nil).Once()
	svc := NewProviderService(repo, deps)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, ForgotPasswordInput{Email: "john@clinic.com"}))
	require.Len(t, mailer.resetCodes, 1)
	assert.True(t, mr.Exists("reset_code:provider:john@clinic.com"))

	err := svc.ResetPassword(ctx, ResetPasswordInput{
		Email:           "john@clinic.com",
		Code:            mailer.resetCodes[0],
		NewPassword:     "NewSecure123",
		ConfirmPassword: "Mismatch123",
	})
	assert.EqualError(t, err, "Passwords do not match")

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{
		Email:           "john@clinic.com",
		Code:            mailer.resetCodes[0],
		NewPassword:     "NewSecure123",
		ConfirmPassword: "NewSecure123",
	}))
	assert.False(t, mr.Exists("reset_code:provider:john@clinic.com"))
	repo.AssertExpectations(t)
}

func TestProviderRegisterHoldsRedisLock(t *testing.T) {
	deps, _, mr := newRedisTestDeps(t)
	require.NoError(t, mr.Set("register_lock:provider:john.doe@clinic.com", "another-request"))

	_, err := NewProviderService(new(mockProviderRepository), deps).Register(context.Background(), validProviderInput())
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.EqualError(t, err, "Registration for this email is already in progress")

	mr.Del("register_lock:provider:john.doe@clinic.com")
	repo := new(mockProviderRepository)
	repo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("PhoneExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("LicenseExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err = NewProviderService(repo, deps).Register(context.Background(), validProviderInput())
	require.NoError(t, err)
	assert.False(t, mr.Exists("register_lock:provider:john.doe@clinic.com"), "lock is released after registration")
}

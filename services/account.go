package services

import (
	"HealthFirst/database"
	"HealthFirst/utils"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const registrationLockTTL = 30 * time.Second

var resetCodePattern = regexp.MustCompile(`^\d{6}$`)

// Locker serialises work on a key across instances.
type Locker interface {
	Acquire(ctx context.Context, key, value string, ttl time.Duration) (func(), error)
}

// AccountDependencies are the collaborators shared by the patient and
// provider account flows.
type AccountDependencies struct {
	Locker     Locker
	Tokens     *utils.TokenIssuer
	Verifier   *utils.VerificationTokenMaker
	Mailer     utils.Mailer
	ResetCodes *utils.ResetCodeStore
	PublicURL  string
	Now        func() time.Time
}

func (d AccountDependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, utils.EmailRules...),
		validation.Field(&in.Password, validation.Required),
	)
}

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

func (in ForgotPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, utils.EmailRules...),
	)
}

type ResetPasswordInput struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (in ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, utils.EmailRules...),
		validation.Field(&in.Code, validation.Required, validation.Match(resetCodePattern).Error("must be a 6 digit code")),
		validation.Field(&in.NewPassword, utils.PasswordRules...),
		validation.Field(&in.ConfirmPassword, validation.Required),
	)
}

// LoginResult is an issued access token.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// lockRegistration holds the per-email registration lock until release is
// called.
func (d AccountDependencies) lockRegistration(ctx context.Context, role, email string) (func(), error) {
	if d.Locker == nil {
		return func() {}, nil
	}
	release, err := d.Locker.Acquire(ctx, fmt.Sprintf("register_lock:%s:%s", role, email), uuid.New().String(), registrationLockTTL)
	if errors.Is(err, database.ErrLockNotAcquired) {
		return nil, Unavailable("Registration for this email is already in progress")
	}
	if err != nil {
		return nil, err
	}
	return release, nil
}

func (d AccountDependencies) sendVerificationEmail(role, subject, email, name string) {
	token, err := d.Verifier.Generate(subject, role)
	if err != nil {
		log.Error().Err(err).Str("role", role).Str("id", subject).Msg("failed to generate verification token")
		return
	}
	link := fmt.Sprintf("%s/api/v1/%s/verify-email?token=%s", strings.TrimRight(d.PublicURL, "/"), role, url.QueryEscape(token))
	if err := d.Mailer.SendVerificationEmail(email, name, link); err != nil {
		log.Warn().Err(err).Str("role", role).Str("email", email).Msg("failed to send verification email")
	}
}

// verifiedSubject returns the account id carried by a verification token.
func (d AccountDependencies) verifiedSubject(token, role string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, InvalidArgument("Verification token is required")
	}
	claims, err := d.Verifier.Validate(token, role)
	if err != nil {
		return uuid.Nil, InvalidArgument("Invalid or expired verification token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, InvalidArgument("Invalid or expired verification token")
	}
	return id, nil
}

// requireResetCodes runs before the account lookup: unknown and known emails
// must get the same answer.
func (d AccountDependencies) requireResetCodes() error {
	if !d.ResetCodes.Available() {
		return Unavailable("Password reset is currently unavailable")
	}
	return nil
}

func (d AccountDependencies) issueResetCode(ctx context.Context, role, email string) error {
	code, err := d.ResetCodes.Issue(ctx, role, email)
	if errors.Is(err, utils.ErrResetUnavailable) {
		return Unavailable("Password reset is currently unavailable")
	}
	if err != nil {
		return err
	}
	if err := d.Mailer.SendResetCodeEmail(email, code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

// checkResetCode validates the reset request and returns the new password hash.
func (d AccountDependencies) checkResetCode(ctx context.Context, role string, in ResetPasswordInput) (string, error) {
	ok, err := d.ResetCodes.Verify(ctx, role, in.Email, in.Code)
	if errors.Is(err, utils.ErrResetUnavailable) {
		return "", Unavailable("Password reset is currently unavailable")
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", InvalidArgument("Invalid or expired reset code")
	}
	return utils.HashPassword(in.NewPassword)
}

func (d AccountDependencies) clearResetCode(ctx context.Context, role, email string) {
	if err := d.ResetCodes.Delete(ctx, role, email); err != nil {
		log.Warn().Err(err).Str("role", role).Str("email", email).Msg("failed to delete reset code")
	}
}

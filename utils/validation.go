package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, and one digit")
	ErrPhoneLength        = errors.New("phone number must contain between 10 and 15 digits")
	ErrLicenseFormat      = errors.New("license number must be 5 to 20 letters or digits")
	ErrInvalidDate        = errors.New("must be a date in YYYY-MM-DD format")
	ErrInvalidClock       = errors.New("must be a time in HH:MM format")
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	namePattern    = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	nonDigitRegex  = regexp.MustCompile(`\D`)
	licensePattern = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
)

var (
	NameRules = []validation.Rule{
		validation.Required,
		validation.Length(2, 50),
		validation.Match(namePattern).Error("may only contain letters, spaces, hyphens and apostrophes"),
	}
	EmailRules = []validation.Rule{
		validation.Required,
		validation.Length(0, 254),
		is.EmailFormat,
	}
	PhoneRules = []validation.Rule{
		validation.Required,
		validation.By(validatePhone),
	}
	PasswordRules = []validation.Rule{
		validation.Required.Error("password cannot be blank"),
		validation.By(validatePassword),
	}
	LicenseRules = []validation.Rule{
		validation.Required,
		validation.By(validateLicense),
	}
	SpecializationRules = []validation.Rule{
		validation.Required,
		validation.Length(3, 100),
	}
	DateRules = []validation.Rule{
		validation.By(validateDate),
	}
	ClockRules = []validation.Rule{
		validation.Required,
		validation.By(validateClock),
	}
)

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if password == "" {
		return nil
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}
	return nil
}

func validatePhone(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	digits := len(nonDigitRegex.ReplaceAllString(phone, ""))
	if digits < 10 || digits > 15 {
		return ErrPhoneLength
	}
	return nil
}

func validateLicense(value interface{}) error {
	license, _ := value.(string)
	if license == "" {
		return nil
	}
	if !licensePattern.MatchString(strings.ReplaceAll(license, " ", "")) {
		return ErrLicenseFormat
	}
	return nil
}

func validateDate(value interface{}) error {
	date, _ := value.(string)
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func validateClock(value interface{}) error {
	clock, _ := value.(string)
	if clock == "" {
		return nil
	}
	if _, err := time.Parse(ClockLayout, clock); err != nil {
		return ErrInvalidClock
	}
	return nil
}

// ValidatePassword applies the password rules to a single value.
// NormalizeClock zero-pads a valid HH:MM clock time ("9:00" becomes "09:00")
// so stored times sort lexically. Invalid input is returned trimmed.
func NormalizeClock(clock string) string {
	clock = strings.TrimSpace(clock)
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(ClockLayout)
}

func ValidatePassword(password string) error {
	return validation.Validate(password, PasswordRules...)
}

// AgeOn returns the number of whole years between birth and on.
func AgeOn(birth, on time.Time) int {
	years := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		years--
	}
	return years
}

// DateTimeLayouts are the accepted appointment date-time formats. Values
// without an offset are read as UTC.
var DateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// ErrInvalidDateTime is returned for date-times in none of DateTimeLayouts.
var ErrInvalidDateTime = errors.New("must be a date-time in RFC 3339 or YYYY-MM-DDTHH:MM:SS format")

// ParseDateTime parses s with the first matching layout in DateTimeLayouts.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range DateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// DateTimeRules validates a required appointment date-time string.
var DateTimeRules = []validation.Rule{
	validation.Required,
	validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		_, err := ParseDateTime(s)
		return err
	}),
}

// OneOf builds an In rule from a string slice.
func OneOf(values []string) validation.Rule {
	allowed := make([]interface{}, len(values))
	for i, v := range values {
		allowed[i] = v
	}
	return validation.In(allowed...).Error("must be one of: " + strings.Join(values, ", "))
}

package utils

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  error
	}{
		{"Str0ngPass", nil},
		{"Sh0rt", ErrPasswordTooShort},
		{"alllowercase1", ErrPasswordNotComplex},
		{"NoDigitsHere", ErrPasswordNotComplex},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr.Error())
		})
	}

	assert.EqualError(t, ValidatePassword(""), "password cannot be blank")
}

func TestFieldRules(t *testing.T) {
	assert.NoError(t, validation.Validate("Mary-Jane O'Neil", NameRules...))
	assert.Error(t, validation.Validate("R2D2", NameRules...))
	assert.Error(t, validation.Validate("A", NameRules...))

	assert.NoError(t, validation.Validate("+1 (555) 123-4567", PhoneRules...))
	assert.EqualError(t, validation.Validate("555-1234", PhoneRules...), ErrPhoneLength.Error())

	assert.NoError(t, validation.Validate("MED 12345", LicenseRules...))
	assert.EqualError(t, validation.Validate("AB-1", LicenseRules...), ErrLicenseFormat.Error())

	assert.NoError(t, validation.Validate("jane@example.com", EmailRules...))
	assert.Error(t, validation.Validate("jane@", EmailRules...))

	assert.NoError(t, validation.Validate("2026-02-28", DateRules...))
	assert.NoError(t, validation.Validate("", DateRules...))
	assert.EqualError(t, validation.Validate("28/02/2026", DateRules...), ErrInvalidDate.Error())

	assert.NoError(t, validation.Validate("09:30", ClockRules...))
	assert.EqualError(t, validation.Validate("9.30am", ClockRules...), ErrInvalidClock.Error())
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2013, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, AgeOn(birth, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, AgeOn(birth, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, AgeOn(birth, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	got, err := ParseDateTime("2026-03-10T09:30:00")
	assert.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = ParseDateTime("2026-03-10T11:30:00+02:00")
	assert.NoError(t, err)
	assert.True(t, want.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	_, err = ParseDateTime("10/03/2026 09:30")
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestOneOf(t *testing.T) {
	rule := OneOf([]string{"daily", "weekly"})
	assert.NoError(t, validation.Validate("weekly", rule))
	assert.NoError(t, validation.Validate("", rule))
	assert.Error(t, validation.Validate("yearly", rule))
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:00", NormalizeClock(" 9:00"))
	assert.Equal(t, "17:30", NormalizeClock("17:30"))
	assert.Equal(t, "25:00", NormalizeClock("25:00"))
	assert.Less(t, NormalizeClock("9:00"), NormalizeClock("10:00"))
}

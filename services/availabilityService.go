package services

import (
	"HealthFirst/models"
	"HealthFirst/repositories"
	"HealthFirst/utils"
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AvailabilityInput struct {
	ProviderID             string   `json:"provider_id"`
	Date                   string   `json:"date"`
	StartTime              string   `json:"start_time"`
	EndTime                string   `json:"end_time"`
	Timezone               string   `json:"timezone"`
	IsRecurring            bool     `json:"is_recurring"`
	RecurrencePattern      string   `json:"recurrence_pattern"`
	RecurrenceEndDate      string   `json:"recurrence_end_date"`
	SlotDuration           int      `json:"slot_duration"`
	BreakDuration          int      `json:"break_duration"`
	Status                 string   `json:"status"`
	MaxAppointmentsPerSlot int      `json:"max_appointments_per_slot"`
	AppointmentType        string   `json:"appointment_type"`
	LocationType           string   `json:"location_type"`
	LocationAddress        string   `json:"location_address"`
	RoomNumber             string   `json:"room_number"`
	BaseFee                *float64 `json:"base_fee"`
	InsuranceAccepted      *bool    `json:"insurance_accepted"`
	Currency               string   `json:"currency"`
	Notes                  string   `json:"notes"`
	SpecialRequirements    string   `json:"special_requirements"`
}

func (in AvailabilityInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProviderID, validation.Required.Error("Provider ID is required"), is.UUID),
	)
}

// apply copies the request onto a, leaving bookkeeping fields alone.
func (in AvailabilityInput) apply(a *models.ProviderAvailability) {
	a.ProviderID = uuid.MustParse(in.ProviderID)
	a.Date = strings.TrimSpace(in.Date)
	a.StartTime = utils.NormalizeClock(in.StartTime)
	a.EndTime = utils.NormalizeClock(in.EndTime)
	a.Timezone = strings.TrimSpace(in.Timezone)
	a.IsRecurring = in.IsRecurring
	a.RecurrencePattern = in.RecurrencePattern
	a.RecurrenceEndDate = strings.TrimSpace(in.RecurrenceEndDate)
	a.SlotDuration = in.SlotDuration
	a.BreakDuration = in.BreakDuration
	a.Status = in.Status
	a.MaxAppointmentsPerSlot = in.MaxAppointmentsPerSlot
	a.AppointmentType = strings.TrimSpace(in.AppointmentType)
	a.LocationType = in.LocationType
	a.LocationAddress = in.LocationAddress
	a.RoomNumber = in.RoomNumber
	a.BaseFee = in.BaseFee
	a.InsuranceAccepted = in.InsuranceAccepted
	a.Currency = in.Currency
	a.Notes = in.Notes
	a.SpecialRequirements = in.SpecialRequirements
	a.ApplyDefaults()
}

// validateAvailability checks a slot after defaults have been applied.
func validateAvailability(a *models.ProviderAvailability) error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Date, withRules([]validation.Rule{validation.Required}, utils.DateRules...)...),
		validation.Field(&a.StartTime, utils.ClockRules...),
		validation.Field(&a.EndTime, withRules(utils.ClockRules, validation.By(func(interface{}) error {
			start, err1 := time.Parse(utils.ClockLayout, a.StartTime)
			end, err2 := time.Parse(utils.ClockLayout, a.EndTime)
			if err1 == nil && err2 == nil && !end.After(start) {
				return errors.New("must be after start time")
			}
			return nil
		}))...),
		validation.Field(&a.Timezone, validation.By(func(interface{}) error {
			if a.Timezone == "" {
				return nil
			}
			if _, err := time.LoadLocation(a.Timezone); err != nil {
				return errors.New("must be an IANA time zone name")
			}
			return nil
		})),
		validation.Field(&a.RecurrencePattern,
			validation.When(a.IsRecurring, validation.Required.Error("is required for recurring availability")),
			utils.OneOf(models.RecurrencePatterns),
		),
		validation.Field(&a.RecurrenceEndDate, withRules(utils.DateRules, validation.By(func(interface{}) error {
			if a.RecurrenceEndDate != "" && a.RecurrenceEndDate < a.Date {
				return errors.New("must not be before date")
			}
			return nil
		}))...),
		validation.Field(&a.SlotDuration, validation.Min(5), validation.Max(480)),
		validation.Field(&a.BreakDuration, validation.Min(0), validation.Max(240)),
		validation.Field(&a.Status, utils.OneOf(models.AvailabilityStatuses)),
		validation.Field(&a.MaxAppointmentsPerSlot, validation.Min(1), validation.Max(50)),
		validation.Field(&a.AppointmentType, validation.Length(0, 64)),
		validation.Field(&a.LocationType, utils.OneOf(models.LocationTypes)),
		validation.Field(&a.RoomNumber, validation.Length(0, 32)),
		validation.Field(&a.BaseFee, validation.By(func(interface{}) error {
			if a.BaseFee != nil && *a.BaseFee < 0 {
				return errors.New("must not be negative")
			}
			return nil
		})),
		validation.Field(&a.Currency, validation.Length(3, 3)),
	)
}

func withRules(base []validation.Rule, extra ...validation.Rule) []validation.Rule {
	rules := make([]validation.Rule, 0, len(base)+len(extra))
	rules = append(rules, base...)
	return append(rules, extra...)
}

type AvailabilityService interface {
	Create(ctx context.Context, in AvailabilityInput) (*models.ProviderAvailability, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProviderAvailability, error)
	Update(ctx context.Context, id uuid.UUID, in AvailabilityInput) (*models.ProviderAvailability, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, date string) ([]models.ProviderAvailability, error)
}

type availabilityService struct {
	availability repositories.AvailabilityRepository
	providers    repositories.ProviderRepository
}

func NewAvailabilityService(availability repositories.AvailabilityRepository, providers repositories.ProviderRepository) AvailabilityService {
	return &availabilityService{availability: availability, providers: providers}
}

func (s *availabilityService) Create(ctx context.Context, in AvailabilityInput) (*models.ProviderAvailability, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	slot := &models.ProviderAvailability{}
	in.apply(slot)
	if err := validateAvailability(slot); err != nil {
		return nil, err
	}
	if err := s.requireProvider(ctx, slot.ProviderID); err != nil {
		return nil, err
	}

	if err := s.availability.Create(ctx, slot); err != nil {
		return nil, err
	}
	log.Info().
		Str("availability_id", slot.ID.String()).
		Str("provider_id", slot.ProviderID.String()).
		Str("date", slot.Date).
		Msg("availability created")
	return slot, nil
}

func (s *availabilityService) Get(ctx context.Context, id uuid.UUID) (*models.ProviderAvailability, error) {
	slot, err := s.availability.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, NotFound("Availability not found")
	}
	return slot, nil
}

func (s *availabilityService) Update(ctx context.Context, id uuid.UUID, in AvailabilityInput) (*models.ProviderAvailability, error) {
	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.apply(slot)
	if err := validateAvailability(slot); err != nil {
		return nil, err
	}
	if err := s.requireProvider(ctx, slot.ProviderID); err != nil {
		return nil, err
	}

	if err := s.availability.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *availabilityService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.availability.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return NotFound("Availability not found")
	}
	return nil
}

func (s *availabilityService) ListByProvider(ctx context.Context, providerID uuid.UUID, date string) ([]models.ProviderAvailability, error) {
	if err := validation.Validate(date, utils.DateRules...); err != nil {
		return nil, InvalidArgument("date " + err.Error())
	}
	return s.availability.ListByProvider(ctx, providerID, date)
}

func (s *availabilityService) requireProvider(ctx context.Context, id uuid.UUID) error {
	provider, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if provider == nil {
		return InvalidArgument("Provider not found")
	}
	return nil
}

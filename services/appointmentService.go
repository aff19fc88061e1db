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
	"gorm.io/gorm"
)

type BookAppointmentInput struct {
	PatientID           string   `json:"patient_id"`
	ProviderID          string   `json:"provider_id"`
	AppointmentMode     string   `json:"appointment_mode"`
	AppointmentType     string   `json:"appointment_type"`
	EstimatedAmount     *float64 `json:"estimated_amount"`
	AppointmentDateTime string   `json:"appointment_date_time"`
	ReasonForVisit      string   `json:"reason_for_visit"`
}

func (in BookAppointmentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PatientID, validation.Required.Error("Patient ID is required"), is.UUID),
		validation.Field(&in.ProviderID, validation.Required.Error("Provider ID is required"), is.UUID),
		validation.Field(&in.AppointmentMode,
			validation.Required.Error("Appointment mode is required"),
			validation.In(string(models.ModeInPerson), string(models.ModeVideoCall), string(models.ModeHome)),
		),
		validation.Field(&in.AppointmentType, validation.Required.Error("Appointment type is required"), validation.Length(0, 100)),
		validation.Field(&in.EstimatedAmount, validation.By(func(interface{}) error {
			if in.EstimatedAmount != nil && *in.EstimatedAmount <= 0 {
				return errors.New("Estimated amount must be positive")
			}
			return nil
		})),
		validation.Field(&in.AppointmentDateTime, utils.DateTimeRules...),
		validation.Field(&in.ReasonForVisit, validation.Length(0, 500)),
	)
}

type AppointmentService interface {
	Book(ctx context.Context, in BookAppointmentInput) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, from, to *time.Time) ([]models.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Appointment, error)
}

type appointmentService struct {
	appointments repositories.AppointmentRepository
	patients     repositories.PatientRepository
	providers    repositories.ProviderRepository
	now          func() time.Time
}

func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	patients repositories.PatientRepository,
	providers repositories.ProviderRepository,
	now func() time.Time,
) AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &appointmentService{
		appointments: appointments,
		patients:     patients,
		providers:    providers,
		now:          now,
	}
}

// Book stores a SCHEDULED appointment. The conflict check and the insert
// are not atomic, so concurrent requests for the same slot can both succeed.
func (s *appointmentService) Book(ctx context.Context, in BookAppointmentInput) (*models.Appointment, error) {
	in.AppointmentMode = strings.ToUpper(strings.TrimSpace(in.AppointmentMode))
	if err := in.Validate(); err != nil {
		return nil, err
	}
	mode, _ := models.ParseAppointmentMode(in.AppointmentMode)
	at, _ := utils.ParseDateTime(in.AppointmentDateTime)

	patient, err := s.patients.GetByID(ctx, uuid.MustParse(in.PatientID))
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, InvalidArgument("Patient not found")
	}
	provider, err := s.providers.GetByID(ctx, uuid.MustParse(in.ProviderID))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, InvalidArgument("Provider not found")
	}

	if at.Before(s.now()) {
		return nil, InvalidArgument("Appointment time cannot be in the past")
	}

	if err := s.checkConflict(ctx, provider.ID, at); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:           patient.ID,
		ProviderID:          provider.ID,
		AppointmentMode:     mode,
		AppointmentType:     strings.TrimSpace(in.AppointmentType),
		EstimatedAmount:     in.EstimatedAmount,
		AppointmentDateTime: at,
		ReasonForVisit:      in.ReasonForVisit,
		Status:              models.StatusScheduled,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}
	appointment.Patient = *patient
	appointment.Provider = *provider

	log.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("provider_id", provider.ID.String()).
		Time("at", at).
		Msg("appointment booked")
	return appointment, nil
}

func (s *appointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.GetAll(ctx)
}

func (s *appointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *appointmentService) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to *time.Time) ([]models.Appointment, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, InvalidArgument("to must not be before from")
	}
	return s.appointments.ListByProvider(ctx, providerID, from, to)
}

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, NotFound("Appointment not found")
	}
	return appointment, nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Appointment, error) {
	parsed, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, InvalidArgument("Invalid appointment status")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Leaving CANCELLED re-enters the provider's schedule.
	if current.Status == models.StatusCancelled && parsed != models.StatusCancelled {
		if err := s.checkConflict(ctx, current.ProviderID, current.AppointmentDateTime); err != nil {
			return nil, err
		}
	}

	if err := s.appointments.UpdateStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Appointment not found")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// checkConflict rejects a slot already held by a non-cancelled appointment of
// the provider at exactly the same instant.
func (s *appointmentService) checkConflict(ctx context.Context, providerID uuid.UUID, at time.Time) error {
	conflicts, err := s.appointments.CountConflicting(ctx, providerID, at)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return InvalidArgument("Provider has a conflicting appointment at this time")
	}
	return nil
}

package services

import (
	"HealthFirst/models"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	svc          AppointmentService
	appointments *memoryAppointments
	patient      *models.Patient
	provider     *models.Provider
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	patient := &models.Patient{ID: uuid.New(), FirstName: "Jane", LastName: "Smith"}
	provider := &models.Provider{ID: uuid.New(), FirstName: "John", LastName: "Doe"}

	patients := new(mockPatientRepository)
	patients.On("GetByID", mock.Anything, patient.ID).Return(patient, nil)
	patients.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)
	providers := new(mockProviderRepository)
	providers.On("GetByID", mock.Anything, provider.ID).Return(provider, nil)
	providers.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

	appointments := newMemoryAppointments()
	return &appointmentFixture{
		svc:          NewAppointmentService(appointments, patients, providers, func() time.Time { return testNow }),
		appointments: appointments,
		patient:      patient,
		provider:     provider,
	}
}

func (f *appointmentFixture) input(at string) BookAppointmentInput {
	return BookAppointmentInput{
		PatientID:           f.patient.ID.String(),
		ProviderID:          f.provider.ID.String(),
		AppointmentMode:     "in_person",
		AppointmentType:     "Consultation",
		AppointmentDateTime: at,
		ReasonForVisit:      "Annual checkup",
	}
}

func TestBookAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment, err := f.svc.Book(context.Background(), f.input("2026-03-10T09:00:00"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, appointment.Status)
	assert.Equal(t, models.ModeInPerson, appointment.AppointmentMode)
	assert.Equal(t, "Jane Smith", appointment.Patient.FullName())
	assert.Equal(t, "John Doe", appointment.Provider.FullName())
	assert.True(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Equal(appointment.AppointmentDateTime))
}

func TestBookAppointmentConflicts(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.svc.Book(ctx, f.input("2026-03-10T09:00:00"))
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, f.input("2026-03-10T09:00:00Z"))
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.EqualError(t, err, "Provider has a conflicting appointment at this time")

	// Only identical timestamps conflict.
	_, err = f.svc.Book(ctx, f.input("2026-03-10T09:15:00"))
	assert.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, first.ID, "CANCELLED")
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, f.input("2026-03-10T09:00:00"))
	assert.NoError(t, err)
}

func TestReactivatingCancelledAppointmentChecksConflicts(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.svc.Book(ctx, f.input("2026-03-10T09:00:00"))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, first.ID, "CANCELLED")
	require.NoError(t, err)
	second, err := f.svc.Book(ctx, f.input("2026-03-10T09:00:00"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, first.ID, "SCHEDULED")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.EqualError(t, err, "Provider has a conflicting appointment at this time")

	live, err := f.appointments.CountConflicting(ctx, f.provider.ID, first.AppointmentDateTime)
	require.NoError(t, err)
	assert.Equal(t, int64(1), live)

	// Once the slot is free again the cancelled booking can come back.
	_, err = f.svc.UpdateStatus(ctx, second.ID, "CANCELLED")
	require.NoError(t, err)
	restored, err := f.svc.UpdateStatus(ctx, first.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, restored.Status)
}

func TestBookAppointmentRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BookAppointmentInput)
		message string
	}{
		{
			name:    "unknown patient",
			mutate:  func(in *BookAppointmentInput) { in.PatientID = uuid.New().String() },
			message: "Patient not found",
		},
		{
			name:    "unknown provider",
			mutate:  func(in *BookAppointmentInput) { in.ProviderID = uuid.New().String() },
			message: "Provider not found",
		},
		{
			name:    "in the past",
			mutate:  func(in *BookAppointmentInput) { in.AppointmentDateTime = "2026-02-28T09:00:00" },
			message: "Appointment time cannot be in the past",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			in := f.input("2026-03-10T09:00:00")
			tt.mutate(&in)

			_, err := f.svc.Book(context.Background(), in)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestBookAppointmentFieldValidation(t *testing.T) {
	f := newAppointmentFixture(t)
	zero := 0.0
	in := f.input("next tuesday")
	in.AppointmentMode = "TELEPATHY"
	in.EstimatedAmount = &zero

	_, err := f.svc.Book(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Contains(t, err.Error(), "appointment_mode")
	assert.Contains(t, err.Error(), "appointment_date_time")
	assert.Contains(t, err.Error(), "Estimated amount must be positive")
}

func TestAppointmentListings(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	for _, at := range []string{"2026-03-10T09:00:00", "2026-03-11T09:00:00", "2026-03-12T09:00:00"} {
		_, err := f.svc.Book(ctx, f.input(at))
		require.NoError(t, err)
	}

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.svc.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	ranged, err := f.svc.ListByProvider(ctx, f.provider.ID, &from, &to)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	_, err = f.svc.ListByProvider(ctx, f.provider.ID, &to, &from)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestAppointmentGetAndStatus(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.UpdateStatus(ctx, uuid.New(), "CONFIRMED")
	assert.Equal(t, KindNotFound, KindOf(err))

	booked, err := f.svc.Book(ctx, f.input("2026-03-10T09:00:00"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, booked.ID, "RESCHEDULED")
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	updated, err := f.svc.UpdateStatus(ctx, booked.ID, "no_show")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoShow, updated.Status)
}

package services

import (
	"HealthFirst/models"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockPatientRepository struct {
	mock.Mock
}

func (m *mockPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	args := m.Called(ctx, patient)
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	args := m.Called(ctx, id)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepository) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	args := m.Called(ctx, email)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *mockPatientRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockPatientRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *mockPatientRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPatientRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

type mockProviderRepository struct {
	mock.Mock
}

func (m *mockProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	args := m.Called(ctx, provider)
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	args := m.Called(ctx, id)
	provider, _ := args.Get(0).(*models.Provider)
	return provider, args.Error(1)
}

func (m *mockProviderRepository) GetByEmail(ctx context.Context, email string) (*models.Provider, error) {
	args := m.Called(ctx, email)
	provider, _ := args.Get(0).(*models.Provider)
	return provider, args.Error(1)
}

func (m *mockProviderRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockProviderRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *mockProviderRepository) LicenseExists(ctx context.Context, license string) (bool, error) {
	args := m.Called(ctx, license)
	return args.Bool(0), args.Error(1)
}

func (m *mockProviderRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProviderRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockProviderRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// memoryAppointments is an in-memory AppointmentRepository that applies the
// same conflict rule as the SQL query.
type memoryAppointments struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Appointment
}

func newMemoryAppointments() *memoryAppointments {
	return &memoryAppointments{rows: map[uuid.UUID]models.Appointment{}}
}

func (m *memoryAppointments) Create(_ context.Context, appointment *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	m.rows[appointment.ID] = *appointment
	return nil
}

func (m *memoryAppointments) GetByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appointment, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (m *memoryAppointments) GetAll(_ context.Context) ([]models.Appointment, error) {
	return m.filter(func(models.Appointment) bool { return true }), nil
}

func (m *memoryAppointments) ListByPatient(_ context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (m *memoryAppointments) ListByProvider(_ context.Context, providerID uuid.UUID, from, to *time.Time) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool {
		if a.ProviderID != providerID {
			return false
		}
		if from != nil && a.AppointmentDateTime.Before(*from) {
			return false
		}
		if to != nil && a.AppointmentDateTime.After(*to) {
			return false
		}
		return true
	}), nil
}

func (m *memoryAppointments) CountConflicting(_ context.Context, providerID uuid.UUID, at time.Time) (int64, error) {
	matches := m.filter(func(a models.Appointment) bool {
		return a.ProviderID == providerID && a.AppointmentDateTime.Equal(at) && a.Status != models.StatusCancelled
	})
	return int64(len(matches)), nil
}

func (m *memoryAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appointment, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	appointment.Status = status
	m.rows[id] = appointment
	return nil
}

func (m *memoryAppointments) filter(keep func(models.Appointment) bool) []models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type mockAvailabilityRepository struct {
	mock.Mock
}

func (m *mockAvailabilityRepository) Create(ctx context.Context, availability *models.ProviderAvailability) error {
	args := m.Called(ctx, availability)
	if availability.ID == uuid.Nil {
		availability.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProviderAvailability, error) {
	args := m.Called(ctx, id)
	availability, _ := args.Get(0).(*models.ProviderAvailability)
	return availability, args.Error(1)
}

func (m *mockAvailabilityRepository) Update(ctx context.Context, availability *models.ProviderAvailability) error {
	return m.Called(ctx, availability).Error(0)
}

func (m *mockAvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAvailabilityRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, date string) ([]models.ProviderAvailability, error) {
	args := m.Called(ctx, providerID, date)
	availabilities, _ := args.Get(0).([]models.ProviderAvailability)
	return availabilities, args.Error(1)
}

type recordingMailer struct {
	mu            sync.Mutex
	verifications []string
	resetCodes    []string
}

func (m *recordingMailer) SendVerificationEmail(to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, link)
	return nil
}

func (m *recordingMailer) SendResetCodeEmail(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCodes = append(m.resetCodes, code)
	return nil
}

type stubLocker struct {
	err      error
	acquired []string
}

func (l *stubLocker) Acquire(_ context.Context, key, _ string, _ time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() {}, nil
}

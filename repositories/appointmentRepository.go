package repositories

import (
	"HealthFirst/cache"
	"HealthFirst/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	AppointmentCacheExpiry = 10 * time.Minute

	appointmentsCacheKey = "appointments_cache"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, from, to *time.Time) ([]models.Appointment, error)
	CountConflicting(ctx context.Context, providerID uuid.UUID, at time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) error
}

type appointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) AppointmentRepository {
	return &appointmentRepository{db: db, cache: cache}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Patient and provider rows already exist; never upsert them from here.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", translateWriteError(err))
	}
	r.invalidate(ctx, appointment.ID)
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cacheKey := appointmentCacheKey(id)
	var cached models.Appointment
	if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to get appointment from cache")
	} else if found {
		return &cached, nil
	}

	var appointment models.Appointment
	err := r.withParties(ctx).First(&appointment, "appointments.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointment, AppointmentCacheExpiry); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to set appointment in cache")
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return r.list(ctx, appointmentsCacheKey, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	return r.list(ctx, fmt.Sprintf("%s:patient:%s", appointmentsCacheKey, patientID), func(db *gorm.DB) *gorm.DB {
		return db.Where("appointments.patient_id = ?", patientID)
	})
}

func (r *appointmentRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to *time.Time) ([]models.Appointment, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("appointments.provider_id = ?", providerID)
		if from != nil {
			db = db.Where("appointments.appointment_date_time >= ?", *from)
		}
		if to != nil {
			db = db.Where("appointments.appointment_date_time <= ?", *to)
		}
		return db
	}

	// Only the unfiltered listing is cached.
	cacheKey := ""
	if from == nil && to == nil {
		cacheKey = fmt.Sprintf("%s:provider:%s", appointmentsCacheKey, providerID)
	}
	return r.list(ctx, cacheKey, scope)
}

func (r *appointmentRepository) list(ctx context.Context, cacheKey string, scope func(*gorm.DB) *gorm.DB) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if cacheKey != "" {
		var cached []models.Appointment
		if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to get appointments from cache")
		} else if found {
			return cached, nil
		}
	}

	appointments := []models.Appointment{}
	err := scope(r.withParties(ctx)).
		Order("appointments.appointment_date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if cacheKey != "" {
		if err := r.cache.SetJSON(ctx, cacheKey, appointments, AppointmentCacheExpiry); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to set appointments in cache")
		}
	}
	return appointments, nil
}

// CountConflicting counts non-cancelled appointments the provider holds at
// exactly the given instant. Overlapping durations are not considered.
func (r *appointmentRepository) CountConflicting(ctx context.Context, providerID uuid.UUID, at time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("provider_id = ? AND appointment_date_time = ? AND status <> ?", providerID, at, models.StatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count conflicting appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *appointmentRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Provider")
}

// invalidate drops the cached appointment and every cached listing. The
// database write has already succeeded, so cache failures are only logged.
func (r *appointmentRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, appointmentCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("appointment_id", id.String()).Msg("failed to delete appointment cache")
	}
	if err := r.cache.DeleteAll(ctx, appointmentsCacheKey+"*"); err != nil {
		log.Warn().Err(err).Msg("failed to delete appointment listings cache")
	}
}

func appointmentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("appointment_cache:%s", id)
}

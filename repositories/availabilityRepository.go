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

const AvailabilityCacheExpiry = 10 * time.Minute

type AvailabilityRepository interface {
	Create(ctx context.Context, availability *models.ProviderAvailability) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProviderAvailability, error)
	Update(ctx context.Context, availability *models.ProviderAvailability) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, date string) ([]models.ProviderAvailability, error)
}

type availabilityRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAvailabilityRepository(db *gorm.DB, cache *cache.Cache) AvailabilityRepository {
	return &availabilityRepository{db: db, cache: cache}
}

func (r *availabilityRepository) Create(ctx context.Context, availability *models.ProviderAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(availability).Error; err != nil {
		return fmt.Errorf("failed to create availability: %w", translateWriteError(err))
	}
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProviderAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cacheKey := availabilityCacheKey(id)
	var cached models.ProviderAvailability
	if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to get availability from cache")
	} else if found {
		return &cached, nil
	}

	var availability models.ProviderAvailability
	if err := r.db.WithContext(ctx).First(&availability, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, availability, AvailabilityCacheExpiry); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to set availability in cache")
	}
	return &availability, nil
}

func (r *availabilityRepository) Update(ctx context.Context, availability *models.ProviderAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(availability).Error; err != nil {
		return fmt.Errorf("failed to update availability: %w", translateWriteError(err))
	}
	r.invalidate(ctx, availability.ID)
	return nil
}

// Delete reports false when no row matched id.
func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.ProviderAvailability{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete availability: %w", result.Error)
	}
	r.invalidate(ctx, id)
	return result.RowsAffected > 0, nil
}

func (r *availabilityRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, date string) ([]models.ProviderAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if date != "" {
		query = query.Where("date = ?", date)
	}

	availabilities := []models.ProviderAvailability{}
	if err := query.Order("date ASC, start_time ASC").Find(&availabilities).Error; err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return availabilities, nil
}

func (r *availabilityRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, availabilityCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("availability_id", id.String()).Msg("failed to delete availability cache")
	}
}

func availabilityCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("availability_cache:%s", id)
}

package repositories

import (
	"HealthFirst/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	GetByEmail(ctx context.Context, email string) (*models.Provider, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	LicenseExists(ctx context.Context, license string) (bool, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error
}

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return fmt.Errorf("failed to create provider: %w", translateWriteError(err))
	}
	return nil
}

func (r *providerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *providerRepository) GetByEmail(ctx context.Context, email string) (*models.Provider, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *providerRepository) first(ctx context.Context, query string, arg interface{}) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var provider models.Provider
	err := r.db.WithContext(ctx).Where(query, arg).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *providerRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone_number = ?", phone)
}

func (r *providerRepository) LicenseExists(ctx context.Context, license string) (bool, error) {
	return r.exists(ctx, "license_number = ?", license)
}

func (r *providerRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Provider{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check provider existence: %w", err)
	}
	return count > 0, nil
}

func (r *providerRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]interface{}{"email_verified": true})
}

func (r *providerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *providerRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error {
	return r.update(ctx, id, map[string]interface{}{"verification_status": status})
}

func (r *providerRepository) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Provider{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

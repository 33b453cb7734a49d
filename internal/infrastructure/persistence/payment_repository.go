package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Payment, error) {
	var payment catalog.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByReference finds payments by case-insensitive reference equality
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) ([]catalog.Payment, error) {
	lowered := strings.ToLower(strings.TrimSpace(reference))
	if lowered == "" {
		return []catalog.Payment{}, nil
	}
	var payments []catalog.Payment
	if err := r.db.WithContext(ctx).
		Where("LOWER(reference) = ?", lowered).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *catalog.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ catalog.PaymentRepository = (*GormPaymentRepository)(nil)

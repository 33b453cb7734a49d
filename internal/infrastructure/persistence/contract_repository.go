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

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Contract, error) {
	var contract catalog.Contract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// FindByNumber finds contracts by case-insensitive number equality
func (r *GormContractRepository) FindByNumber(ctx context.Context, number string) ([]catalog.Contract, error) {
	lowered := strings.ToLower(strings.TrimSpace(number))
	if lowered == "" {
		return []catalog.Contract{}, nil
	}
	var contracts []catalog.Contract
	if err := r.db.WithContext(ctx).
		Where("LOWER(number) = ?", lowered).
		Order("number ASC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *catalog.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// Ensure GormContractRepository implements ContractRepository
var _ catalog.ContractRepository = (*GormContractRepository)(nil)

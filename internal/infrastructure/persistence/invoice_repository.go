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

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Invoice, error) {
	var invoice catalog.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds invoices by case-insensitive number equality
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) ([]catalog.Invoice, error) {
	lowered := strings.ToLower(strings.TrimSpace(number))
	if lowered == "" {
		return []catalog.Invoice{}, nil
	}
	var invoices []catalog.Invoice
	if err := r.db.WithContext(ctx).
		Where("LOWER(number) = ?", lowered).
		Order("number ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *catalog.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ catalog.InvoiceRepository = (*GormInvoiceRepository)(nil)

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

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	var vendor catalog.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByExactName finds vendors whose legal or display name equals the
// given name case-insensitively
func (r *GormVendorRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Vendor, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return []catalog.Vendor{}, nil
	}
	var vendors []catalog.Vendor
	if err := r.db.WithContext(ctx).
		Where("LOWER(legal_name) = ? OR LOWER(display_name) = ?", lowered, lowered).
		Order("legal_name ASC").
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// SearchByName is a typeahead-style substring search over both name columns
func (r *GormVendorRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Vendor, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	if limit <= 0 {
		limit = 20
	}
	var vendors []catalog.Vendor
	if err := r.db.WithContext(ctx).
		Where("LOWER(legal_name) LIKE ? OR LOWER(display_name) LIKE ?", pattern, pattern).
		Order("legal_name ASC").
		Limit(limit).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindByContactEmail finds vendors having a contact with the normalized email
func (r *GormVendorRepository) FindByContactEmail(ctx context.Context, email string) ([]catalog.Vendor, error) {
	normalized := catalog.NormalizeEmail(email)
	if normalized == "" {
		return []catalog.Vendor{}, nil
	}
	var vendors []catalog.Vendor
	if err := r.db.WithContext(ctx).
		Distinct("vendors.*").
		Joins("JOIN vendor_contacts ON vendor_contacts.vendor_id = vendors.id").
		Where("vendor_contacts.email = ?", normalized).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindByContactPhone finds vendors having a contact with the digits-normalized phone
func (r *GormVendorRepository) FindByContactPhone(ctx context.Context, phone string) ([]catalog.Vendor, error) {
	normalized := catalog.NormalizePhone(phone)
	if normalized == "" {
		return []catalog.Vendor{}, nil
	}
	var vendors []catalog.Vendor
	if err := r.db.WithContext(ctx).
		Distinct("vendors.*").
		Joins("JOIN vendor_contacts ON vendor_contacts.vendor_id = vendors.id").
		Where("vendor_contacts.phone = ?", normalized).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindAll finds all vendors matching the filter
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Vendor, error) {
	var vendors []catalog.Vendor
	query := r.db.WithContext(ctx).Model(&catalog.Vendor{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(legal_name) LIKE ? OR LOWER(display_name) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("legal_name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// SaveIdentifier creates or updates a vendor identifier
func (r *GormVendorRepository) SaveIdentifier(ctx context.Context, ident *catalog.VendorIdentifier) error {
	return r.db.WithContext(ctx).Save(ident).Error
}

// SaveOwner creates or updates a vendor owner link
func (r *GormVendorRepository) SaveOwner(ctx context.Context, owner *catalog.VendorOwner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

// SaveContact creates or updates a vendor contact
func (r *GormVendorRepository) SaveContact(ctx context.Context, contact *catalog.VendorContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// FindContactsByVendor finds the contacts attached to a vendor
func (r *GormVendorRepository) FindContactsByVendor(ctx context.Context, vendorID uuid.UUID) ([]catalog.VendorContact, error) {
	var contacts []catalog.VendorContact
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Ensure GormVendorRepository implements VendorRepository
var _ catalog.VendorRepository = (*GormVendorRepository)(nil)

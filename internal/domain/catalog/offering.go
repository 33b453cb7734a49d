package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// OfferingStatus represents the lifecycle status of an offering
type OfferingStatus string

const (
	OfferingStatusActive   OfferingStatus = "active"
	OfferingStatusInactive OfferingStatus = "inactive"
	OfferingStatusSunset   OfferingStatus = "sunset"
)

// Offering is a product or service a vendor provides
type Offering struct {
	shared.BaseAggregateRoot
	VendorID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name     string         `gorm:"type:varchar(300);not null;index"`
	Category string         `gorm:"type:varchar(100)"`
	Status   OfferingStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes    string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Offering) TableName() string {
	return "offerings"
}

// NewOffering creates a new offering. The parent vendor is required.
func NewOffering(vendorID uuid.UUID, name, category string) (*Offering, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Offering name cannot be empty")
	}
	if len(name) > 300 {
		return nil, shared.NewDomainError("INVALID_NAME", "Offering name cannot exceed 300 characters")
	}
	return &Offering{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Name:              strings.TrimSpace(name),
		Category:          strings.TrimSpace(category),
		Status:            OfferingStatusActive,
	}, nil
}

// Update updates the offering's mutable fields
func (o *Offering) Update(name, category string) error {
	if name != "" {
		if len(name) > 300 {
			return shared.NewDomainError("INVALID_NAME", "Offering name cannot exceed 300 characters")
		}
		o.Name = strings.TrimSpace(name)
	}
	if category != "" {
		o.Category = strings.TrimSpace(category)
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// OfferingOwner links an offering to an owning user or organization
type OfferingOwner struct {
	shared.BaseEntity
	OfferingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner      string    `gorm:"type:varchar(200);not null"`
	Role       string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OfferingOwner) TableName() string {
	return "offering_owners"
}

// NewOfferingOwner creates a new offering owner link
func NewOfferingOwner(offeringID uuid.UUID, owner, role string) (*OfferingOwner, error) {
	if offeringID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OFFERING_ID", "Offering ID is required")
	}
	if strings.TrimSpace(owner) == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner cannot be empty")
	}
	return &OfferingOwner{
		BaseEntity: shared.NewBaseEntity(),
		OfferingID: offeringID,
		Owner:      strings.TrimSpace(owner),
		Role:       strings.TrimSpace(role),
	}, nil
}

// OfferingContact is a contact person attached to an offering
type OfferingContact struct {
	shared.BaseEntity
	OfferingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200)"`
	Email      string    `gorm:"type:varchar(200);index"`
	Phone      string    `gorm:"type:varchar(50)"`
	Kind       string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OfferingContact) TableName() string {
	return "offering_contacts"
}

// NewOfferingContact creates a new offering contact
func NewOfferingContact(offeringID uuid.UUID, name, email, phone, kind string) (*OfferingContact, error) {
	if offeringID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OFFERING_ID", "Offering ID is required")
	}
	if strings.TrimSpace(name) == "" && email == "" && phone == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact must have a name, email, or phone")
	}
	return &OfferingContact{
		BaseEntity: shared.NewBaseEntity(),
		OfferingID: offeringID,
		Name:       strings.TrimSpace(name),
		Email:      NormalizeEmail(email),
		Phone:      NormalizePhone(phone),
		Kind:       strings.TrimSpace(kind),
	}, nil
}

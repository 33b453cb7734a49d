package catalog

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// VendorStatus represents the lifecycle status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
	VendorStatusRetired  VendorStatus = "retired"
)

// Vendor is the canonical vendor record staged data is matched against.
// It is the aggregate root for vendor-related operations.
type Vendor struct {
	shared.BaseAggregateRoot
	LegalName   string       `gorm:"type:varchar(300);not null;index"`
	DisplayName string       `gorm:"type:varchar(300);index"`
	OwnerOrg    string       `gorm:"type:varchar(200)"`
	Status      VendorStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Website     string       `gorm:"type:varchar(500)"`
	Notes       string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor with required fields
func NewVendor(legalName, displayName string) (*Vendor, error) {
	if strings.TrimSpace(legalName) == "" {
		return nil, shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot be empty")
	}
	if len(legalName) > 300 {
		return nil, shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 300 characters")
	}
	if displayName == "" {
		displayName = legalName
	}
	return &Vendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LegalName:         strings.TrimSpace(legalName),
		DisplayName:       strings.TrimSpace(displayName),
		Status:            VendorStatusActive,
	}, nil
}

// Update updates the vendor's basic information
func (v *Vendor) Update(legalName, displayName, ownerOrg string) error {
	if legalName != "" {
		if len(legalName) > 300 {
			return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 300 characters")
		}
		v.LegalName = strings.TrimSpace(legalName)
	}
	if displayName != "" {
		v.DisplayName = strings.TrimSpace(displayName)
	}
	if ownerOrg != "" {
		v.OwnerOrg = strings.TrimSpace(ownerOrg)
	}
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// NameMatches reports whether the given name equals the vendor's display
// or legal name, case-insensitively.
func (v *Vendor) NameMatches(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n != "" &&
		(n == strings.ToLower(v.LegalName) || n == strings.ToLower(v.DisplayName))
}

// VendorIdentifier is an external-system identifier attached to a vendor
// (e.g. a DUNS number or a peer system's vendor key).
type VendorIdentifier struct {
	shared.BaseEntity
	VendorID uuid.UUID `gorm:"type:uuid;not null;index"`
	System   string    `gorm:"type:varchar(100);not null"`
	Value    string    `gorm:"type:varchar(200);not null;index"`
}

// TableName returns the table name for GORM
func (VendorIdentifier) TableName() string {
	return "vendor_identifiers"
}

// NewVendorIdentifier creates a new vendor identifier
func NewVendorIdentifier(vendorID uuid.UUID, system, value string) (*VendorIdentifier, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(value) == "" {
		return nil, shared.NewDomainError("INVALID_IDENTIFIER", "Identifier value cannot be empty")
	}
	return &VendorIdentifier{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		System:     strings.TrimSpace(system),
		Value:      strings.TrimSpace(value),
	}, nil
}

// VendorOwner links a vendor to an owning user or organization
type VendorOwner struct {
	shared.BaseEntity
	VendorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner    string    `gorm:"type:varchar(200);not null"`
	Role     string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (VendorOwner) TableName() string {
	return "vendor_owners"
}

// NewVendorOwner creates a new vendor owner link
func NewVendorOwner(vendorID uuid.UUID, owner, role string) (*VendorOwner, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(owner) == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner cannot be empty")
	}
	return &VendorOwner{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		Owner:      strings.TrimSpace(owner),
		Role:       strings.TrimSpace(role),
	}, nil
}

// VendorContact is a contact person attached to a vendor
type VendorContact struct {
	shared.BaseEntity
	VendorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(200)"`
	Email    string    `gorm:"type:varchar(200);index"`
	Phone    string    `gorm:"type:varchar(50);index"`
	Kind     string    `gorm:"type:varchar(50)"` // e.g. support, billing, escalation
}

// TableName returns the table name for GORM
func (VendorContact) TableName() string {
	return "vendor_contacts"
}

// NewVendorContact creates a new vendor contact. Email is lower-cased and
// phone is reduced to digits so the contact index stays canonical.
func NewVendorContact(vendorID uuid.UUID, name, email, phone, kind string) (*VendorContact, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(name) == "" && email == "" && phone == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact must have a name, email, or phone")
	}
	return &VendorContact{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		Name:       strings.TrimSpace(name),
		Email:      NormalizeEmail(email),
		Phone:      NormalizePhone(phone),
		Kind:       strings.TrimSpace(kind),
	}, nil
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone reduces a phone number to its digits. Returns "" when
// fewer than 7 digits remain, which is too short to identify anything.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 7 {
		return ""
	}
	return digits
}

package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// Contract is an agreement with a vendor, optionally tied to one offering
type Contract struct {
	shared.BaseAggregateRoot
	VendorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OfferingID *uuid.UUID      `gorm:"type:uuid;index"`
	Number     string          `gorm:"type:varchar(100);not null;index"`
	StartDate  *time.Time      `gorm:"type:date"`
	EndDate    *time.Time      `gorm:"type:date"`
	Value      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency   string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Contract) TableName() string {
	return "contracts"
}

// NewContract creates a new contract for a vendor
func NewContract(vendorID uuid.UUID, number string, value decimal.Decimal) (*Contract, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Contract number cannot be empty")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Contract value cannot be negative")
	}
	return &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Number:            strings.TrimSpace(number),
		Value:             value,
		Currency:          "USD",
	}, nil
}

// SetPeriod sets the contract start and end dates
func (c *Contract) SetPeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_PERIOD", "Contract end date cannot precede start date")
	}
	c.StartDate = start
	c.EndDate = end
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetOffering ties the contract to an offering
func (c *Contract) SetOffering(offeringID uuid.UUID) {
	if offeringID == uuid.Nil {
		c.OfferingID = nil
	} else {
		c.OfferingID = &offeringID
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// Invoice is a vendor invoice, optionally tied to a contract or project
type Invoice struct {
	shared.BaseAggregateRoot
	VendorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContractID *uuid.UUID      `gorm:"type:uuid;index"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	Number     string          `gorm:"type:varchar(100);not null;index"`
	IssuedAt   *time.Time      `gorm:"type:date"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency   string          `gorm:"type:varchar(10);not null;default:'USD'"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice for a vendor
func NewInvoice(vendorID uuid.UUID, number string, amount decimal.Decimal) (*Invoice, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Number:            strings.TrimSpace(number),
		Amount:            amount,
		Currency:          "USD",
	}, nil
}

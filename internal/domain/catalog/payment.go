package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// Payment is a payment against a vendor, optionally tied to an invoice
type Payment struct {
	shared.BaseAggregateRoot
	VendorID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	PaidAt    *time.Time      `gorm:"type:date"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency  string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Method    string          `gorm:"type:varchar(50)"`
	Reference string          `gorm:"type:varchar(200);index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment for a vendor
func NewPayment(vendorID uuid.UUID, amount decimal.Decimal, method, reference string) (*Payment, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Amount:            amount,
		Method:            strings.TrimSpace(method),
		Reference:         strings.TrimSpace(reference),
	}, nil
}

// SetInvoice ties the payment to an invoice
func (p *Payment) SetInvoice(invoiceID uuid.UUID) {
	if invoiceID == uuid.Nil {
		p.InvoiceID = nil
	} else {
		p.InvoiceID = &invoiceID
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// VendorRepository is the lookup and write surface the reconciliation
// pipeline needs from canonical vendor storage. Survivorship and merge
// logic for canonical duplicates live elsewhere.
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	// FindByExactName returns vendors whose legal or display name equals
	// the given name case-insensitively.
	FindByExactName(ctx context.Context, name string) ([]Vendor, error)
	// SearchByName is a typeahead-style substring search.
	SearchByName(ctx context.Context, name string, limit int) ([]Vendor, error)
	// FindByContactEmail returns vendors having a contact with the given
	// normalized email.
	FindByContactEmail(ctx context.Context, email string) ([]Vendor, error)
	// FindByContactPhone returns vendors having a contact with the given
	// digits-normalized phone.
	FindByContactPhone(ctx context.Context, phone string) ([]Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error

	SaveIdentifier(ctx context.Context, ident *VendorIdentifier) error
	SaveOwner(ctx context.Context, owner *VendorOwner) error
	SaveContact(ctx context.Context, contact *VendorContact) error
	FindContactsByVendor(ctx context.Context, vendorID uuid.UUID) ([]VendorContact, error)
}

// OfferingRepository is the canonical offering boundary
type OfferingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	FindByExactName(ctx context.Context, name string) ([]Offering, error)
	SearchByName(ctx context.Context, name string, limit int) ([]Offering, error)
	Save(ctx context.Context, offering *Offering) error

	SaveOwner(ctx context.Context, owner *OfferingOwner) error
	SaveContact(ctx context.Context, contact *OfferingContact) error
}

// ContractRepository is the canonical contract boundary
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByNumber(ctx context.Context, number string) ([]Contract, error)
	Save(ctx context.Context, contract *Contract) error
}

// ProjectRepository is the canonical project boundary
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByExactName(ctx context.Context, name string) ([]Project, error)
	SearchByName(ctx context.Context, name string, limit int) ([]Project, error)
	Save(ctx context.Context, project *Project) error
}

// InvoiceRepository is the canonical invoice boundary
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
}

// PaymentRepository is the canonical payment boundary
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByReference(ctx context.Context, reference string) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}

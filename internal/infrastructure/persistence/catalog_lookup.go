package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// CatalogLookup adapts the canonical repositories to the matcher's read
// surface. Number-keyed areas (contracts, invoices, payments) only ever
// match exactly; substring search for them falls back to the exact finder.
type CatalogLookup struct {
	vendors   catalog.VendorRepository
	offerings catalog.OfferingRepository
	contracts catalog.ContractRepository
	projects  catalog.ProjectRepository
	invoices  catalog.InvoiceRepository
	payments  catalog.PaymentRepository
}

// NewCatalogLookup creates a lookup over the canonical repositories
func NewCatalogLookup(
	vendors catalog.VendorRepository,
	offerings catalog.OfferingRepository,
	contracts catalog.ContractRepository,
	projects catalog.ProjectRepository,
	invoices catalog.InvoiceRepository,
	payments catalog.PaymentRepository,
) *CatalogLookup {
	return &CatalogLookup{
		vendors:   vendors,
		offerings: offerings,
		contracts: contracts,
		projects:  projects,
		invoices:  invoices,
		payments:  payments,
	}
}

// Exists checks whether a canonical entity with the given ID exists
func (l *CatalogLookup) Exists(ctx context.Context, area recon.Area, id uuid.UUID) (bool, error) {
	var err error
	switch area {
	case recon.AreaVendor:
		_, err = l.vendors.FindByID(ctx, id)
	case recon.AreaOffering:
		_, err = l.offerings.FindByID(ctx, id)
	case recon.AreaContract:
		_, err = l.contracts.FindByID(ctx, id)
	case recon.AreaProject:
		_, err = l.projects.FindByID(ctx, id)
	case recon.AreaInvoice:
		_, err = l.invoices.FindByID(ctx, id)
	case recon.AreaPayment:
		_, err = l.payments.FindByID(ctx, id)
	default:
		return false, fmt.Errorf("area %s has no canonical lookup", area)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindByExactName finds entities by their identifying name, number, or
// reference depending on the area
func (l *CatalogLookup) FindByExactName(ctx context.Context, area recon.Area, name string) ([]reconapp.EntityRef, error) {
	switch area {
	case recon.AreaVendor:
		vendors, err := l.vendors.FindByExactName(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(vendors))
		for _, v := range vendors {
			refs = append(refs, reconapp.EntityRef{ID: v.ID, Name: v.LegalName})
		}
		return refs, nil
	case recon.AreaOffering:
		offerings, err := l.offerings.FindByExactName(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(offerings))
		for _, o := range offerings {
			refs = append(refs, reconapp.EntityRef{ID: o.ID, Name: o.Name})
		}
		return refs, nil
	case recon.AreaContract:
		contracts, err := l.contracts.FindByNumber(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(contracts))
		for _, c := range contracts {
			refs = append(refs, reconapp.EntityRef{ID: c.ID, Name: c.Number})
		}
		return refs, nil
	case recon.AreaProject:
		projects, err := l.projects.FindByExactName(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(projects))
		for _, p := range projects {
			refs = append(refs, reconapp.EntityRef{ID: p.ID, Name: p.Name})
		}
		return refs, nil
	case recon.AreaInvoice:
		invoices, err := l.invoices.FindByNumber(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(invoices))
		for _, inv := range invoices {
			refs = append(refs, reconapp.EntityRef{ID: inv.ID, Name: inv.Number})
		}
		return refs, nil
	case recon.AreaPayment:
		payments, err := l.payments.FindByReference(ctx, name)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(payments))
		for _, p := range payments {
			refs = append(refs, reconapp.EntityRef{ID: p.ID, Name: p.Reference})
		}
		return refs, nil
	}
	return nil, fmt.Errorf("area %s has no canonical lookup", area)
}

// SearchByName is a substring search over name-keyed areas. Number-keyed
// areas delegate to the exact finder.
func (l *CatalogLookup) SearchByName(ctx context.Context, area recon.Area, name string, limit int) ([]reconapp.EntityRef, error) {
	switch area {
	case recon.AreaVendor:
		vendors, err := l.vendors.SearchByName(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(vendors))
		for _, v := range vendors {
			refs = append(refs, reconapp.EntityRef{ID: v.ID, Name: v.LegalName})
		}
		return refs, nil
	case recon.AreaOffering:
		offerings, err := l.offerings.SearchByName(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(offerings))
		for _, o := range offerings {
			refs = append(refs, reconapp.EntityRef{ID: o.ID, Name: o.Name})
		}
		return refs, nil
	case recon.AreaProject:
		projects, err := l.projects.SearchByName(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		refs := make([]reconapp.EntityRef, 0, len(projects))
		for _, p := range projects {
			refs = append(refs, reconapp.EntityRef{ID: p.ID, Name: p.Name})
		}
		return refs, nil
	case recon.AreaContract, recon.AreaInvoice, recon.AreaPayment:
		return l.FindByExactName(ctx, area, name)
	}
	return nil, fmt.Errorf("area %s has no canonical lookup", area)
}

// FindByContactEmail finds vendors through a contact email
func (l *CatalogLookup) FindByContactEmail(ctx context.Context, email string) ([]reconapp.EntityRef, error) {
	vendors, err := l.vendors.FindByContactEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	refs := make([]reconapp.EntityRef, 0, len(vendors))
	for _, v := range vendors {
		refs = append(refs, reconapp.EntityRef{ID: v.ID, Name: v.LegalName})
	}
	return refs, nil
}

// FindByContactPhone finds vendors through a contact phone
func (l *CatalogLookup) FindByContactPhone(ctx context.Context, phone string) ([]reconapp.EntityRef, error) {
	vendors, err := l.vendors.FindByContactPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	refs := make([]reconapp.EntityRef, 0, len(vendors))
	for _, v := range vendors {
		refs = append(refs, reconapp.EntityRef{ID: v.ID, Name: v.LegalName})
	}
	return refs, nil
}

// Ensure CatalogLookup implements EntityLookup
var _ reconapp.EntityLookup = (*CatalogLookup)(nil)

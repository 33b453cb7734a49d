package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/recon"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&recon.ImportJob{},
		&recon.StagedRow{},
		&recon.MappingProfile{},
		&recon.MappingApprovalRequest{},
		&recon.ReviewConfirmation{},
		&catalog.Vendor{},
		&catalog.VendorIdentifier{},
		&catalog.VendorOwner{},
		&catalog.VendorContact{},
		&catalog.Offering{},
		&catalog.OfferingOwner{},
		&catalog.OfferingContact{},
		&catalog.Contract{},
		&catalog.Project{},
		&catalog.Invoice{},
		&catalog.Payment{},
		&AuditLog{},
	)
	require.NoError(t, err)

	return db
}

// mustVendor creates and saves a vendor for test fixtures
func mustVendor(t *testing.T, db *gorm.DB, legalName, displayName string) *catalog.Vendor {
	t.Helper()
	vendor, err := catalog.NewVendor(legalName, displayName)
	require.NoError(t, err)
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

package reconapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// MockImportJobRepository is a mock implementation of ImportJobRepository
type MockImportJobRepository struct {
	mock.Mock
}

func (m *MockImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recon.ImportJob, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]recon.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) FindBySubmitter(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]recon.ImportJob, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]recon.ImportJob), args.Error(1)
}

func (m *MockImportJobRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportJobRepository) Save(ctx context.Context, job *recon.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockStagedRowRepository is a mock implementation of StagedRowRepository
type MockStagedRowRepository struct {
	mock.Mock
}

func (m *MockStagedRowRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.StagedRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.StagedRow), args.Error(1)
}

func (m *MockStagedRowRepository) FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area recon.Area, filter shared.Filter) ([]recon.StagedRow, error) {
	args := m.Called(ctx, jobID, area, filter)
	return args.Get(0).([]recon.StagedRow), args.Error(1)
}

func (m *MockStagedRowRepository) CountByJobAndStatus(ctx context.Context, jobID uuid.UUID) (map[recon.RowStatus]int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(map[recon.RowStatus]int64), args.Error(1)
}

func (m *MockStagedRowRepository) CountByArea(ctx context.Context, jobID uuid.UUID) (map[recon.Area]int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(map[recon.Area]int64), args.Error(1)
}

func (m *MockStagedRowRepository) FindEligible(ctx context.Context, jobID uuid.UUID, area recon.Area) ([]recon.StagedRow, error) {
	args := m.Called(ctx, jobID, area)
	return args.Get(0).([]recon.StagedRow), args.Error(1)
}

func (m *MockStagedRowRepository) SaveBatch(ctx context.Context, rows []*recon.StagedRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStagedRowRepository) Save(ctx context.Context, row *recon.StagedRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockStagedRowRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// MockApprovalRepository is a mock implementation of ApprovalRepository
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.MappingApprovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.MappingApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) FindByKey(ctx context.Context, layout, signature string, format recon.FileFormat) (*recon.MappingApprovalRequest, error) {
	args := m.Called(ctx, layout, signature, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.MappingApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) FindPending(ctx context.Context, filter shared.Filter) ([]recon.MappingApprovalRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]recon.MappingApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) Save(ctx context.Context, request *recon.MappingApprovalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]recon.ReviewConfirmation, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]recon.ReviewConfirmation), args.Error(1)
}

func (m *MockReviewRepository) FindByJobAndArea(ctx context.Context, jobID uuid.UUID, area recon.Area) (*recon.ReviewConfirmation, error) {
	args := m.Called(ctx, jobID, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.ReviewConfirmation), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, confirmation *recon.ReviewConfirmation) error {
	args := m.Called(ctx, confirmation)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of MappingProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*recon.MappingProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.MappingProfile), args.Error(1)
}

func (m *MockProfileRepository) FindCompatible(ctx context.Context, layout, signature string, format recon.FileFormat, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	args := m.Called(ctx, layout, signature, format, ownerID)
	return args.Get(0).([]recon.MappingProfile), args.Error(1)
}

func (m *MockProfileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]recon.MappingProfile), args.Error(1)
}

func (m *MockProfileRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *recon.MappingProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEntityLookup is a mock implementation of EntityLookup
type MockEntityLookup struct {
	mock.Mock
}

func (m *MockEntityLookup) Exists(ctx context.Context, area recon.Area, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, area, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntityLookup) FindByExactName(ctx context.Context, area recon.Area, name string) ([]EntityRef, error) {
	args := m.Called(ctx, area, name)
	return args.Get(0).([]EntityRef), args.Error(1)
}

func (m *MockEntityLookup) SearchByName(ctx context.Context, area recon.Area, name string, limit int) ([]EntityRef, error) {
	args := m.Called(ctx, area, name, limit)
	return args.Get(0).([]EntityRef), args.Error(1)
}

func (m *MockEntityLookup) FindByContactEmail(ctx context.Context, email string) ([]EntityRef, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]EntityRef), args.Error(1)
}

func (m *MockEntityLookup) FindByContactPhone(ctx context.Context, phone string) ([]EntityRef, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).([]EntityRef), args.Error(1)
}

// MockVendorRepository is a mock implementation of catalog.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Vendor, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Vendor, error) {
	args := m.Called(ctx, name, limit)
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByContactEmail(ctx context.Context, email string) ([]catalog.Vendor, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByContactPhone(ctx context.Context, phone string) ([]catalog.Vendor, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Vendor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) SaveIdentifier(ctx context.Context, ident *catalog.VendorIdentifier) error {
	args := m.Called(ctx, ident)
	return args.Error(0)
}

func (m *MockVendorRepository) SaveOwner(ctx context.Context, owner *catalog.VendorOwner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockVendorRepository) SaveContact(ctx context.Context, contact *catalog.VendorContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockVendorRepository) FindContactsByVendor(ctx context.Context, vendorID uuid.UUID) ([]catalog.VendorContact, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]catalog.VendorContact), args.Error(1)
}

// MockOfferingRepository is a mock implementation of catalog.OfferingRepository
type MockOfferingRepository struct {
	mock.Mock
}

func (m *MockOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

func (m *MockOfferingRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Offering, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]catalog.Offering), args.Error(1)
}

func (m *MockOfferingRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Offering, error) {
	args := m.Called(ctx, name, limit)
	return args.Get(0).([]catalog.Offering), args.Error(1)
}

func (m *MockOfferingRepository) Save(ctx context.Context, offering *catalog.Offering) error {
	args := m.Called(ctx, offering)
	return args.Error(0)
}

func (m *MockOfferingRepository) SaveOwner(ctx context.Context, owner *catalog.OfferingOwner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOfferingRepository) SaveContact(ctx context.Context, contact *catalog.OfferingContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of catalog.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, number string) ([]catalog.Contract, error) {
	args := m.Called(ctx, number)
	return args.Get(0).([]catalog.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *catalog.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of catalog.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByExactName(ctx context.Context, name string) ([]catalog.Project, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]catalog.Project), args.Error(1)
}

func (m *MockProjectRepository) SearchByName(ctx context.Context, name string, limit int) ([]catalog.Project, error) {
	args := m.Called(ctx, name, limit)
	return args.Get(0).([]catalog.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, project *catalog.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of catalog.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) ([]catalog.Invoice, error) {
	args := m.Called(ctx, number)
	return args.Get(0).([]catalog.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *catalog.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of catalog.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, reference string) ([]catalog.Payment, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]catalog.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *catalog.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// memoryArchive is an in-memory FileArchive for tests
type memoryArchive struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{files: make(map[string][]byte)}
}

func (a *memoryArchive) key(jobID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/%s", jobID, name)
}

func (a *memoryArchive) Store(_ context.Context, jobID uuid.UUID, name string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[a.key(jobID, name)] = data
	return nil
}

func (a *memoryArchive) Fetch(_ context.Context, jobID uuid.UUID, name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.files[a.key(jobID, name)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data, nil
}

// Test helper functions
func newTestUserID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestAdminID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestVendorID() uuid.UUID {
	return uuid.MustParse("33333333-3333-3333-3333-333333333333")
}

package reconapp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

func testSourceFields() []recon.SourceField {
	return []recon.SourceField{
		{Key: "vendor_name", Label: "Vendor Name", Ordinal: 0},
		{Key: "contract_no", Label: "Contract No", Ordinal: 1},
	}
}

func testBindings() []recon.FieldBinding {
	return []recon.FieldBinding{
		{SourceKey: "vendor_name", TargetKey: "vendor.legal_name"},
		{SourceKey: "contract_no", TargetKey: "contract.number"},
	}
}

func newTestProfile(t *testing.T, scope recon.ProfileScope, owner uuid.UUID) *recon.MappingProfile {
	t.Helper()
	profile, err := recon.NewMappingProfile("erp export", "vendor_master", recon.FormatCSV, scope, owner,
		testSourceFields(), testBindings())
	require.NoError(t, err)
	return profile
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()
	owner := newTestUserID()

	t.Run("shared profiles go to the shared tier", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("CountByOwner", ctx, owner).Return(int64(3), nil)
		sharedRepo.On("Save", ctx, profile).Return(nil)

		err := service.Save(ctx, profile)

		assert.NoError(t, err)
		sharedRepo.AssertExpectations(t)
		localRepo.AssertNotCalled(t, "Save")
	})

	t.Run("local profiles go to the local tier", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeLocal, owner)
		localRepo.On("CountByOwner", ctx, owner).Return(int64(0), nil)
		localRepo.On("Save", ctx, profile).Return(nil)

		err := service.Save(ctx, profile)

		assert.NoError(t, err)
		localRepo.AssertExpectations(t)
		sharedRepo.AssertNotCalled(t, "Save")
	})

	t.Run("saving past the cap evicts the least recently used", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		caps := DefaultCaps()
		caps.MaxProfilesPerOwner = 2
		service := NewProfileService(sharedRepo, localRepo, caps, zap.NewNop())

		recent := newTestProfile(t, recon.ProfileScopeShared, owner)
		recent.LastUsed = time.Now()
		stale := newTestProfile(t, recon.ProfileScopeShared, owner)
		stale.LastUsed = time.Now().Add(-24 * time.Hour)

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("CountByOwner", ctx, owner).Return(int64(2), nil)
		sharedRepo.On("FindByOwner", ctx, owner).
			Return([]recon.MappingProfile{*recent, *stale}, nil)
		sharedRepo.On("Delete", ctx, stale.ID).Return(nil)
		sharedRepo.On("Save", ctx, profile).Return(nil)

		err := service.Save(ctx, profile)

		require.NoError(t, err)
		sharedRepo.AssertCalled(t, "Delete", ctx, stale.ID)
		sharedRepo.AssertNotCalled(t, "Delete", ctx, recent.ID)
		sharedRepo.AssertCalled(t, "Save", ctx, profile)
	})

	t.Run("re-saving an existing profile at the cap evicts nothing", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		caps := DefaultCaps()
		caps.MaxProfilesPerOwner = 2
		service := NewProfileService(sharedRepo, localRepo, caps, zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		other := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("CountByOwner", ctx, owner).Return(int64(2), nil)
		sharedRepo.On("FindByOwner", ctx, owner).
			Return([]recon.MappingProfile{*profile, *other}, nil)
		sharedRepo.On("Save", ctx, profile).Return(nil)

		err := service.Save(ctx, profile)

		require.NoError(t, err)
		sharedRepo.AssertNotCalled(t, "Delete")
		localRepo.AssertNotCalled(t, "Save")
	})
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()
	owner := newTestUserID()

	t.Run("shared tier is checked first", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)

		found, err := service.Get(ctx, profile.ID, owner)

		assert.NoError(t, err)
		assert.Equal(t, profile.ID, found.ID)
		localRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("local profiles are private to their owner", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeLocal, owner)
		sharedRepo.On("FindByID", ctx, profile.ID).Return(nil, shared.ErrNotFound)
		localRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)

		_, err := service.Get(ctx, profile.ID, newTestAdminID())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProfileService_FindCompatible(t *testing.T) {
	ctx := context.Background()
	owner := newTestUserID()
	sharedRepo := new(MockProfileRepository)
	localRepo := new(MockProfileRepository)
	service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

	older := newTestProfile(t, recon.ProfileScopeShared, newTestAdminID())
	older.LastUsed = time.Now().Add(-time.Hour)
	newer := newTestProfile(t, recon.ProfileScopeLocal, owner)
	newer.LastUsed = time.Now()

	signature := older.Signature
	sharedRepo.On("FindCompatible", ctx, "vendor_master", signature, recon.FormatCSV, uuid.Nil).
		Return([]recon.MappingProfile{*older}, nil)
	localRepo.On("FindCompatible", ctx, "vendor_master", signature, recon.FormatCSV, owner).
		Return([]recon.MappingProfile{*newer}, nil)

	profiles, err := service.FindCompatible(ctx, "vendor_master", signature, recon.FormatCSV, owner)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	// Most recently used first, regardless of tier.
	assert.Equal(t, newer.ID, profiles[0].ID)
	assert.Equal(t, older.ID, profiles[1].ID)
}

func TestProfileService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := newTestUserID()

	t.Run("owner can delete", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)
		sharedRepo.On("Delete", ctx, profile.ID).Return(nil)

		assert.NoError(t, service.Delete(ctx, profile.ID, owner))
		sharedRepo.AssertExpectations(t)
	})

	t.Run("non-owner cannot delete a shared profile", func(t *testing.T) {
		sharedRepo := new(MockProfileRepository)
		localRepo := new(MockProfileRepository)
		service := NewProfileService(sharedRepo, localRepo, DefaultCaps(), zap.NewNop())

		profile := newTestProfile(t, recon.ProfileScopeShared, owner)
		sharedRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)

		err := service.Delete(ctx, profile.ID, newTestAdminID())

		assert.ErrorIs(t, err, shared.ErrForbidden)
		sharedRepo.AssertNotCalled(t, "Delete")
	})
}

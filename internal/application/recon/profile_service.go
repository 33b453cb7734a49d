package reconapp

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ProfileService manages mapping profiles across the two storage tiers:
// the shared database tier visible to everyone and the caller's private
// local tier.
type ProfileService struct {
	shared recon.MappingProfileRepository
	local  recon.MappingProfileRepository
	caps   Caps
	logger *zap.Logger
}

// NewProfileService creates a profile service over both tiers
func NewProfileService(sharedRepo, localRepo recon.MappingProfileRepository, caps Caps, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		shared: sharedRepo,
		local:  localRepo,
		caps:   caps,
		logger: logger,
	}
}

func (s *ProfileService) tierFor(scope recon.ProfileScope) recon.MappingProfileRepository {
	if scope == recon.ProfileScopeLocal {
		return s.local
	}
	return s.shared
}

// Save stores a profile in the tier its scope names. The per-owner set is
// trimmed to the most recently used profiles; saving past the cap evicts
// the stalest ones rather than failing.
func (s *ProfileService) Save(ctx context.Context, profile *recon.MappingProfile) error {
	tier := s.tierFor(profile.Scope)

	count, err := tier.CountByOwner(ctx, profile.OwnerID)
	if err != nil {
		return err
	}
	if count >= int64(s.caps.MaxProfilesPerOwner) {
		if err := s.evictStale(ctx, tier, profile); err != nil {
			return err
		}
	}

	if err := tier.Save(ctx, profile); err != nil {
		return err
	}
	s.logger.Info("mapping profile saved",
		zap.String("profile_id", profile.ID.String()),
		zap.String("scope", string(profile.Scope)),
		zap.String("layout", profile.Layout))
	return nil
}

// evictStale deletes the owner's least recently used profiles until one
// slot is free for the profile being saved
func (s *ProfileService) evictStale(ctx context.Context, tier recon.MappingProfileRepository, profile *recon.MappingProfile) error {
	existing, err := tier.FindByOwner(ctx, profile.OwnerID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].ID == profile.ID {
			// Re-saving an existing profile needs no free slot.
			return nil
		}
	}
	keep := s.caps.MaxProfilesPerOwner - 1
	if keep < 0 {
		keep = 0
	}
	// FindByOwner is most recently used first; evict from the tail.
	for i := len(existing) - 1; i >= keep; i-- {
		if err := tier.Delete(ctx, existing[i].ID); err != nil {
			return err
		}
		s.logger.Info("mapping profile evicted",
			zap.String("profile_id", existing[i].ID.String()),
			zap.String("owner_id", profile.OwnerID.String()))
	}
	return nil
}

// Get finds a profile by ID in either tier, shared first
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*recon.MappingProfile, error) {
	profile, err := s.shared.FindByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}
	profile, err = s.local.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return profile, nil
}

// FindCompatible returns every profile from both tiers that matches the
// layout, signature and file format, most recently used first. Local
// profiles are limited to the caller's own.
func (s *ProfileService) FindCompatible(ctx context.Context, layout, signature string, format recon.FileFormat, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	sharedProfiles, err := s.shared.FindCompatible(ctx, layout, signature, format, uuid.Nil)
	if err != nil {
		return nil, err
	}
	localProfiles, err := s.local.FindCompatible(ctx, layout, signature, format, ownerID)
	if err != nil {
		return nil, err
	}

	merged := append(sharedProfiles, localProfiles...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastUsed.After(merged[j].LastUsed)
	})
	return merged, nil
}

// MarkUsed bumps a profile's recency after a successful mapping
func (s *ProfileService) MarkUsed(ctx context.Context, profile *recon.MappingProfile) error {
	profile.TouchUsed()
	return s.tierFor(profile.Scope).Save(ctx, profile)
}

// Delete removes a profile owned by the caller
func (s *ProfileService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	profile, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if profile.OwnerID != ownerID {
		return shared.ErrForbidden
	}
	return s.tierFor(profile.Scope).Delete(ctx, id)
}

// ListByOwner returns the caller's profiles from both tiers
func (s *ProfileService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	sharedProfiles, err := s.shared.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	localProfiles, err := s.local.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	merged := append(sharedProfiles, localProfiles...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastUsed.After(merged[j].LastUsed)
	})
	return merged, nil
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// LocalProfileStore is the local tier of profile storage: one JSON file per
// owner under a server-side directory. Profiles stored here are private to
// their owner and survive without a database round trip.
type LocalProfileStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalProfileStore creates a store rooted at dir, creating it if needed
func NewLocalProfileStore(dir string) (*LocalProfileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("local profile directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local profile directory: %w", err)
	}
	return &LocalProfileStore{dir: dir}, nil
}

func (s *LocalProfileStore) ownerFile(ownerID uuid.UUID) string {
	return filepath.Join(s.dir, ownerID.String()+".json")
}

func (s *LocalProfileStore) load(ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	data, err := os.ReadFile(s.ownerFile(ownerID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local profiles: %w", err)
	}
	var profiles []recon.MappingProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse local profiles: %w", err)
	}
	return profiles, nil
}

// persist writes the owner's profile file atomically via a temp file rename
func (s *LocalProfileStore) persist(ownerID uuid.UUID, profiles []recon.MappingProfile) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local profiles: %w", err)
	}
	target := s.ownerFile(ownerID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write local profiles: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace local profiles: %w", err)
	}
	return nil
}

// loadAll reads every owner file in the store
func (s *LocalProfileStore) loadAll() (map[uuid.UUID][]recon.MappingProfile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list local profile directory: %w", err)
	}
	all := make(map[uuid.UUID][]recon.MappingProfile)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ownerID, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		profiles, err := s.load(ownerID)
		if err != nil {
			return nil, err
		}
		all[ownerID] = profiles
	}
	return all, nil
}

// FindByID finds a profile by ID across every owner file
func (s *LocalProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*recon.MappingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	for _, profiles := range all {
		for i := range profiles {
			if profiles[i].ID == id {
				p := profiles[i]
				return &p, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

// FindCompatible returns the owner's profiles matching the layout shape
// and file format, most recently used first
func (s *LocalProfileStore) FindCompatible(ctx context.Context, layout, signature string, format recon.FileFormat, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	matched := make([]recon.MappingProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Matches(layout, signature, format) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LastUsed.After(matched[j].LastUsed)
	})
	return matched, nil
}

// FindByOwner returns every profile of one owner, most recently used first
func (s *LocalProfileStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]recon.MappingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].LastUsed.After(profiles[j].LastUsed)
	})
	return profiles, nil
}

// CountByOwner counts the profiles of one owner
func (s *LocalProfileStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ownerID)
	if err != nil {
		return 0, err
	}
	return int64(len(profiles)), nil
}

// Save creates or replaces a profile in its owner's file
func (s *LocalProfileStore) Save(ctx context.Context, profile *recon.MappingProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(profile.OwnerID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range profiles {
		if profiles[i].ID == profile.ID {
			profiles[i] = *profile
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, *profile)
	}
	return s.persist(profile.OwnerID, profiles)
}

// Delete removes a profile from its owner's file
func (s *LocalProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return err
	}
	for ownerID, profiles := range all {
		for i := range profiles {
			if profiles[i].ID == id {
				profiles = append(profiles[:i], profiles[i+1:]...)
				return s.persist(ownerID, profiles)
			}
		}
	}
	return shared.ErrNotFound
}

// Ensure LocalProfileStore implements MappingProfileRepository
var _ recon.MappingProfileRepository = (*LocalProfileStore)(nil)

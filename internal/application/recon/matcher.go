package reconapp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/vendorcat/backend/internal/domain/catalog"
	"github.com/vendorcat/backend/internal/domain/recon"
)

// EntityRef is one canonical entity candidate
type EntityRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// EntityLookup is the canonical read surface the matcher works against
type EntityLookup interface {
	Exists(ctx context.Context, area recon.Area, id uuid.UUID) (bool, error)
	FindByExactName(ctx context.Context, area recon.Area, name string) ([]EntityRef, error)
	SearchByName(ctx context.Context, area recon.Area, name string, limit int) ([]EntityRef, error)
	// Contact identity lookups apply to vendors only.
	FindByContactEmail(ctx context.Context, email string) ([]EntityRef, error)
	FindByContactPhone(ctx context.Context, phone string) ([]EntityRef, error)
}

// LookupCache memoizes canonical lookups for one staging pass. The cache
// is created per pass and passed explicitly, so no state leaks between
// jobs and no invalidation is ever needed.
type LookupCache struct {
	exists  map[string]bool
	byName  map[string][]EntityRef
	byIdent map[string][]EntityRef
}

// NewLookupCache creates an empty cache for one staging pass
func NewLookupCache() *LookupCache {
	return &LookupCache{
		exists:  make(map[string]bool),
		byName:  make(map[string][]EntityRef),
		byIdent: make(map[string][]EntityRef),
	}
}

// MatchConfidence grades how a match was established
type MatchConfidence string

const (
	ConfidenceExact MatchConfidence = "exact"
	ConfidenceNear  MatchConfidence = "near"
)

// MatchResult is the outcome of running the strategy cascade on one row
type MatchResult struct {
	MatchedID  *uuid.UUID      `json:"matched_id,omitempty"`
	Strategy   string          `json:"strategy,omitempty"`
	Confidence MatchConfidence `json:"confidence,omitempty"`
	// Candidates is populated when the row is ambiguous and needs review.
	Candidates []EntityRef `json:"candidates,omitempty"`
	Note       string      `json:"note,omitempty"`
	// Miss marks a declared identifier that resolved to nothing. A miss is
	// a data error, not a review question.
	Miss bool `json:"miss,omitempty"`
}

// NeedsReview reports whether the result leaves a human decision open
func (r *MatchResult) NeedsReview() bool {
	if r.Miss {
		return false
	}
	return len(r.Candidates) > 0 || (r.MatchedID == nil && r.Note != "")
}

// MatchStrategy is one pure step of the matching cascade. Strategies hold
// no state of their own; everything they learn goes through the cache.
type MatchStrategy interface {
	Name() string
	// Match returns nil when the strategy has no opinion and the cascade
	// should continue.
	Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error)
}

// Matcher runs the strategy cascade in a fixed order: explicit identifier,
// exact name, single near-match, contact identity. The first strategy with
// an opinion wins.
type Matcher struct {
	strategies []MatchStrategy
}

// NewMatcher creates the standard cascade over a canonical lookup
func NewMatcher(lookup EntityLookup) *Matcher {
	return &Matcher{
		strategies: []MatchStrategy{
			&explicitIDStrategy{lookup: lookup},
			&exactNameStrategy{lookup: lookup},
			&nearNameStrategy{lookup: lookup},
			&contactIdentityStrategy{lookup: lookup},
		},
	}
}

// matchableAreas are the principal entity areas the cascade applies to.
// Child rows (identifiers, owners, contacts) always attach to their parent
// and are never matched on their own.
var matchableAreas = map[recon.Area]bool{
	recon.AreaVendor:   true,
	recon.AreaOffering: true,
	recon.AreaContract: true,
	recon.AreaProject:  true,
	recon.AreaInvoice:  true,
	recon.AreaPayment:  true,
}

// Match runs the cascade for one mapped row. A nil result means no match:
// the row stages as a create.
func (m *Matcher) Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error) {
	if !matchableAreas[area] {
		return nil, nil
	}
	for _, strategy := range m.strategies {
		result, err := strategy.Match(ctx, area, values, cache)
		if err != nil {
			return nil, fmt.Errorf("match strategy %s: %w", strategy.Name(), err)
		}
		if result != nil {
			result.Strategy = strategy.Name()
			return result, nil
		}
	}
	return nil, nil
}

// nameFieldFor is the field the name strategies compare per area
func nameFieldFor(area recon.Area) string {
	switch area {
	case recon.AreaVendor:
		return "legal_name"
	case recon.AreaOffering, recon.AreaProject:
		return "name"
	case recon.AreaContract, recon.AreaInvoice:
		return "number"
	case recon.AreaPayment:
		return "reference"
	}
	return ""
}

// explicitIDStrategy trusts a source-provided canonical ID, but verifies it
type explicitIDStrategy struct {
	lookup EntityLookup
}

func (s *explicitIDStrategy) Name() string { return "explicit_id" }

func (s *explicitIDStrategy) Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error) {
	raw := strings.TrimSpace(values["match_id"])
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return &MatchResult{Miss: true, Note: "match_id is not a valid identifier: " + raw}, nil
	}

	key := string(area) + "/" + id.String()
	exists, cached := cache.exists[key]
	if !cached {
		exists, err = s.lookup.Exists(ctx, area, id)
		if err != nil {
			return nil, err
		}
		cache.exists[key] = exists
	}
	if !exists {
		return &MatchResult{Miss: true, Note: "referenced entity not found: " + raw}, nil
	}
	return &MatchResult{MatchedID: &id, Confidence: ConfidenceExact}, nil
}

// exactNameStrategy matches on case-insensitive name equality
type exactNameStrategy struct {
	lookup EntityLookup
}

func (s *exactNameStrategy) Name() string { return "exact_name" }

func (s *exactNameStrategy) Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error) {
	field := nameFieldFor(area)
	name := strings.TrimSpace(values[field])
	if field == "" || name == "" {
		return nil, nil
	}

	key := "exact/" + string(area) + "/" + strings.ToLower(name)
	refs, cached := cache.byName[key]
	if !cached {
		var err error
		refs, err = s.lookup.FindByExactName(ctx, area, name)
		if err != nil {
			return nil, err
		}
		cache.byName[key] = refs
	}

	switch len(refs) {
	case 0:
		return nil, nil
	case 1:
		return &MatchResult{MatchedID: &refs[0].ID, Confidence: ConfidenceExact}, nil
	default:
		return &MatchResult{Candidates: refs, Note: "multiple entities share this name"}, nil
	}
}

var nameNoise = regexp.MustCompile(`[^a-z0-9 ]+`)

// legalSuffixes are dropped when normalizing names for near-matching
var legalSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "llc": true, "ltd": true,
	"limited": true, "corp": true, "corporation": true, "co": true,
	"company": true, "gmbh": true, "sa": true, "plc": true,
}

// normalizeName reduces a name for near-match comparison: lowercased,
// punctuation stripped, trailing legal suffixes removed.
func normalizeName(name string) string {
	lower := nameNoise.ReplaceAllString(strings.ToLower(name), " ")
	words := strings.Fields(lower)
	for len(words) > 1 && legalSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// nearNameStrategy accepts a single candidate whose normalized name equals
// the row's normalized name. Multiple normalized hits go to review.
type nearNameStrategy struct {
	lookup EntityLookup
}

func (s *nearNameStrategy) Name() string { return "near_name" }

func (s *nearNameStrategy) Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error) {
	field := nameFieldFor(area)
	name := strings.TrimSpace(values[field])
	if field == "" || name == "" {
		return nil, nil
	}
	normalized := normalizeName(name)
	if normalized == "" {
		return nil, nil
	}

	key := "near/" + string(area) + "/" + normalized
	refs, cached := cache.byName[key]
	if !cached {
		// Search on the first word to cast a wide net, then narrow by
		// normalized equality.
		seed := strings.Fields(normalized)[0]
		candidates, err := s.lookup.SearchByName(ctx, area, seed, 50)
		if err != nil {
			return nil, err
		}
		refs = refs[:0]
		for _, c := range candidates {
			if normalizeName(c.Name) == normalized {
				refs = append(refs, c)
			}
		}
		cache.byName[key] = refs
	}

	switch len(refs) {
	case 0:
		return nil, nil
	case 1:
		return &MatchResult{MatchedID: &refs[0].ID, Confidence: ConfidenceNear,
			Note: "matched by normalized name: " + refs[0].Name}, nil
	default:
		return &MatchResult{Candidates: refs, Note: "several entities have similar names"}, nil
	}
}

// contactIdentityStrategy matches vendors through a contact's email or
// phone when name matching found nothing
type contactIdentityStrategy struct {
	lookup EntityLookup
}

func (s *contactIdentityStrategy) Name() string { return "contact_identity" }

func (s *contactIdentityStrategy) Match(ctx context.Context, area recon.Area, values recon.FieldMap, cache *LookupCache) (*MatchResult, error) {
	if area != recon.AreaVendor {
		return nil, nil
	}

	if email := catalog.NormalizeEmail(values["contact_email"]); email != "" {
		refs, err := s.cachedIdentLookup(ctx, cache, "email/"+email, func() ([]EntityRef, error) {
			return s.lookup.FindByContactEmail(ctx, email)
		})
		if err != nil {
			return nil, err
		}
		if result := identResult(refs, "matched by contact email"); result != nil {
			return result, nil
		}
	}

	if phone := catalog.NormalizePhone(values["contact_phone"]); phone != "" {
		refs, err := s.cachedIdentLookup(ctx, cache, "phone/"+phone, func() ([]EntityRef, error) {
			return s.lookup.FindByContactPhone(ctx, phone)
		})
		if err != nil {
			return nil, err
		}
		if result := identResult(refs, "matched by contact phone"); result != nil {
			return result, nil
		}
	}

	return nil, nil
}

func (s *contactIdentityStrategy) cachedIdentLookup(_ context.Context, cache *LookupCache, key string, fetch func() ([]EntityRef, error)) ([]EntityRef, error) {
	if refs, ok := cache.byIdent[key]; ok {
		return refs, nil
	}
	refs, err := fetch()
	if err != nil {
		return nil, err
	}
	cache.byIdent[key] = refs
	return refs, nil
}

func identResult(refs []EntityRef, note string) *MatchResult {
	switch len(refs) {
	case 0:
		return nil
	case 1:
		return &MatchResult{MatchedID: &refs[0].ID, Confidence: ConfidenceNear, Note: note}
	default:
		return &MatchResult{Candidates: refs, Note: "contact identity is shared by several vendors"}
	}
}

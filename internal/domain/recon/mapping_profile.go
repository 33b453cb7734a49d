package recon

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorcat/backend/internal/domain/shared"
)

// ProfileScope tells where a mapping profile is stored
type ProfileScope string

const (
	// ProfileScopeShared profiles live in the shared store and are visible
	// to every operator.
	ProfileScopeShared ProfileScope = "shared"
	// ProfileScopeLocal profiles live in the owner's private store.
	ProfileScopeLocal ProfileScope = "local"
)

// SourceField describes one column observed in an uploaded file
type SourceField struct {
	Key      string `json:"key"`      // normalized key, stable across files
	Label    string `json:"label"`    // original header as seen in the file
	Ordinal  int    `json:"ordinal"`  // position in the first file it appeared in
	Detected string `json:"detected"` // coarse detected type: text, number, date, email, phone
}

// FieldBinding maps one source field key to one target field key
// in "{area}.{field}" form. An empty target leaves the column unmapped.
type FieldBinding struct {
	SourceKey string `json:"source_key"`
	TargetKey string `json:"target_key"`
}

// MappingProfile is a reusable column-to-field binding set. Compatibility
// between a profile and a file is decided by the layout signature plus the
// file format, never by file names or field order. A profile saved with
// FormatAuto applies to any format.
type MappingProfile struct {
	shared.BaseAggregateRoot
	Name      string       `gorm:"type:varchar(200);not null"`
	Layout    string       `gorm:"type:varchar(100);not null;index"`
	Signature string       `gorm:"type:char(64);not null;index"`
	Format    FileFormat   `gorm:"type:varchar(20);not null;default:'auto'"`
	Scope     ProfileScope `gorm:"type:varchar(10);not null;default:'shared'"`
	OwnerID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	Fields    SourceFields `gorm:"type:jsonb;not null;default:'[]'"`
	Bindings  Bindings     `gorm:"type:jsonb;not null;default:'[]'"`
	LastUsed  time.Time    `gorm:"not null;index"`
}

// SourceFields is the JSON column wrapper for []SourceField
type SourceFields []SourceField

// Value implements driver.Valuer
func (f SourceFields) Value() (driver.Value, error) { return jsonColumnValue(f) }

// Scan implements sql.Scanner
func (f *SourceFields) Scan(value interface{}) error { return jsonColumnScan(value, f) }

// Bindings is the JSON column wrapper for []FieldBinding
type Bindings []FieldBinding

// Value implements driver.Valuer
func (b Bindings) Value() (driver.Value, error) { return jsonColumnValue(b) }

// Scan implements sql.Scanner
func (b *Bindings) Scan(value interface{}) error { return jsonColumnScan(value, b) }

// TableName returns the table name for GORM
func (MappingProfile) TableName() string {
	return "mapping_profiles"
}

var fieldKeyCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeFieldKey canonicalizes a source column header into a stable key:
// lowercased, trimmed, runs of non-alphanumerics collapsed to single
// underscores.
func NormalizeFieldKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = fieldKeyCleaner.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// ComputeSignature derives the layout signature from a set of source
// fields. The signature depends only on the sorted set of normalized
// column keys, so files with reordered or relabeled-but-equivalent columns
// produce the same value.
func ComputeSignature(fields []SourceField) string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		k := NormalizeFieldKey(f.Key)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, "\x00")))
	return hex.EncodeToString(sum[:])
}

// NewMappingProfile creates a profile from observed fields and bindings
func NewMappingProfile(name, layout string, format FileFormat, scope ProfileScope, ownerID uuid.UUID, fields []SourceField, bindings []FieldBinding) (*MappingProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROFILE_NAME", "Profile name cannot be empty")
	}
	if layout == "" {
		return nil, shared.NewDomainError("INVALID_LAYOUT", "Target layout cannot be empty")
	}
	if format == "" {
		format = FormatAuto
	}
	if !format.IsValid() {
		return nil, shared.NewDomainError("INVALID_FORMAT", fmt.Sprintf("Unknown file format: %s", format))
	}
	if scope != ProfileScopeShared && scope != ProfileScopeLocal {
		return nil, shared.NewDomainError("INVALID_SCOPE", fmt.Sprintf("Unknown profile scope: %s", scope))
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Profile owner is required")
	}
	if len(fields) == 0 {
		return nil, shared.NewDomainError("INVALID_FIELDS", "A profile needs at least one source field")
	}
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[NormalizeFieldKey(f.Key)] = true
	}
	for _, b := range bindings {
		if !known[NormalizeFieldKey(b.SourceKey)] {
			return nil, shared.NewDomainError("INVALID_BINDING",
				fmt.Sprintf("Binding references unknown source field: %s", b.SourceKey))
		}
	}
	return &MappingProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Layout:            layout,
		Signature:         ComputeSignature(fields),
		Format:            format,
		Scope:             scope,
		OwnerID:           ownerID,
		Fields:            fields,
		Bindings:          bindings,
		LastUsed:          time.Now(),
	}, nil
}

// Matches reports whether the profile can be applied to a file with the
// given layout, signature and format. An auto-format profile fits any
// format; an empty format argument means the caller does not care.
func (p *MappingProfile) Matches(layout, signature string, format FileFormat) bool {
	if p.Layout != layout || p.Signature != signature {
		return false
	}
	return p.Format == FormatAuto || format == "" || p.Format == format
}

// TouchUsed bumps the recency marker used for most-recent-first suggestions
func (p *MappingProfile) TouchUsed() {
	p.LastUsed = time.Now()
	p.UpdatedAt = p.LastUsed
	p.IncrementVersion()
}

// TargetFor returns the bound target key for a source key, or "" when the
// column is unmapped
func (p *MappingProfile) TargetFor(sourceKey string) string {
	norm := NormalizeFieldKey(sourceKey)
	for _, b := range p.Bindings {
		if NormalizeFieldKey(b.SourceKey) == norm {
			return b.TargetKey
		}
	}
	return ""
}

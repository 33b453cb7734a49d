package reconapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorcat/backend/internal/domain/recon"
)

type stubIntrospector struct {
	columns map[string][]string
}

func (s *stubIntrospector) TableColumns(_ context.Context, table string) ([]string, error) {
	return s.columns[table], nil
}

func TestFieldCatalog_CuratedFields(t *testing.T) {
	catalog := NewFieldCatalog(nil)
	ctx := context.Background()

	fields, err := catalog.Fields(ctx, recon.AreaVendor)
	require.NoError(t, err)
	require.NotEmpty(t, fields)

	byField := make(map[string]TargetField, len(fields))
	for _, f := range fields {
		byField[f.Field] = f
		assert.Equal(t, "vendor", f.Area)
		assert.Equal(t, "vendor."+f.Field, f.Key)
	}

	assert.True(t, byField["legal_name"].Required)
	assert.False(t, byField["display_name"].Required)
	assert.Equal(t, "uuid", byField["match_id"].Kind)
}

func TestFieldCatalog_EveryAreaHasFields(t *testing.T) {
	catalog := NewFieldCatalog(nil)

	all, err := catalog.AllFields(context.Background())
	require.NoError(t, err)

	assert.Len(t, all, len(recon.AreaOrder))
	for _, area := range recon.AreaOrder {
		assert.NotEmpty(t, all[area], "area %s has no target fields", area)
	}
}

func TestFieldCatalog_MergesIntrospectedColumns(t *testing.T) {
	catalog := NewFieldCatalog(&stubIntrospector{columns: map[string][]string{
		"vendors": {"id", "legal_name", "tax_region", "created_at", "version"},
	}})

	fields, err := catalog.Fields(context.Background(), recon.AreaVendor)
	require.NoError(t, err)

	byField := make(map[string]TargetField, len(fields))
	for _, f := range fields {
		byField[f.Field] = f
	}

	// Schema column missing from the registry surfaces as plain text.
	added, ok := byField["tax_region"]
	require.True(t, ok)
	assert.Equal(t, "text", added.Kind)
	assert.Equal(t, "vendor.tax_region", added.Key)

	// Bookkeeping columns never surface; registry entries stay unique.
	_, ok = byField["created_at"]
	assert.False(t, ok)
	count := 0
	for _, f := range fields {
		if f.Field == "legal_name" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSplitTargetKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantArea  recon.Area
		wantField string
		wantOK    bool
	}{
		{"vendor field", "vendor.legal_name", recon.AreaVendor, "legal_name", true},
		{"child area field", "vendor_contact.email", recon.AreaVendorContact, "email", true},
		{"unknown area", "warehouse.name", "", "", false},
		{"missing dot", "vendor", "", "", false},
		{"empty field", "vendor.", "", "", false},
		{"empty area", ".name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area, field, ok := SplitTargetKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantArea, area)
				assert.Equal(t, tt.wantField, field)
			}
		})
	}
}

package recon

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldKey(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"plain", "vendor", "vendor"},
		{"mixed case with spaces", "  Vendor Name ", "vendor_name"},
		{"punctuation collapses", "Vendor--Name (Legal)", "vendor_name_legal"},
		{"already normalized", "vendor_name", "vendor_name"},
		{"unicode stripped", "Nom du fournisseur", "nom_du_fournisseur"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFieldKey(tt.label))
		})
	}
}

func TestComputeSignature(t *testing.T) {
	fields := []SourceField{
		{Key: "vendor_name", Label: "Vendor Name", Ordinal: 0},
		{Key: "tax_id", Label: "Tax ID", Ordinal: 1},
		{Key: "contact_email", Label: "Contact Email", Ordinal: 2},
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, ComputeSignature(fields), ComputeSignature(fields))
	})

	t.Run("order independent", func(t *testing.T) {
		permuted := []SourceField{fields[2], fields[0], fields[1]}
		assert.Equal(t, ComputeSignature(fields), ComputeSignature(permuted))
	})

	t.Run("label and ordinal irrelevant", func(t *testing.T) {
		relabeled := []SourceField{
			{Key: "vendor_name", Label: "VENDOR  NAME!!", Ordinal: 7},
			{Key: "tax_id", Label: "tax id", Ordinal: 3},
			{Key: "contact_email", Label: "email of contact", Ordinal: 0},
		}
		assert.Equal(t, ComputeSignature(fields), ComputeSignature(relabeled))
	})

	t.Run("different column set differs", func(t *testing.T) {
		extra := append([]SourceField{}, fields...)
		extra = append(extra, SourceField{Key: "phone", Label: "Phone"})
		assert.NotEqual(t, ComputeSignature(fields), ComputeSignature(extra))
	})

	t.Run("duplicate keys counted once", func(t *testing.T) {
		doubled := append([]SourceField{}, fields...)
		doubled = append(doubled, SourceField{Key: "Vendor Name", Label: "dup"})
		assert.Equal(t, ComputeSignature(fields), ComputeSignature(doubled))
	})
}

func TestNewMappingProfile(t *testing.T) {
	ownerID := uuid.New()
	fields := []SourceField{
		{Key: "vendor_name", Label: "Vendor Name"},
		{Key: "tax_id", Label: "Tax ID"},
	}
	bindings := []FieldBinding{
		{SourceKey: "vendor_name", TargetKey: "vendor.legal_name"},
		{SourceKey: "tax_id", TargetKey: "vendor_identifier.value"},
	}

	t.Run("success", func(t *testing.T) {
		p, err := NewMappingProfile("legacy vendors", "vendor_catalog", FormatCSV, ProfileScopeShared, ownerID, fields, bindings)

		require.NoError(t, err)
		assert.Equal(t, "legacy vendors", p.Name)
		assert.Equal(t, ComputeSignature(fields), p.Signature)
		assert.Equal(t, FormatCSV, p.Format)
		assert.Equal(t, ProfileScopeShared, p.Scope)
		assert.True(t, p.Matches("vendor_catalog", p.Signature, FormatCSV))
		assert.False(t, p.Matches("other_layout", p.Signature, FormatCSV))
	})

	t.Run("declared format binds compatibility", func(t *testing.T) {
		p, err := NewMappingProfile("csv only", "vendor_catalog", FormatCSV, ProfileScopeShared, ownerID, fields, bindings)
		require.NoError(t, err)

		assert.False(t, p.Matches("vendor_catalog", p.Signature, FormatXML))
		assert.True(t, p.Matches("vendor_catalog", p.Signature, ""), "callers without a format see every profile")
	})

	t.Run("auto format fits any file", func(t *testing.T) {
		p, err := NewMappingProfile("any format", "vendor_catalog", FormatAuto, ProfileScopeShared, ownerID, fields, bindings)
		require.NoError(t, err)

		assert.True(t, p.Matches("vendor_catalog", p.Signature, FormatCSV))
		assert.True(t, p.Matches("vendor_catalog", p.Signature, FormatXML))
	})

	t.Run("empty format defaults to auto", func(t *testing.T) {
		p, err := NewMappingProfile("p", "vendor_catalog", "", ProfileScopeShared, ownerID, fields, bindings)
		require.NoError(t, err)
		assert.Equal(t, FormatAuto, p.Format)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewMappingProfile("p", "vendor_catalog", FileFormat("yaml"), ProfileScopeShared, ownerID, fields, bindings)
		assert.Error(t, err)
	})

	t.Run("binding to unknown field", func(t *testing.T) {
		bad := []FieldBinding{{SourceKey: "missing", TargetKey: "vendor.legal_name"}}
		_, err := NewMappingProfile("p", "vendor_catalog", FormatAuto, ProfileScopeLocal, ownerID, fields, bad)
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewMappingProfile("  ", "vendor_catalog", FormatAuto, ProfileScopeShared, ownerID, fields, bindings)
		assert.Error(t, err)
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := NewMappingProfile("p", "vendor_catalog", FormatAuto, ProfileScopeShared, ownerID, nil, nil)
		assert.Error(t, err)
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := NewMappingProfile("p", "vendor_catalog", FormatAuto, ProfileScope("global"), ownerID, fields, bindings)
		assert.Error(t, err)
	})
}

func TestMappingProfile_TargetFor(t *testing.T) {
	p, err := NewMappingProfile("p", "vendor_catalog", FormatAuto, ProfileScopeShared, uuid.New(),
		[]SourceField{{Key: "Vendor Name"}, {Key: "notes"}},
		[]FieldBinding{{SourceKey: "vendor_name", TargetKey: "vendor.legal_name"}},
	)
	require.NoError(t, err)

	assert.Equal(t, "vendor.legal_name", p.TargetFor("Vendor Name"))
	assert.Equal(t, "vendor.legal_name", p.TargetFor("vendor_name"))
	assert.Equal(t, "", p.TargetFor("notes"))
	assert.Equal(t, "", p.TargetFor("unknown"))
}

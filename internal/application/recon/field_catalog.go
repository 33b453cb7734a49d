package reconapp

import (
	"context"
	"sort"
	"strings"

	"github.com/vendorcat/backend/internal/domain/recon"
)

// TargetField is one assignable field of a target area, addressed as
// "{area}.{field}"
type TargetField struct {
	Key      string `json:"key"`
	Area     string `json:"area"`
	Field    string `json:"field"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// areaTables maps each area to its canonical table for schema introspection
var areaTables = map[recon.Area]string{
	recon.AreaVendor:           "vendors",
	recon.AreaVendorIdentifier: "vendor_identifiers",
	recon.AreaVendorOwner:      "vendor_owners",
	recon.AreaVendorContact:    "vendor_contacts",
	recon.AreaOffering:         "offerings",
	recon.AreaOfferingOwner:    "offering_owners",
	recon.AreaOfferingContact:  "offering_contacts",
	recon.AreaContract:         "contracts",
	recon.AreaProject:          "projects",
	recon.AreaInvoice:          "invoices",
	recon.AreaPayment:          "payments",
}

// bookkeepingColumns never surface from introspection. Parent reference
// columns still appear where the curated registry lists them explicitly.
var bookkeepingColumns = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"version":     true,
	"vendor_id":   true,
	"offering_id": true,
	"contract_id": true,
	"project_id":  true,
	"invoice_id":  true,
}

// staticFields is the curated per-area field registry: labels, kinds and
// required flags the introspector cannot derive
var staticFields = map[recon.Area][]TargetField{
	recon.AreaVendor: {
		{Field: "legal_name", Label: "Legal name", Kind: "text", Required: true},
		{Field: "display_name", Label: "Display name", Kind: "text"},
		{Field: "owner_org", Label: "Owning organization", Kind: "text"},
		{Field: "status", Label: "Status", Kind: "text"},
		{Field: "website", Label: "Website", Kind: "text"},
		{Field: "notes", Label: "Notes", Kind: "text"},
		{Field: "match_id", Label: "Canonical vendor ID", Kind: "uuid"},
	},
	recon.AreaVendorIdentifier: {
		{Field: "system", Label: "Identifier system", Kind: "text", Required: true},
		{Field: "value", Label: "Identifier value", Kind: "text", Required: true},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaVendorOwner: {
		{Field: "owner_org", Label: "Owning organization", Kind: "text", Required: true},
		{Field: "role", Label: "Role", Kind: "text"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaVendorContact: {
		{Field: "name", Label: "Contact name", Kind: "text", Required: true},
		{Field: "email", Label: "Email", Kind: "email"},
		{Field: "phone", Label: "Phone", Kind: "phone"},
		{Field: "kind", Label: "Contact kind", Kind: "text"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaOffering: {
		{Field: "name", Label: "Offering name", Kind: "text", Required: true},
		{Field: "category", Label: "Category", Kind: "text"},
		{Field: "status", Label: "Status", Kind: "text"},
		{Field: "match_id", Label: "Canonical offering ID", Kind: "uuid"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaOfferingOwner: {
		{Field: "owner_org", Label: "Owning organization", Kind: "text", Required: true},
		{Field: "role", Label: "Role", Kind: "text"},
		{Field: "offering_id", Label: "Offering ID", Kind: "uuid"},
		{Field: "offering_name", Label: "Offering name", Kind: "text"},
	},
	recon.AreaOfferingContact: {
		{Field: "name", Label: "Contact name", Kind: "text", Required: true},
		{Field: "email", Label: "Email", Kind: "email"},
		{Field: "phone", Label: "Phone", Kind: "phone"},
		{Field: "offering_id", Label: "Offering ID", Kind: "uuid"},
		{Field: "offering_name", Label: "Offering name", Kind: "text"},
	},
	recon.AreaContract: {
		{Field: "number", Label: "Contract number", Kind: "text", Required: true},
		{Field: "start_date", Label: "Start date", Kind: "date"},
		{Field: "end_date", Label: "End date", Kind: "date"},
		{Field: "value", Label: "Contract value", Kind: "number"},
		{Field: "currency", Label: "Currency", Kind: "text"},
		{Field: "match_id", Label: "Canonical contract ID", Kind: "uuid"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaProject: {
		{Field: "name", Label: "Project name", Kind: "text", Required: true},
		{Field: "code", Label: "Project code", Kind: "text"},
		{Field: "owner_org", Label: "Owning organization", Kind: "text"},
		{Field: "status", Label: "Status", Kind: "text"},
		{Field: "match_id", Label: "Canonical project ID", Kind: "uuid"},
	},
	recon.AreaInvoice: {
		{Field: "number", Label: "Invoice number", Kind: "text", Required: true},
		{Field: "issued_at", Label: "Issue date", Kind: "date"},
		{Field: "amount", Label: "Amount", Kind: "number"},
		{Field: "currency", Label: "Currency", Kind: "text"},
		{Field: "match_id", Label: "Canonical invoice ID", Kind: "uuid"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
	recon.AreaPayment: {
		{Field: "paid_at", Label: "Payment date", Kind: "date"},
		{Field: "amount", Label: "Amount", Kind: "number", Required: true},
		{Field: "currency", Label: "Currency", Kind: "text"},
		{Field: "method", Label: "Payment method", Kind: "text"},
		{Field: "reference", Label: "Payment reference", Kind: "text"},
		{Field: "match_id", Label: "Canonical payment ID", Kind: "uuid"},
		{Field: "vendor_id", Label: "Vendor ID", Kind: "uuid"},
		{Field: "vendor_name", Label: "Vendor name", Kind: "text"},
	},
}

// SchemaIntrospector lists the live columns of a canonical table so the
// field catalog can pick up columns added by later migrations
type SchemaIntrospector interface {
	TableColumns(ctx context.Context, table string) ([]string, error)
}

// FieldCatalog serves the assignable target fields per area, merging the
// curated registry with introspected schema columns
type FieldCatalog struct {
	introspector SchemaIntrospector
}

// NewFieldCatalog creates a field catalog
func NewFieldCatalog(introspector SchemaIntrospector) *FieldCatalog {
	return &FieldCatalog{introspector: introspector}
}

// Fields returns the assignable fields of one area. Introspected columns
// missing from the registry are appended as plain text fields; registry
// entries missing from the schema are kept, since some registry fields
// (match_id) are virtual.
func (c *FieldCatalog) Fields(ctx context.Context, area recon.Area) ([]TargetField, error) {
	curated := staticFields[area]
	out := make([]TargetField, 0, len(curated))
	known := make(map[string]bool, len(curated))
	for _, f := range curated {
		f.Area = string(area)
		f.Key = string(area) + "." + f.Field
		known[f.Field] = true
		out = append(out, f)
	}

	if c.introspector != nil {
		columns, err := c.introspector.TableColumns(ctx, areaTables[area])
		if err != nil {
			return nil, err
		}
		sort.Strings(columns)
		for _, col := range columns {
			col = strings.ToLower(col)
			if known[col] || bookkeepingColumns[col] {
				continue
			}
			out = append(out, TargetField{
				Key:   string(area) + "." + col,
				Area:  string(area),
				Field: col,
				Label: strings.ReplaceAll(col, "_", " "),
				Kind:  "text",
			})
		}
	}

	return out, nil
}

// AllFields returns every area's assignable fields in area order
func (c *FieldCatalog) AllFields(ctx context.Context) (map[recon.Area][]TargetField, error) {
	out := make(map[recon.Area][]TargetField, len(recon.AreaOrder))
	for _, area := range recon.AreaOrder {
		fields, err := c.Fields(ctx, area)
		if err != nil {
			return nil, err
		}
		out[area] = fields
	}
	return out, nil
}

// SplitTargetKey splits "{area}.{field}" into its parts. The bool result
// is false for malformed or unknown-area keys.
func SplitTargetKey(key string) (recon.Area, string, bool) {
	idx := strings.Index(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	area := recon.Area(key[:idx])
	if !area.IsValid() {
		return "", "", false
	}
	return area, key[idx+1:], true
}

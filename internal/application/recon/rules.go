package reconapp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/infrastructure/extract"
)

// areaRules returns the validation rules for one area's mapped fields.
// Rule columns use the bare field name; mapped values are re-keyed before
// validation.
func areaRules(area recon.Area) []extract.FieldRule {
	switch area {
	case recon.AreaVendor:
		return []extract.FieldRule{
			extract.Field("legal_name").Required().String().MinLength(1).MaxLength(300).Build(),
			extract.Field("display_name").String().MaxLength(300).Build(),
			extract.Field("owner_org").String().MaxLength(200).Build(),
			extract.Field("status").String().Custom(validateStatus("active", "inactive", "retired")).Build(),
			extract.Field("website").String().MaxLength(500).Build(),
			extract.Field("notes").String().MaxLength(2000).Build(),
		}
	case recon.AreaVendorIdentifier:
		return []extract.FieldRule{
			extract.Field("system").Required().String().MaxLength(100).Build(),
			extract.Field("value").Required().String().MaxLength(200).Build(),
		}
	case recon.AreaVendorOwner, recon.AreaOfferingOwner:
		return []extract.FieldRule{
			extract.Field("owner_org").Required().String().MaxLength(200).Build(),
			extract.Field("role").String().MaxLength(100).Build(),
		}
	case recon.AreaVendorContact, recon.AreaOfferingContact:
		return []extract.FieldRule{
			extract.Field("name").Required().String().MaxLength(200).Build(),
			extract.Field("email").Email().Build(),
			extract.Field("phone").String().MaxLength(50).Build(),
		}
	case recon.AreaOffering:
		return []extract.FieldRule{
			extract.Field("name").Required().String().MinLength(1).MaxLength(300).Build(),
			extract.Field("category").String().MaxLength(100).Build(),
			extract.Field("status").String().Custom(validateStatus("active", "inactive", "sunset")).Build(),
		}
	case recon.AreaContract:
		return []extract.FieldRule{
			extract.Field("number").Required().String().MaxLength(100).Build(),
			extract.Field("start_date").Date().Build(),
			extract.Field("end_date").Date().Build(),
			extract.Field("value").Decimal().MinValue(decimal.Zero).Build(),
			extract.Field("currency").String().MaxLength(10).Build(),
		}
	case recon.AreaProject:
		return []extract.FieldRule{
			extract.Field("name").Required().String().MaxLength(300).Build(),
			extract.Field("code").String().MaxLength(50).Build(),
			extract.Field("owner_org").String().MaxLength(200).Build(),
			extract.Field("status").String().Custom(validateStatus("planned", "active", "closed")).Build(),
		}
	case recon.AreaInvoice:
		return []extract.FieldRule{
			extract.Field("number").Required().String().MaxLength(100).Build(),
			extract.Field("issued_at").Date().Build(),
			extract.Field("amount").Decimal().MinValue(decimal.Zero).Build(),
			extract.Field("currency").String().MaxLength(10).Build(),
		}
	case recon.AreaPayment:
		return []extract.FieldRule{
			extract.Field("amount").Required().Decimal().MinValue(decimal.Zero).Build(),
			extract.Field("paid_at").Date().Build(),
			extract.Field("currency").String().MaxLength(10).Build(),
			extract.Field("method").String().MaxLength(50).Build(),
			extract.Field("reference").String().MaxLength(200).Build(),
		}
	}
	return nil
}

func validateStatus(allowed ...string) func(string) error {
	return func(value string) error {
		lower := strings.ToLower(value)
		for _, a := range allowed {
			if lower == a {
				return nil
			}
		}
		return fmt.Errorf("status must be one of: %s", strings.Join(allowed, ", "))
	}
}

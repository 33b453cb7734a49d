package recon

// Area is one of the fixed target categories a staged row can be routed to.
type Area string

const (
	AreaVendor           Area = "vendor"
	AreaVendorIdentifier Area = "vendor_identifier"
	AreaVendorOwner      Area = "vendor_owner"
	AreaVendorContact    Area = "vendor_contact"
	AreaOffering         Area = "offering"
	AreaOfferingOwner    Area = "offering_owner"
	AreaOfferingContact  Area = "offering_contact"
	AreaContract         Area = "contract"
	AreaProject          Area = "project"
	AreaInvoice          Area = "invoice"
	AreaPayment          Area = "payment"
)

// AreaOrder is the fixed review and apply order: parents before children,
// strictly sequential. Review confirmation and the apply engine both walk
// this list left to right.
var AreaOrder = []Area{
	AreaVendor,
	AreaVendorIdentifier,
	AreaVendorOwner,
	AreaVendorContact,
	AreaOffering,
	AreaOfferingOwner,
	AreaOfferingContact,
	AreaContract,
	AreaProject,
	AreaInvoice,
	AreaPayment,
}

// IsValid checks if the area is one of the fixed categories
func (a Area) IsValid() bool {
	for _, v := range AreaOrder {
		if v == a {
			return true
		}
	}
	return false
}

// Index returns the area's position in the fixed order, or -1 if invalid
func (a Area) Index() int {
	for i, v := range AreaOrder {
		if v == a {
			return i
		}
	}
	return -1
}

// Prior returns the areas that must be confirmed before this one
func (a Area) Prior() []Area {
	idx := a.Index()
	if idx <= 0 {
		return nil
	}
	return AreaOrder[:idx]
}

// ParentArea returns the area whose entity this area's rows reference as a
// hard dependency, or "" when the area has no parent.
func (a Area) ParentArea() Area {
	switch a {
	case AreaVendorIdentifier, AreaVendorOwner, AreaVendorContact, AreaOffering, AreaContract, AreaInvoice:
		return AreaVendor
	case AreaOfferingOwner, AreaOfferingContact:
		return AreaOffering
	case AreaPayment:
		return AreaVendor
	default:
		return ""
	}
}

package constants

// Role permissions carried in JWT claims issued by the external identity
// service.
const (
	PermAdminFull    = "parcel-delivery.admin.full-permit"
	PermRiderFull    = "parcel-delivery.rider.full-permit"
	PermCustomerFull = "parcel-delivery.customer.full-permit"

	// PermAny matches any authenticated caller.
	PermAny = "any"
)

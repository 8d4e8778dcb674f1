package parcel

type PaymentStatus string

const (
	PaymentStatusUnset PaymentStatus = ""
	PaymentStatusPaid  PaymentStatus = "paid"
)

// DeliveryStatus is an open string-based vocabulary: callers may advance a
// parcel into statuses beyond the named constants, and the ledger records
// them verbatim. The constants name the transitions the controller couples
// side effects to.
type DeliveryStatus string

const (
	DeliveryStatusUnset          DeliveryStatus = ""
	DeliveryStatusPendingPickup  DeliveryStatus = "pending-pickup"
	DeliveryStatusDriverAssigned DeliveryStatus = "driver_assigned"
	DeliveryStatusInTransit      DeliveryStatus = "in_transit"
	DeliveryStatusDelivered      DeliveryStatus = "parcel_delivered"
)

func (ds DeliveryStatus) String() string {
	return string(ds)
}

// IsTerminal reports whether the status ends the delivery lifecycle and
// frees the assigned rider.
func (ds DeliveryStatus) IsTerminal() bool {
	return ds == DeliveryStatusDelivered
}

func (ds DeliveryStatus) IsKnown() bool {
	switch ds {
	case DeliveryStatusUnset, DeliveryStatusPendingPickup, DeliveryStatusDriverAssigned,
		DeliveryStatusInTransit, DeliveryStatusDelivered:
		return true
	default:
		return false
	}
}

// legalNext is the explicit transition table used when strict validation is
// enabled. The default mode stays permissive and never consults it.
var legalNext = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusUnset:          {DeliveryStatusPendingPickup, DeliveryStatusDriverAssigned},
	DeliveryStatusPendingPickup:  {DeliveryStatusDriverAssigned},
	DeliveryStatusDriverAssigned: {DeliveryStatusInTransit, DeliveryStatusDelivered},
	DeliveryStatusInTransit:      {DeliveryStatusDelivered},
}

// CanTransitionTo reports whether next is a legal successor of ds.
func (ds DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range legalNext[ds] {
		if allowed == next {
			return true
		}
	}
	return false
}

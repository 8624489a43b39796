package model

import "time"

// CustomerInfo is the identity/address block collected on the Details step.
type CustomerInfo struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// ReservationDraft is the in-progress booking. It is owned exclusively by the
// wizard controller until submission and then handed to the backend by value.
//
// When MonthlyPayment is true the stored DurationMonths is pinned to 1 and the
// effective billing period used for pricing is 12 months; the two values are
// deliberately decoupled.
type ReservationDraft struct {
	UnitID         int64
	StartDate      time.Time
	DurationMonths int
	MonthlyPayment bool
	ServiceIDs     []int64
	Customer       CustomerInfo
}

func (d ReservationDraft) HasService(id int64) bool {
	for _, sid := range d.ServiceIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand the draft around without
// sharing the service id slice with the wizard.
func (d ReservationDraft) Clone() ReservationDraft {
	out := d
	out.ServiceIDs = append([]int64(nil), d.ServiceIDs...)
	return out
}

// Package pricing computes the total price of a reservation draft. It is
// pure: no I/O, no state, safe to re-run on every draft mutation.
package pricing

import "github.com/boxup/booking-service/internal/model"

// Result is the derived price breakdown. It is never persisted; it is always
// recomputed from the current draft and snapshots.
type Result struct {
	BasePrice      float64
	ServicesTotal  float64
	DiscountAmount float64
	TotalPrice     float64
}

// ValidationError names the field that failed validation. Callers must not
// coerce a bad value and retry silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Compute prices a draft against the unit snapshot and service catalog.
//
// The annual path (monthlyPayment == true) always applies a 12-month
// multiplier to the unit rate, whatever duration the draft stores; the
// stored duration and the effective billing period are deliberately
// decoupled. The loyalty discount applies only on that path and only when
// positive.
//
// A nil unit snapshot means the bootstrap fetch has not landed yet: the
// result is the zero value, not an error.
func Compute(unit *model.Unit, durationMonths int, monthlyPayment bool, serviceIDs []int64, catalog model.ServiceCatalog, discountPct float64) (Result, error) {
	if durationMonths < 1 {
		return Result{}, &ValidationError{Field: "durationMonths", Reason: "must be a positive integer"}
	}
	if unit == nil {
		return Result{}, nil
	}

	basePrice := unit.PricePerMonth * float64(durationMonths)

	servicesTotal := 0.0
	for _, s := range catalog {
		if containsID(serviceIDs, s.ID) {
			servicesTotal += s.Price
		}
	}

	if monthlyPayment {
		annualBeforeDiscount := unit.PricePerMonth*12 + servicesTotal
		result := Result{
			BasePrice:     basePrice,
			ServicesTotal: servicesTotal,
			TotalPrice:    annualBeforeDiscount,
		}
		if discountPct > 0 {
			result.DiscountAmount = annualBeforeDiscount * discountPct / 100
			result.TotalPrice = annualBeforeDiscount - result.DiscountAmount
		}
		return result, nil
	}

	return Result{
		BasePrice:     basePrice,
		ServicesTotal: servicesTotal,
		TotalPrice:    basePrice + servicesTotal,
	}, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

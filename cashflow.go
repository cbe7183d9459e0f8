package bond

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CouponEvent is one row of a coupon stream: the payment date and the amount
// per bond in the face value currency. Value is null when the amount is not
// fixed yet, as with floaters.
type CouponEvent struct {
	Date  Date
	Value decimal.NullDecimal
}

// AmortizationEvent is a partial or final redemption of the face value.
type AmortizationEvent struct {
	Date  Date
	Value decimal.NullDecimal
}

// OfferEvent is a put or call offer as reported by the venue.
type OfferEvent struct {
	Date  Date
	Price decimal.NullDecimal
	Type  string
}

// CashFlowEvent aggregates everything known to happen on one date.
type CashFlowEvent struct {
	Date         Date
	Coupon       decimal.NullDecimal
	Amortization decimal.NullDecimal
	OfferPrice   decimal.NullDecimal
	OfferType    string
}

// Amount returns the cash paid on that date: coupon plus amortization,
// absent parts counting as zero.
func (e CashFlowEvent) Amount() decimal.Decimal {
	var a decimal.Decimal
	if e.Coupon.Valid {
		a = a.Add(e.Coupon.Decimal)
	}
	if e.Amortization.Valid {
		a = a.Add(e.Amortization.Decimal)
	}
	return a
}

// Schedule is the merged cash-flow timeline of a bond, sorted ascending
// with one event per date.
type Schedule []CashFlowEvent

// After returns the events strictly after d. The result shares backing
// memory with s.
func (s Schedule) After(d Date) Schedule {
	i, _ := slices.BinarySearchFunc(s, d, func(e CashFlowEvent, t Date) int {
		if e.Date.After(t) {
			return 1
		}
		return -1
	})
	return s[i:]
}

// Dates returns the event dates in order.
func (s Schedule) Dates() []Date {
	dates := make([]Date, len(s))
	for i, e := range s {
		dates[i] = e.Date
	}
	return dates
}

// MergeEvents merges the coupon, amortization and offer streams into a
// single schedule covering the union of their dates, one event per date.
// Two records of the same stream on the same date accumulate by summation;
// the first offer on a date wins. No validation happens here, so the result
// can carry offers and unknown coupon amounts; it is fit for display, not
// for solving. BuildSchedule is the validating entry point.
func MergeEvents(coupons []CouponEvent, amortizations []AmortizationEvent, offers []OfferEvent) Schedule {
	merged := make(map[Date]*CashFlowEvent)
	at := func(d Date) *CashFlowEvent {
		e, ok := merged[d]
		if !ok {
			e = &CashFlowEvent{Date: d}
			merged[d] = e
		}
		return e
	}

	for _, c := range coupons {
		e := at(c.Date)
		if !c.Value.Valid {
			// The date stays on the schedule, the amount stays unknown.
			continue
		}
		if e.Coupon.Valid {
			e.Coupon.Decimal = e.Coupon.Decimal.Add(c.Value.Decimal)
		} else {
			e.Coupon = c.Value
		}
	}
	for _, a := range amortizations {
		e := at(a.Date)
		if !a.Value.Valid {
			continue
		}
		if e.Amortization.Valid {
			e.Amortization.Decimal = e.Amortization.Decimal.Add(a.Value.Decimal)
		} else {
			e.Amortization = a.Value
		}
	}
	for _, o := range offers {
		e := at(o.Date)
		if !e.OfferPrice.Valid {
			e.OfferPrice = o.Price
		}
		if e.OfferType == "" {
			e.OfferType = o.Type
		}
	}

	schedule := make(Schedule, 0, len(merged))
	for _, e := range merged {
		schedule = append(schedule, *e)
	}
	slices.SortFunc(schedule, func(a, b CashFlowEvent) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})
	return schedule
}

// BuildSchedule merges the coupon and amortization streams with MergeEvents
// and validates the result as a whole. Any offer in the input makes the bond
// unpriceable (*EmbeddedOptionError) no matter how complete the rest of the
// schedule is. Any date without a known coupon amount makes the schedule
// incomplete (*IncompleteScheduleError); a date reported only by the
// amortization stream fails that check too. On error the schedule is nil.
func BuildSchedule(coupons []CouponEvent, amortizations []AmortizationEvent, offers []OfferEvent) (Schedule, error) {
	if len(offers) > 0 {
		first := offers[0]
		for _, o := range offers[1:] {
			if o.Date.Before(first.Date) {
				first = o
			}
		}
		return nil, &EmbeddedOptionError{Date: first.Date, OfferType: first.Type}
	}
	schedule := MergeEvents(coupons, amortizations, nil)
	for _, e := range schedule {
		if !e.Coupon.Valid {
			return nil, &IncompleteScheduleError{Date: e.Date}
		}
	}
	return schedule, nil
}

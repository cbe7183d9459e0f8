package bond

import "fmt"

// EmbeddedOptionError reports a schedule carrying a put or call offer.
// An offer means the realized cash flows depend on an exercise decision the
// solver does not model, so the instrument is refused rather than mispriced.
type EmbeddedOptionError struct {
	Date      Date
	OfferType string
}

func (e *EmbeddedOptionError) Error() string {
	if e.OfferType == "" {
		return fmt.Sprintf("embedded option: offer on %s", e.Date)
	}
	return fmt.Sprintf("embedded option: %s offer on %s", e.OfferType, e.Date)
}

// IncompleteScheduleError reports a date on the schedule with no known
// coupon amount, typically a floater whose future rates are not fixed yet.
type IncompleteScheduleError struct {
	Date Date
}

func (e *IncompleteScheduleError) Error() string {
	return fmt.Sprintf("incomplete schedule: no coupon amount on %s", e.Date)
}

// EmptyScheduleError reports that no cash flow falls strictly after the
// purchase date, leaving nothing to discount.
type EmptyScheduleError struct {
	PurchaseDate Date
}

func (e *EmptyScheduleError) Error() string {
	return fmt.Sprintf("no cash flows after %s", e.PurchaseDate)
}

// NonConvergenceError reports that the yield search exhausted its iteration
// budget or found no root within the sane rate interval.
type NonConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("yield did not converge after %d iterations (residual %g)", e.Iterations, e.Residual)
}

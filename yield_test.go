package bond

import (
	"errors"
	"math"
	"testing"
	"time"
)

// The worked example: a bond bought at par on 2024-01-01 paying 50 of coupon
// and 1000 of principal one year later yields exactly 5%.
func TestSolveYield(t *testing.T) {
	s, err := BuildSchedule(
		[]CouponEvent{{Date: NewDate(2025, time.January, 1), Value: ndec("50")}},
		[]AmortizationEvent{{Date: NewDate(2025, time.January, 1), Value: ndec("1000")}},
		nil,
	)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	terms := Terms{
		FaceValue:       dec("1000"),
		AccruedInterest: dec("0"),
		PurchaseDate:    NewDate(2024, time.January, 1),
	}

	ytm, err := SolveYield(s, terms, dec("100"))
	if err != nil {
		t.Fatalf("SolveYield() error = %v", err)
	}
	if !ytm.Equal(Percent(5)) {
		t.Errorf("SolveYield() = %v, want 5.00%%", ytm)
	}
	if got := ytm.String(); got != "5.00%" {
		t.Errorf("SolveYield().String() = %q, want %q", got, "5.00%")
	}
}

// A single flow has the closed form r = (flow/paid)^(1/t) - 1.
func TestSolveYield_ZeroCoupon(t *testing.T) {
	purchase := NewDate(2025, time.January, 1)
	tests := []struct {
		name  string
		on    Date
		price string // clean price in percent of face
	}{
		{"one year below par", NewDate(2026, time.January, 1), "90"},
		{"two years deep discount", NewDate(2027, time.January, 1), "70"},
		{"six months above par", NewDate(2025, time.July, 1), "101.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := BuildSchedule(
				[]CouponEvent{{Date: tt.on, Value: ndec("0")}},
				[]AmortizationEvent{{Date: tt.on, Value: ndec("1000")}},
				nil,
			)
			if err != nil {
				t.Fatalf("BuildSchedule() error = %v", err)
			}
			terms := Terms{FaceValue: dec("1000"), PurchaseDate: purchase}

			ytm, err := SolveYield(s, terms, dec(tt.price))
			if err != nil {
				t.Fatalf("SolveYield() error = %v", err)
			}

			paid := dec(tt.price).Div(dec("100")).Mul(dec("1000")).InexactFloat64()
			horizon := YearFraction(purchase, tt.on)
			want := math.Pow(1000/paid, 1/horizon) - 1
			if got := float64(ytm) / 100; math.Abs(got-want) > 1e-6 {
				t.Errorf("SolveYield() = %v, want %v (closed form)", got, want)
			}
		})
	}
}

// The residual at the returned rate must be below tolerance for an
// irregular amortizing schedule too.
func TestSolveYield_Residual(t *testing.T) {
	purchase := NewDate(2025, time.February, 10)
	coupons := []CouponEvent{
		{Date: NewDate(2025, time.August, 14), Value: ndec("41.14")},
		{Date: NewDate(2026, time.February, 12), Value: ndec("41.14")},
		{Date: NewDate(2026, time.August, 13), Value: ndec("30.85")},
		{Date: NewDate(2027, time.February, 11), Value: ndec("20.57")},
	}
	amortizations := []AmortizationEvent{
		{Date: NewDate(2026, time.February, 12), Value: ndec("250")},
		{Date: NewDate(2026, time.August, 13), Value: ndec("250")},
		{Date: NewDate(2027, time.February, 11), Value: ndec("500")},
	}
	s, err := BuildSchedule(coupons, amortizations, nil)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	terms := Terms{
		FaceValue:       dec("1000"),
		AccruedInterest: dec("13.2"),
		PurchaseDate:    purchase,
	}

	ytm, err := SolveYield(s, terms, dec("97.35"))
	if err != nil {
		t.Fatalf("SolveYield() error = %v", err)
	}

	// Rebuild the discounting vectors and check the root.
	future := s.After(purchase)
	ts := []float64{0}
	amounts := []float64{-(97.35/100*1000 + 13.2)}
	for _, e := range future {
		ts = append(ts, YearFraction(purchase, e.Date))
		amounts = append(amounts, e.Amount().InexactFloat64())
	}
	if npv := netPresentValue(float64(ytm)/100, ts, amounts); math.Abs(npv) > 1e-6 {
		t.Errorf("residual at returned rate = %v, want below 1e-6", npv)
	}

	// Determinism: a second run gives the exact same value.
	again, err := SolveYield(s, terms, dec("97.35"))
	if err != nil {
		t.Fatalf("SolveYield() second run error = %v", err)
	}
	if ytm != again {
		t.Errorf("SolveYield() is not deterministic: %v then %v", ytm, again)
	}
}

func TestSolveYield_EmptySchedule(t *testing.T) {
	on := NewDate(2025, time.March, 1)
	s, err := BuildSchedule(
		[]CouponEvent{{Date: on, Value: ndec("25")}},
		[]AmortizationEvent{{Date: on, Value: ndec("1000")}},
		nil,
	)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	tests := []struct {
		name     string
		purchase Date
	}{
		{"purchase after last event", on.Add(30)},
		{"purchase on the event date", on}, // the boundary is exclusive
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveYield(s, Terms{FaceValue: dec("1000"), PurchaseDate: tt.purchase}, dec("100"))
			var emptyErr *EmptyScheduleError
			if !errors.As(err, &emptyErr) {
				t.Fatalf("SolveYield() error = %v, want *EmptyScheduleError", err)
			}
			if emptyErr.PurchaseDate != tt.purchase {
				t.Errorf("EmptyScheduleError.PurchaseDate = %v, want %v", emptyErr.PurchaseDate, tt.purchase)
			}
		})
	}

	// One day before the event the same schedule solves fine.
	if _, err := SolveYield(s, Terms{FaceValue: dec("1000"), PurchaseDate: on.Add(-1)}, dec("100")); err != nil {
		t.Errorf("SolveYield() one day before the event: error = %v", err)
	}
}

// A start far in the flat tail of the curve makes the first Newton step
// shoot below -99%; the solver must fall back to bracketing and still find
// the 5% root.
func TestSolveRate_BracketFallback(t *testing.T) {
	ts := []float64{0, 1}
	amounts := []float64{-100, 105}

	rate, err := solveRate(ts, amounts, 99)
	if err != nil {
		t.Fatalf("solveRate() error = %v", err)
	}
	if math.Abs(rate-0.05) > 1e-6 {
		t.Errorf("solveRate() = %v, want 0.05", rate)
	}
}

func TestSolveRate_NoRoot(t *testing.T) {
	// Every amount positive: the net present value never crosses zero.
	ts := []float64{0, 1}
	amounts := []float64{100, 50}

	_, err := solveRate(ts, amounts, 0.1)
	var ncErr *NonConvergenceError
	if !errors.As(err, &ncErr) {
		t.Fatalf("solveRate() error = %v, want *NonConvergenceError", err)
	}
	if ncErr.Iterations <= 0 || ncErr.Iterations > maxIterations {
		t.Errorf("NonConvergenceError.Iterations = %d, want within (0, %d]", ncErr.Iterations, maxIterations)
	}
}

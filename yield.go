package bond

import (
	"math"

	"github.com/shopspring/decimal"
)

// Solver guards. Rates outside [minRate, maxRate] are economically absurd
// and reported as non-convergence instead of being chased.
const (
	npvTolerance  = 1e-8
	rateTolerance = 1e-10
	maxIterations = 100
	minRate       = -0.99
	maxRate       = 100.0
)

// Terms describes the purchase side of a yield computation.
type Terms struct {
	FaceValue       decimal.Decimal // nominal per bond, in the coupon currency
	AccruedInterest decimal.Decimal // accrued coupon per bond at the purchase date
	PurchaseDate    Date
}

// SolveYield computes the annualized yield implied by buying at cleanPrice
// (in percent of face value) on t.PurchaseDate and receiving every
// scheduled cash flow after that date.
//
// The rate r solves sum(amount_i/(1+r)^t_i) = 0 where t_i is the act/act
// ISDA year fraction from the purchase date and amount_0 is the negative
// dirty price (clean price plus accrued interest). Events on or before the
// purchase date are excluded; when none remain the result is an
// *EmptyScheduleError. The returned Percent keeps full precision, its
// String rounds to two decimals.
func SolveYield(s Schedule, t Terms, cleanPrice decimal.Decimal) (Percent, error) {
	future := s.After(t.PurchaseDate)
	if len(future) == 0 {
		return 0, &EmptyScheduleError{PurchaseDate: t.PurchaseDate}
	}

	dirty := cleanPrice.Div(decimal.NewFromInt(100)).Mul(t.FaceValue).Add(t.AccruedInterest)

	ts := make([]float64, 0, len(future)+1)
	amounts := make([]float64, 0, len(future)+1)
	ts = append(ts, 0)
	amounts = append(amounts, dirty.Neg().InexactFloat64())
	for _, e := range future {
		ts = append(ts, YearFraction(t.PurchaseDate, e.Date))
		amounts = append(amounts, e.Amount().InexactFloat64())
	}

	rate, err := solveRate(ts, amounts, estimateRate(ts, amounts))
	if err != nil {
		return 0, err
	}
	return Percent(rate * 100), nil
}

type solverMode int

const (
	modeNewton solverMode = iota
	modeBracket
)

// solveRate finds the root of the net present value with Newton-Raphson,
// switching to bisection on [minRate, maxRate] when a step leaves that
// interval, is not finite, or meets a flat derivative. Both modes draw on
// one shared iteration budget.
func solveRate(ts, amounts []float64, guess float64) (float64, error) {
	rate := clampRate(guess)
	mode := modeNewton
	lo, hi := minRate, maxRate
	bracketed := false

	var npv, flo float64
	for iter := 0; iter < maxIterations; iter++ {
		switch mode {
		case modeNewton:
			var slope float64
			npv, slope = npvAndSlope(rate, ts, amounts)
			if math.Abs(npv) < npvTolerance {
				return rate, nil
			}
			if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
				mode = modeBracket
				continue
			}
			next := rate - npv/slope
			if math.IsNaN(next) || next < minRate || next > maxRate {
				mode = modeBracket
				continue
			}
			if math.Abs(next-rate) < rateTolerance {
				return next, nil
			}
			rate = next

		case modeBracket:
			if !bracketed {
				flo = netPresentValue(lo, ts, amounts)
				fhi := netPresentValue(hi, ts, amounts)
				if (flo > 0) == (fhi > 0) {
					// No sign change on the sane interval: no root to bracket.
					return rate, &NonConvergenceError{Iterations: iter, Residual: npv}
				}
				bracketed = true
			}
			mid := (lo + hi) / 2
			npv = netPresentValue(mid, ts, amounts)
			if math.Abs(npv) < npvTolerance || hi-lo < rateTolerance {
				return mid, nil
			}
			if (npv > 0) == (flo > 0) {
				lo, flo = mid, npv
			} else {
				hi = mid
			}
		}
	}
	return rate, &NonConvergenceError{Iterations: maxIterations, Residual: npv}
}

// estimateRate seeds the search with the simple-yield approximation:
// average annual gain over the average of invested and returned capital.
func estimateRate(ts, amounts []float64) float64 {
	invested := -amounts[0]
	var total float64
	for _, a := range amounts[1:] {
		total += a
	}
	horizon := ts[len(ts)-1]
	if invested <= 0 || horizon <= 0 {
		return 0.1
	}
	return clampRate((total - invested) / horizon / ((total + invested) / 2))
}

func clampRate(r float64) float64 {
	switch {
	case r < minRate:
		return minRate
	case r > maxRate:
		return maxRate
	}
	return r
}

// npvAndSlope evaluates the net present value and its derivative with
// respect to the rate.
func npvAndSlope(rate float64, ts, amounts []float64) (npv, slope float64) {
	for i, t := range ts {
		df := math.Pow(1+rate, -t)
		npv += amounts[i] * df
		slope -= amounts[i] * t * df / (1 + rate)
	}
	return npv, slope
}

// netPresentValue discounts every amount at the given rate.
func netPresentValue(rate float64, ts, amounts []float64) (npv float64) {
	for i, t := range ts {
		npv += amounts[i] * math.Pow(1+rate, -t)
	}
	return npv
}

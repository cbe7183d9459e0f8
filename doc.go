// Package bond computes yield to maturity for bonds with irregular cash
// flows, such as amortizing issues or issues with uneven coupon periods.
//
// The core functionalities include:
//   - Schedule Building: Merging the coupon, amortization and offer streams
//     published by the Moscow Exchange ISS into a single chronological
//     schedule of cash-flow events, rejecting instruments whose future
//     payments cannot be fully determined.
//   - Yield Solving: Finding the internal rate of return of a purchase
//     against the remaining cash flows, using Newton-Raphson with a
//     bisection fallback and act/act day counting.
//   - Instrument Cards: A typed view over the ISS description, the main
//     board snapshot and the trading history of a bond.
//
// This package serves as the foundational logic for the `mbond` command-line
// tool.
package bond

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/moex-tools/bond"
	"github.com/moex-tools/bond/iss"
	"github.com/moex-tools/bond/renderer"
	"github.com/shopspring/decimal"
)

type yieldCmd struct {
	price string
	date  string
}

func (*yieldCmd) Name() string     { return "yield" }
func (*yieldCmd) Synopsis() string { return "compute the yield to maturity" }
func (*yieldCmd) Usage() string {
	return `mbond yield [-p <price>] [-d <date>] <code>

  Computes the yield to maturity of a bond bought at a clean price, in
  percent of face value. Without -p the weighted average price of the
  previous session is used; without -d the purchase date is today.

  Bonds with a put or call offer ahead and floaters whose coupons are not
  fixed yet are refused: their yield to maturity is not defined by the
  published schedule.

Usage Examples:
$ mbond yield RU000A1038V6
$ mbond yield -p 98.5 -d 2025-7-1 SU26238RMFS4

`
}

func (c *yieldCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "p", "", "clean price in percent of face value (default: previous session weighted average)")
	f.StringVar(&c.date, "d", "", "purchase date (default: today)")
}

func (c *yieldCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one code is required.")
		return subcommands.ExitUsageError
	}

	secid, err := iss.SecID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	b, err := iss.Fetch(secid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", secid, err)
		return subcommands.ExitFailure
	}

	price := b.PrevWAPrice
	if c.price != "" {
		d, err := decimal.NewFromString(c.price)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -p %q is not a number: %v\n", c.price, err)
			return subcommands.ExitUsageError
		}
		price = decimal.NewNullDecimal(d)
	}
	if !price.Valid {
		fmt.Fprintf(os.Stderr, "Error: %s did not trade on the previous session, a price is required (-p).\n", secid)
		return subcommands.ExitFailure
	}

	on := bond.Today()
	if c.date != "" {
		on, err = bond.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\nSee 'mbond topic dates' for the accepted formats.\n", err)
			return subcommands.ExitUsageError
		}
	}

	if !b.FaceValue.Valid {
		fmt.Fprintf(os.Stderr, "Error: %s has no face value on its card.\n", secid)
		return subcommands.ExitFailure
	}

	coupons, amortizations, offers, err := iss.Bondization(secid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching the schedule of %s: %v\n", secid, err)
		return subcommands.ExitFailure
	}
	schedule, err := bond.BuildSchedule(coupons, amortizations, offers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	terms := bond.Terms{
		FaceValue:    b.FaceValue.Decimal,
		PurchaseDate: on,
	}
	if b.AccruedInterest.Valid {
		terms.AccruedInterest = b.AccruedInterest.Decimal
	}

	ytm, err := bond.SolveYield(schedule, terms, price.Decimal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.YieldMarkdown(b, terms, price.Decimal, ytm))
	return subcommands.ExitSuccess
}

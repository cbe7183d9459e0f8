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
)

type infoCmd struct{}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "show the instrument card and the payment schedule" }
func (*infoCmd) Usage() string {
	return `mbond info <code>

  Shows the instrument card of a bond and its full payment schedule:
  coupons, amortizations and offers, one row per date. The bond is given
  by ISIN or by its exchange trading code (SECID).

Usage Examples:
$ mbond info RU000A1038V6
$ mbond info SU26238RMFS4

`
}

func (c *infoCmd) SetFlags(f *flag.FlagSet) {}

func (c *infoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.BondMarkdown(b))

	coupons, amortizations, offers, err := iss.Bondization(secid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching the schedule of %s: %v\n", secid, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ScheduleMarkdown(b.ShortName, bond.MergeEvents(coupons, amortizations, offers)))

	return subcommands.ExitSuccess
}

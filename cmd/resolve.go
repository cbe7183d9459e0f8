package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/moex-tools/bond/iss"
)

type resolveCmd struct {
	reverse bool
}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "translate an ISIN into the exchange trading code" }
func (*resolveCmd) Usage() string {
	return `mbond resolve [-reverse] <code>

  Translates an ISIN into the exchange trading code (SECID) using the ISS
  full-text search. With -reverse, translates a SECID back into its ISIN.

Usage Examples:
$ mbond resolve RU000A1038V6
$ mbond resolve -reverse SU26238RMFS4

`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.reverse, "reverse", false, "translate a SECID into its ISIN")
}

func (c *resolveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one code is required.")
		return subcommands.ExitUsageError
	}

	dir := iss.ISINToSecID
	if c.reverse {
		dir = iss.SecIDToISIN
	}

	code, err := iss.Resolve(f.Arg(0), dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	fmt.Println(code)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/moex-tools/bond/iss"
)

type cacheCmd struct {
	clear bool
}

func (*cacheCmd) Name() string     { return "cache" }
func (*cacheCmd) Synopsis() string { return "show or clear the feed response cache" }
func (*cacheCmd) Usage() string {
	return `mbond cache [-clear]

  Shows the feed responses cached on disk. Entries expire by themselves at
  the end of the day; -clear removes them now, forcing the next command to
  fetch fresh data.

Usage Examples:
$ mbond cache
$ mbond cache -clear

`
}

func (c *cacheCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "remove every cached response")
}

func (c *cacheCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.clear {
		removed, err := iss.ClearCache()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing the cache: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("removed %d cached responses\n", removed)
		return subcommands.ExitSuccess
	}

	entries, err := iss.CacheEntries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the cache: %v\n", err)
		return subcommands.ExitFailure
	}
	var total int64
	for _, e := range entries {
		if fi, err := os.Stat(e); err == nil {
			total += fi.Size()
		}
	}
	fmt.Printf("%d cached responses (%.1f KB)\n", len(entries), float64(total)/1024)
	return subcommands.ExitSuccess
}

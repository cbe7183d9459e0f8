package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/moex-tools/bond/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, active only during a completion request.
	// Install it once with: COMP_INSTALL=1 mbond
	completion().Complete("mbond")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	cmd.Setup()

	// Unknown subcommands get a chance as mbond-<name> extensions.
	if name := flag.Arg(0); name != "" && !cmd.Knows(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	code := predict.Something // an ISIN or a SECID
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"resolve": {
				Flags: map[string]complete.Predictor{"reverse": predict.Nothing},
				Args:  code,
			},
			"info": {Args: code},
			"cache": {
				Flags: map[string]complete.Predictor{"clear": predict.Nothing},
			},
			"yield": {
				Flags: map[string]complete.Predictor{
					"p": predict.Something,
					"d": predict.Something,
				},
				Args: code,
			},
			"topic":  {Args: predict.Set{"readme", "dates", "iss", "yield", "*"}},
			"assist": {},
			"help":   {},
		},
		Flags: map[string]complete.Predictor{
			"iss-url": predict.Something,
			"v":       predict.Nothing,
		},
	}
}

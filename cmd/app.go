// Package cmd implements the CLI application to look bonds up on the
// Moscow Exchange and compute their yield to maturity.
package cmd

import (
	"flag"
	"io"
	"log"

	"github.com/google/subcommands"
	"github.com/moex-tools/bond/iss"
)

// Register the subcommands.
// A main package will call Register() to declare them, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&resolveCmd{}, "market data")
	c.Register(&infoCmd{}, "market data")
	c.Register(&cacheCmd{}, "market data")

	c.Register(&yieldCmd{}, "analytics")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "assistant")
}

// Knows reports whether name is a built-in command, as opposed to a
// candidate extension.
func Knows(name string) bool {
	switch name {
	case "resolve", "info", "cache", "yield", "topic", "assist",
		"help", "flags", "commands":
		return true
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var issURL = flag.String("iss-url", iss.BaseURL, "base URL of the Moscow Exchange ISS feed")
var verbose = flag.Bool("v", false, "verbose logging of feed requests")

// Setup propagates the global flags. A main package calls it right after
// flag.Parse, before any command executes.
func Setup() {
	iss.BaseURL = *issURL
	if !*verbose {
		log.SetOutput(io.Discard)
	}
}

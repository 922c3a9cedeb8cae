// Command hfl keeps track of a household budget in three pools of money.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/hfledger/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Answers shell completion requests, and exits, if this is one.
	cmd.Completion().Complete("hfl")

	commander := subcommands.NewCommander(flag.CommandLine, "hfl")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hfledger/renderer"
	"github.com/google/subcommands"
)

// --- Balance Command ---

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the balance of every pool" }
func (*balanceCmd) Usage() string {
	return `hfl balance

  Displays the balance of every pool, the total of pending bills and the
  status of the ledger.
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	printMarkdown(renderer.Summary(s.ledger))
	return subcommands.ExitSuccess
}

// --- Status Command ---

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "print the status of the ledger" }
func (*statusCmd) Usage() string {
	return `hfl status

  Prints "ready", or "over-allocated" when the primary pool is negative.
`
}

func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	fmt.Println(s.ledger.Status())
	return subcommands.ExitSuccess
}

// --- Pending Command ---

type pendingCmd struct{}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list the bills not cleared yet" }
func (*pendingCmd) Usage() string {
	return `hfl pending

  Lists the bills not cleared yet, most recent first, and their total.
`
}

func (*pendingCmd) SetFlags(*flag.FlagSet) {}

func (*pendingCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	printMarkdown(renderer.Pending(s.ledger))
	return subcommands.ExitSuccess
}

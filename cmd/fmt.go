package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// --- Verify Command ---

type verifyCmd struct{}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "check that the journal replays to the balances" }
func (*verifyCmd) Usage() string {
	return `hfl verify

  Replays every transaction and adjustment from zero and compares the result
  with the balances. Exits with a failure if they differ.
`
}

func (*verifyCmd) SetFlags(*flag.FlagSet) {}

func (*verifyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.ledger.Verify(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("ledger is consistent")
	return subcommands.ExitSuccess
}

// --- Fmt Command ---

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `hfl fmt

  Validates and formats the ledger. This command reads the ledger and writes
  it back in its canonical form: balances first, then transactions in the
  order they were recorded, then adjustments.

Usage Examples:
# Writes to the default ledger file.
$ hfl fmt

`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: could not load ledger:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.store.SaveSnapshot(s.ledger.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save ledger %q: %v\n", s.location(), err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Ledger %q has been formatted.\n", s.location())
	return subcommands.ExitSuccess
}

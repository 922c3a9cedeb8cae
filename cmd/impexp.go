package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hfledger"
	"github.com/google/subcommands"
)

// --- Import Legacy Command ---

type importLegacyCmd struct{}

func (*importLegacyCmd) Name() string     { return "import-legacy" }
func (*importLegacyCmd) Synopsis() string { return "replace the ledger with a legacy browser store" }
func (*importLegacyCmd) Usage() string {
	return `hfl import-legacy <file>

  Replaces the ledger with the content of a file in the legacy browser
  format. See 'hfl topic legacy'.
`
}

func (*importLegacyCmd) SetFlags(*flag.FlagSet) {}

func (*importLegacyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := newSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	snap, err := hfledger.ImportLegacy(in, s.cfg.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	l, err := hfledger.FromSnapshot(snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := s.store.SaveSnapshot(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save ledger %q: %v\n", s.location(), err)
		return subcommands.ExitFailure
	}
	printChange(l, fmt.Sprintf("Imported %d transactions from %s", l.Len(), f.Arg(0)))
	return subcommands.ExitSuccess
}

// --- Export Legacy Command ---

type exportLegacyCmd struct{}

func (*exportLegacyCmd) Name() string     { return "export-legacy" }
func (*exportLegacyCmd) Synopsis() string { return "write the ledger in the legacy browser format" }
func (*exportLegacyCmd) Usage() string {
	return `hfl export-legacy

  Writes the ledger to stdout in the legacy browser format. Adjustments have
  no legacy counterpart, they only survive through the balances.
`
}

func (*exportLegacyCmd) SetFlags(*flag.FlagSet) {}

func (*exportLegacyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := hfledger.ExportLegacy(os.Stdout, s.ledger.Snapshot()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

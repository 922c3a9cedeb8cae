package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hfledger"
	"github.com/google/subcommands"
)

// --- Set Balance Command ---

type setBalanceCmd struct{}

func (*setBalanceCmd) Name() string     { return "set-balance" }
func (*setBalanceCmd) Synopsis() string { return "set the primary balance" }
func (*setBalanceCmd) Usage() string {
	return `hfl set-balance <amount>

  Sets the primary pool to amount, usually to match the real account. The
  change is kept as an adjustment and cannot be deleted.
  Use 'hfl set-balance -- -50' for a negative amount.
`
}

func (*setBalanceCmd) SetFlags(*flag.FlagSet) {}

func (*setBalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	amount, err := parseAmount(f.Arg(0), s.ledger.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := s.ledger.SetPrimaryBalance(amount); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printChange(s.ledger, fmt.Sprintf("Primary balance set to %s", amount))
	return subcommands.ExitSuccess
}

// --- Reset Command ---

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "reset the discretionary or reserved pool to zero" }
func (*resetCmd) Usage() string {
	return `hfl reset <pool>

  Sets the discretionary or the reserved pool back to zero. The primary pool
  cannot be reset, use 'hfl set-balance' instead.
`
}

func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (*resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	pool, err := hfledger.ParsePool(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.ledger.ClearPool(pool); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printChange(s.ledger, fmt.Sprintf("Pool %s reset", pool))
	return subcommands.ExitSuccess
}

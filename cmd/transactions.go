package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/hfledger"
	"github.com/etnz/hfledger/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseAmount parses a decimal amount in the ledger currency.
func parseAmount(s, cur string) (hfledger.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return hfledger.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return hfledger.M(d, cur), nil
}

// resolveID returns the id of the only transaction whose id starts with
// prefix.
func resolveID(l *hfledger.Ledger, prefix string) (string, error) {
	if _, ok := l.Transaction(prefix); ok {
		return prefix, nil
	}
	var found []string
	if prefix != "" {
		for _, tx := range l.Transactions() {
			if strings.HasPrefix(tx.ID, prefix) {
				found = append(found, tx.ID)
			}
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no transaction id starts with %q", hfledger.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous, it matches %d transactions", prefix, len(found))
	}
}

// printChange prints what a command did and the new balances.
func printChange(l *hfledger.Ledger, what string) {
	printMarkdown(what + "\n\n" + renderer.Summary(l))
}

// --- Record Commands ---

// recordCmd records a transaction of a fixed kind, or of the kind given by
// the -k flag when kind is empty.
type recordCmd struct {
	name   string
	kind   hfledger.Kind
	flagK  string
	amount string
	note   string
}

func (c *recordCmd) Name() string { return c.name }
func (c *recordCmd) Synopsis() string {
	if c.kind == "" {
		return "record a transaction of any kind"
	}
	return fmt.Sprintf("record a %s transaction", strings.ToLower(c.kind.Label()))
}
func (c *recordCmd) Usage() string {
	if c.kind == "" {
		return `hfl record -k <kind> -a <amount> [-m <note>]

  Records a transaction of the given kind. See 'hfl topic kinds'.
`
	}
	return fmt.Sprintf(`hfl %s -a <amount> [-m <note>]

  Records a %s. See 'hfl topic kinds' for its effect on pools.
`, c.name, strings.ToLower(c.kind.Label()))
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	if c.kind == "" {
		f.StringVar(&c.flagK, "k", "", "Transaction kind")
	}
	f.StringVar(&c.amount, "a", "", "Amount, a positive decimal number")
	f.StringVar(&c.note, "m", "", "An optional note")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || f.NArg() > 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind := c.kind
	if kind == "" {
		var err error
		if kind, err = hfledger.ParseKind(c.flagK); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	amount, err := parseAmount(c.amount, s.ledger.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	tx, err := s.ledger.Record(kind, amount, c.note)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printChange(s.ledger, renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

// --- Clear Command ---

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "toggle the cleared flag of a bill" }
func (*clearCmd) Usage() string {
	return `hfl clear <id>

  Marks a bill as cleared, or back to pending if it was cleared already.
  Any unambiguous prefix of the id is accepted.
`
}

func (*clearCmd) SetFlags(*flag.FlagSet) {}

func (*clearCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	id, err := resolveID(s.ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := s.ledger.ToggleCleared(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printChange(s.ledger, renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction and undo its effect" }
func (*deleteCmd) Usage() string {
	return `hfl delete <id>

  Deletes a transaction, its effect on pools is exactly reverted.
  Any unambiguous prefix of the id is accepted.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	id, err := resolveID(s.ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	tx, err := s.ledger.Delete(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printChange(s.ledger, "Deleted: "+renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hfledger"
	"github.com/etnz/hfledger/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	kind string
	head int
	tail int
	ids  bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list transactions, most recent first" }
func (*historyCmd) Usage() string {
	return `hfl history [-k <kind>] [-head <n>] [-tail <n>] [-ids]

  Lists transactions from the ledger, most recent first, with options for
  filtering and limiting the output.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "Show only transactions of this kind.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&c.ids, "ids", false, "Print only the full ids, one per line.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	accept := func(hfledger.Transaction) bool { return true }
	if c.kind != "" {
		kind, err := hfledger.ParseKind(c.kind)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		accept = hfledger.ByKind(kind)
	}

	s, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	var transactions []hfledger.Transaction
	for _, tx := range s.ledger.Backward() {
		if accept(tx) {
			transactions = append(transactions, tx)
		}
	}

	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}
	if c.tail > 0 && len(transactions) > c.tail {
		transactions = transactions[len(transactions)-c.tail:]
	}

	if c.ids {
		for _, tx := range transactions {
			fmt.Println(tx.ID)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.History(transactions))
	return subcommands.ExitSuccess
}

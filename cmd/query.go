package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/hfledger"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// queryDoc is the document queried by 'hfl query'.
type queryDoc struct {
	Currency     string                 `json:"currency"`
	Status       hfledger.Status        `json:"status"`
	Balances     hfledger.Balances      `json:"balances"`
	Pending      decimal.Decimal        `json:"pending"`
	Transactions []hfledger.Transaction `json:"transactions"`
	Adjustments  []hfledger.Adjustment  `json:"adjustments"`
}

// queryValue returns the ledger as a generic JSON value, ready for jsonpath.
func queryValue(l *hfledger.Ledger) (any, error) {
	snap := l.Snapshot()
	doc := queryDoc{
		Currency:     l.Currency(),
		Status:       l.Status(),
		Balances:     l.Balances(),
		Pending:      l.PendingTotal().Decimal(),
		Transactions: append(make([]hfledger.Transaction, 0, len(snap.Transactions)), snap.Transactions...),
		Adjustments:  append(make([]hfledger.Adjustment, 0, len(snap.Adjustments)), snap.Adjustments...),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// query evaluates a JSONPath expression against the ledger and returns the
// result as JSON.
func query(l *hfledger.Ledger, expr string) ([]byte, error) {
	v, err := queryValue(l)
	if err != nil {
		return nil, fmt.Errorf("cannot build query document: %w", err)
	}
	result, err := jsonpath.Get(expr, v)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", expr, err)
	}
	return json.Marshal(result)
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extract data from the ledger with JSONPath" }
func (*queryCmd) Usage() string {
	return `hfl query <jsonpath>

  Evaluates a JSONPath expression against the ledger and prints the result as
  JSON. See 'hfl topic query'.

Usage Examples:
$ hfl query '$.balances.primary'
$ hfl query '$.transactions[?(@.command=="bill")].amount'
`
}

func (*queryCmd) SetFlags(*flag.FlagSet) {}

func (*queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	out, err := query(s.ledger, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

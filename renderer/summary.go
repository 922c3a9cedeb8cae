package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/hfledger"
	md "github.com/nao1215/markdown"
)

// Summary renders the pool balances, the pending bills total and the status.
func Summary(l *hfledger.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Balances")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Pool", "Balance"},
		Rows:   [][]string{},
	}
	for _, p := range hfledger.Pools() {
		table.Rows = append(table.Rows, []string{poolLabel(p), l.Balance(p).String()})
	}
	doc.Table(table)
	doc.PlainText("")

	pending := 0
	for _, tx := range l.Transactions() {
		if tx.Pending() {
			pending++
		}
	}
	doc.PlainText(fmt.Sprintf("Pending bills: %s (%d)", l.PendingTotal(), pending))
	doc.PlainText("")
	doc.PlainText(fmt.Sprintf("Status: %s", md.Bold(string(l.Status()))))

	return doc.String()
}

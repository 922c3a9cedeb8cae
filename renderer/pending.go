package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/hfledger"
	md "github.com/nao1215/markdown"
)

// Pending renders the bills not cleared yet, most recent first, and their
// total.
func Pending(l *hfledger.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Pending Bills")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"ID", "Time", "Amount", "Note"},
		Rows:   [][]string{},
	}
	for _, tx := range l.Backward() {
		if !tx.Pending() {
			continue
		}
		line := newLine(tx)
		table.Rows = append(table.Rows, []string{line.ID, line.Time, line.Amount, line.Note})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No pending bills.")
		return doc.String()
	}
	doc.Table(table)
	doc.PlainText("")
	doc.PlainText(fmt.Sprintf("Total pending: %s", l.PendingTotal()))

	return doc.String()
}

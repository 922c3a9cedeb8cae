package renderer

import (
	"bytes"

	"github.com/etnz/hfledger"
	md "github.com/nao1215/markdown"
)

// History renders transactions as a table, in the order they are given.
func History(txs []hfledger.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("History")
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"ID", "Time", "Kind", "Amount", "Cleared", "Note"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		line := newLine(tx)
		table.Rows = append(table.Rows, []string{
			line.ID,
			line.Time,
			line.Kind,
			line.Amount,
			line.Cleared,
			line.Note,
		})
	}
	doc.Table(table)

	return doc.String()
}

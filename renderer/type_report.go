package renderer

import (
	"strings"

	"github.com/etnz/hfledger"
)

// Report is the view of a ledger rendered by the report templates.
type Report struct {
	Currency     string
	Status       string
	Balances     []PoolLine
	PendingTotal string
	Pending      []Line
	Recent       []Line
	Total        int // number of transactions in the ledger.
}

// PoolLine is one row of the balances table.
type PoolLine struct {
	Pool   string
	Amount string
}

// Line is a transaction as displayed in reports.
type Line struct {
	ID      string
	Time    string
	Kind    string
	Amount  string
	Cleared string
	Note    string
}

// NewReport builds the report view of l, with at most n recent transactions.
func NewReport(l *hfledger.Ledger, n int) *Report {
	r := &Report{
		Currency:     l.Currency(),
		Status:       string(l.Status()),
		PendingTotal: l.PendingTotal().String(),
		Total:        l.Len(),
	}
	for _, p := range hfledger.Pools() {
		r.Balances = append(r.Balances, PoolLine{Pool: poolLabel(p), Amount: l.Balance(p).String()})
	}
	for _, tx := range l.Transactions() {
		if tx.Pending() {
			r.Pending = append(r.Pending, newLine(tx))
		}
	}
	for _, tx := range l.Backward() {
		if len(r.Recent) >= n {
			break
		}
		r.Recent = append(r.Recent, newLine(tx))
	}
	return r
}

func newLine(tx hfledger.Transaction) Line {
	return Line{
		ID:      ShortID(tx.ID),
		Time:    tx.Time.Local().Format(timeLayout),
		Kind:    tx.Kind.Label(),
		Amount:  tx.Amount.String(),
		Cleared: cleared(tx),
		Note:    strings.ReplaceAll(tx.Note, "|", `\|`),
	}
}

const timeLayout = "2006-01-02 15:04"

// ShortID returns the prefix of a transaction id used for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func cleared(tx hfledger.Transaction) string {
	switch {
	case !tx.Clearable():
		return ""
	case tx.Cleared:
		return "yes"
	default:
		return "no"
	}
}

func poolLabel(p hfledger.Pool) string {
	switch p {
	case hfledger.Primary:
		return "Primary"
	case hfledger.Discretionary:
		return "Discretionary"
	case hfledger.Reserved:
		return "Reserved"
	default:
		return string(p)
	}
}

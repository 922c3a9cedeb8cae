package hfledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded movement of money between pools.
//
// A Transaction is immutable once recorded, except for the Cleared flag of
// clearable kinds (bills).
type Transaction struct {
	ID      string    // ID uniquely identifies the transaction in its ledger.
	Time    time.Time // Time is when the transaction was recorded.
	Kind    Kind      // Kind selects the effect on pools.
	Amount  Money     // Amount is always positive.
	Note    string    // Note is an optional free text.
	Cleared bool      // Cleared marks a bill as settled against the real account.
}

// Clearable reports whether the transaction carries a cleared flag.
func (t Transaction) Clearable() bool { return t.Kind.Clearable() }

// Pending reports whether the transaction is an outstanding obligation.
func (t Transaction) Pending() bool { return t.Clearable() && !t.Cleared }

// Effect returns the signed change this transaction applied to pool p.
func (t Transaction) Effect(p Pool) Money { return t.Kind.Effect(p, t.Amount) }

// Equal reports whether both transactions hold the same data.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Time.Equal(o.Time) && t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) && t.Note == o.Note && t.Cleared == o.Cleared
}

// String returns a short description like "bill $50.00 (rent)".
func (t Transaction) String() string {
	s := fmt.Sprintf("%s %s", t.Kind, t.Amount)
	if t.Note != "" {
		s += fmt.Sprintf(" (%s)", t.Note)
	}
	return s
}

// MarshalJSON writes the transaction as a single JSON object whose "command"
// is the kind. The currency is held by the ledger, not by each line.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Kind)
	w.Append("id", t.ID)
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	w.Append("amount", t.Amount.Decimal())
	w.Optional("note", t.Note)
	w.Optional("cleared", t.Cleared)
	return w.MarshalJSON()
}

// UnmarshalJSON reads what MarshalJSON writes. The amount has no currency.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command Kind            `json:"command"`
		ID      string          `json:"id"`
		Time    time.Time       `json:"time"`
		Amount  decimal.Decimal `json:"amount"`
		Note    string          `json:"note"`
		Cleared bool            `json:"cleared"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if !temp.Command.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, temp.Command)
	}
	*t = Transaction{
		ID:      temp.ID,
		Time:    temp.Time,
		Kind:    temp.Command,
		Amount:  M(temp.Amount, ""),
		Note:    temp.Note,
		Cleared: temp.Cleared,
	}
	return nil
}

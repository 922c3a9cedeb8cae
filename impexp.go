package hfledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// this file contains functions to handle the format of the first, browser
// based, version of the application: a single JSON object kept in local
// storage.
//
//	{"bank":1000,"wgo":70,"ld":200,"entries":[{"id":"..","ts":"..","type":"bill","amount":50,"note":"rent","cleared":false}]}

type legacyEntry struct {
	ID      string          `json:"id"`
	TS      time.Time       `json:"ts"`
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
	Cleared bool            `json:"cleared"`
}

type legacyStore struct {
	Bank    decimal.Decimal `json:"bank"`
	WGO     decimal.Decimal `json:"wgo"`
	LD      decimal.Decimal `json:"ld"`
	Entries []legacyEntry   `json:"entries"`
}

// legacyTypes maps kinds to their name in the legacy format.
var legacyTypes = map[Kind]string{
	KindDeposit:            "deposit",
	KindBill:               "bill",
	KindDiscretionarySpend: "wgo",
	KindDiscretionaryTopup: "wgo_topup",
	KindReserveFund:        "transfer",
	KindReserveRelease:     "lockdown",
}

// ImportLegacy reads a legacy store into a snapshot in currency cur.
//
// The legacy balances are kept as they are. Because the legacy application
// allowed direct edits of its balances, any difference between them and the
// replayed entries is recorded as an import adjustment. Entries whose amount
// is not positive are dropped, the adjustments account for them too.
func ImportLegacy(r io.Reader, cur string) (*Snapshot, error) {
	var ls legacyStore
	if err := json.NewDecoder(r).Decode(&ls); err != nil {
		return nil, fmt.Errorf("cannot parse legacy store: %w", err)
	}
	if cur == "" {
		cur = DefaultCurrency
	}

	s := &Snapshot{
		Currency: cur,
		Balances: Balances{
			Primary:       M(ls.Bank, cur),
			Discretionary: M(ls.WGO, cur),
			Reserved:      M(ls.LD, cur),
		},
	}

	var errs error
	for i, e := range ls.Entries {
		kind, err := ParseKind(e.Type)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("entry #%d %q: %w", i, e.ID, err))
			continue
		}
		if !e.Amount.IsPositive() {
			// Not a valid transaction, its effect stays in the imported
			// balances through the import adjustments.
			continue
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.Transactions = append(s.Transactions, Transaction{
			ID:      id,
			Time:    e.TS,
			Kind:    kind,
			Amount:  M(e.Amount, cur),
			Note:    e.Note,
			Cleared: e.Cleared && kind.Clearable(),
		})
	}
	if errs != nil {
		return nil, fmt.Errorf("cannot import legacy store: %w", errs)
	}

	// Replaying validates the entries and tells what the log accounts for.
	l, err := FromSnapshot(&Snapshot{Currency: cur, Transactions: s.Transactions})
	if err != nil {
		return nil, fmt.Errorf("cannot import legacy store: %w", err)
	}
	replayed := l.Replay()
	now := time.Now()
	for _, p := range Pools() {
		delta := s.Balances.Get(p).Sub(replayed.Get(p))
		if delta.IsZero() {
			continue
		}
		s.Adjustments = append(s.Adjustments, Adjustment{
			ID:     uuid.NewString(),
			Time:   now,
			Pool:   p,
			Delta:  delta,
			Reason: ReasonImport,
		})
	}
	return s, nil
}

// ExportLegacy writes a snapshot in the legacy format. Adjustments have no
// legacy counterpart, they only survive through the balances.
func ExportLegacy(w io.Writer, s *Snapshot) error {
	ls := legacyStore{
		Bank:    s.Balances.Primary.Decimal(),
		WGO:     s.Balances.Discretionary.Decimal(),
		LD:      s.Balances.Reserved.Decimal(),
		Entries: make([]legacyEntry, 0, len(s.Transactions)),
	}
	for _, tx := range s.Transactions {
		ls.Entries = append(ls.Entries, legacyEntry{
			ID:      tx.ID,
			TS:      tx.Time,
			Type:    legacyTypes[tx.Kind],
			Amount:  tx.Amount.Decimal(),
			Note:    tx.Note,
			Cleared: tx.Cleared,
		})
	}
	if err := json.NewEncoder(w).Encode(ls); err != nil {
		return fmt.Errorf("cannot write legacy store: %w", err)
	}
	return nil
}

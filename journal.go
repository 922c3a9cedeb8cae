package hfledger

import (
	"errors"
	"fmt"
	"iter"
)

// Replay recomputes the balances from a zero state by applying the effect of
// every transaction in the log and every adjustment.
//
// For a consistent ledger Replay returns the current balances.
func (l *Ledger) Replay() Balances {
	return replay(zeroBalances(l.cur), l.Transactions(), l.adjustments)
}

// replay applies the effect of transactions then adjustments to b.
func replay(b Balances, transactions iter.Seq2[int, Transaction], adjustments []Adjustment) Balances {
	for _, tx := range transactions {
		tx.Kind.forward(&b, tx.Amount)
	}
	for _, a := range adjustments {
		b.add(a.Pool, a.Delta)
	}
	return b
}

// Verify checks that the log and the adjustments replay to the current
// balances. The returned error joins one ErrInconsistent per diverging pool.
func (l *Ledger) Verify() error {
	replayed := l.Replay()
	var errs error
	for _, p := range Pools() {
		got, want := l.balances.Get(p), replayed.Get(p)
		if !got.Decimal().Equal(want.Decimal()) {
			errs = errors.Join(errs, fmt.Errorf("%w: %s balance is %s but the journal gives %s", ErrInconsistent, p, got, want))
		}
	}
	return errs
}

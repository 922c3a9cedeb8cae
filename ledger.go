package hfledger

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status is a signal derived from the balances.
type Status string

const (
	// StatusReady means the primary pool is not negative.
	StatusReady Status = "ready"
	// StatusOverAllocated means more was spent or set aside than the primary
	// pool holds.
	StatusOverAllocated Status = "over-allocated"
)

// Ledger owns the pool balances and the ordered log of transactions.
//
// Transactions are kept in insertion order. Deleted transactions leave a nil
// slot that is compacted away once slots are mostly empty, so that deletion
// does not shift the log on every call.
type Ledger struct {
	cur          string
	balances     Balances
	transactions []*Transaction
	index        map[string]int // transaction ID to its slot in transactions.
	adjustments  []Adjustment

	observers []Observer
	warn      func(error)
	log       zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewLedger creates an empty ledger in currency cur, all pools at zero.
// An empty cur means DefaultCurrency.
func NewLedger(cur string) *Ledger {
	if cur == "" {
		cur = DefaultCurrency
	}
	return &Ledger{
		cur:          cur,
		balances:     zeroBalances(cur),
		transactions: make([]*Transaction, 0),
		index:        make(map[string]int),
		log:          zerolog.Nop(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// SetLogger sets the logger used for debug traces and default warnings.
func (l *Ledger) SetLogger(log zerolog.Logger) { l.log = log }

// Currency returns the ledger currency.
func (l *Ledger) Currency() string { return l.cur }

// Balance returns the current balance of pool p.
func (l *Ledger) Balance(p Pool) Money { return l.balances.Get(p) }

// Balances returns the current balance of every pool.
func (l *Ledger) Balances() Balances { return l.balances }

// Status returns StatusOverAllocated when the primary pool is negative.
func (l *Ledger) Status() Status {
	if l.balances.Primary.IsNegative() {
		return StatusOverAllocated
	}
	return StatusReady
}

// Len returns the number of transactions in the log.
func (l *Ledger) Len() int { return len(l.index) }

// checkAmount returns amount in the ledger currency, or an error if it is not
// strictly positive.
func (l *Ledger) checkAmount(amount Money) (Money, error) {
	a, err := amount.in(l.cur)
	if err != nil {
		return a, err
	}
	if !a.IsPositive() {
		return a, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, a.value)
	}
	return a, nil
}

// Record applies the effect of a new transaction to the pools and appends it
// to the log. Nothing changes if the kind or the amount is invalid.
func (l *Ledger) Record(kind Kind, amount Money, note string) (Transaction, error) {
	if !kind.Valid() {
		return Transaction{}, fmt.Errorf("cannot record: %w: %q", ErrUnknownKind, kind)
	}
	a, err := l.checkAmount(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("cannot record %s: %w", kind, err)
	}

	tx := Transaction{
		ID:     l.newID(),
		Time:   l.now(),
		Kind:   kind,
		Amount: a,
		Note:   note,
	}
	kind.forward(&l.balances, a)
	l.append(tx)

	l.log.Debug().Str("id", tx.ID).Str("kind", string(kind)).Stringer("amount", a).Msg("recorded")
	l.notify(Event{Op: OpRecord, Transaction: tx})
	return tx, nil
}

// ToggleCleared flips the cleared flag of a clearable transaction. It has no
// effect on balances.
func (l *Ledger) ToggleCleared(id string) (Transaction, error) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, fmt.Errorf("cannot toggle %q: %w", id, ErrNotFound)
	}
	tx := l.transactions[i]
	if !tx.Clearable() {
		return *tx, fmt.Errorf("cannot toggle %q: %w: %s transactions cannot be cleared", id, ErrUnsupportedOperation, tx.Kind)
	}
	tx.Cleared = !tx.Cleared

	l.log.Debug().Str("id", id).Bool("cleared", tx.Cleared).Msg("toggled")
	l.notify(Event{Op: OpToggle, Transaction: *tx})
	return *tx, nil
}

// Delete applies the inverse effect of a transaction and removes it from the
// log. It returns the removed transaction.
func (l *Ledger) Delete(id string) (Transaction, error) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, fmt.Errorf("cannot delete %q: %w", id, ErrNotFound)
	}
	tx := *l.transactions[i]
	tx.Kind.inverse(&l.balances, tx.Amount)
	l.transactions[i] = nil
	delete(l.index, id)
	l.compact()

	l.log.Debug().Str("id", id).Str("kind", string(tx.Kind)).Msg("deleted")
	l.notify(Event{Op: OpDelete, Transaction: tx})
	return tx, nil
}

// SetPrimaryBalance overrides the primary pool, usually to reconcile it with
// the real account. It does not create a transaction and cannot be deleted.
func (l *Ledger) SetPrimaryBalance(value Money) error {
	v, err := value.in(l.cur)
	if err != nil {
		return fmt.Errorf("cannot set primary balance: %w", err)
	}
	l.override(Primary, v, ReasonSetBalance)
	l.notify(Event{Op: OpSetBalance, Pool: Primary})
	return nil
}

// ClearPool resets a secondary pool to zero. The log is left untouched and the
// reset cannot be reverted.
func (l *Ledger) ClearPool(p Pool) error {
	switch p {
	case Discretionary, Reserved:
	case Primary:
		return fmt.Errorf("cannot clear %s: %w: use SetPrimaryBalance", p, ErrUnsupportedOperation)
	default:
		return fmt.Errorf("cannot clear %q: %w: unknown pool", p, ErrUnsupportedOperation)
	}
	l.override(p, M(0, l.cur), ReasonClearPool)
	l.notify(Event{Op: OpClearPool, Pool: p})
	return nil
}

// override sets pool p to v and keeps the difference as an adjustment.
func (l *Ledger) override(p Pool, v Money, reason Reason) {
	delta := v.Sub(l.balances.Get(p))
	l.balances.set(p, v)
	if delta.IsZero() {
		return
	}
	l.adjustments = append(l.adjustments, Adjustment{
		ID:     l.newID(),
		Time:   l.now(),
		Pool:   p,
		Delta:  delta,
		Reason: reason,
	})
	l.log.Debug().Str("pool", string(p)).Stringer("delta", delta).Str("reason", string(reason)).Msg("override")
}

// PendingTotal returns the sum of all bills not cleared yet.
func (l *Ledger) PendingTotal() Money {
	total := M(0, l.cur)
	for _, tx := range l.transactions {
		if tx != nil && tx.Pending() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Transaction returns the transaction with this id.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	i, ok := l.index[id]
	if !ok {
		return Transaction{}, false
	}
	return *l.transactions[i], true
}

// Transactions returns an iterator that yields each transaction in insertion
// order, with its position in the log.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		i := 0
		for _, tx := range l.transactions {
			if tx == nil {
				continue
			}
			if !yield(i, *tx) {
				return
			}
			i++
		}
	}
}

// Backward returns an iterator over transactions, most recent first, with their
// position in the log. It is the display order, the log itself is unchanged.
func (l *Ledger) Backward() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		i := l.Len() - 1
		for j := len(l.transactions) - 1; j >= 0; j-- {
			tx := l.transactions[j]
			if tx == nil {
				continue
			}
			if !yield(i, *tx) {
				return
			}
			i--
		}
	}
}

// Adjustments returns an iterator over the overrides in the order they were
// made.
func (l *Ledger) Adjustments() iter.Seq[Adjustment] {
	return func(yield func(Adjustment) bool) {
		for _, a := range l.adjustments {
			if !yield(a) {
				return
			}
		}
	}
}

// ByKind returns a predicate that filters transactions by kind.
func ByKind(kinds ...Kind) func(Transaction) bool {
	return func(tx Transaction) bool {
		for _, k := range kinds {
			if tx.Kind == k {
				return true
			}
		}
		return false
	}
}

// append adds a transaction at the end of the log.
func (l *Ledger) append(tx Transaction) {
	l.index[tx.ID] = len(l.transactions)
	l.transactions = append(l.transactions, &tx)
}

// compact drops deleted slots once they outnumber live transactions.
func (l *Ledger) compact() {
	live := len(l.index)
	if len(l.transactions) < 32 || len(l.transactions)-live <= live {
		return
	}
	txs := make([]*Transaction, 0, live)
	for _, tx := range l.transactions {
		if tx != nil {
			l.index[tx.ID] = len(txs)
			txs = append(txs, tx)
		}
	}
	l.transactions = txs
}

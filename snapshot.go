package hfledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Snapshot is the full state of a ledger, as persisted by a Store.
type Snapshot struct {
	Currency     string
	Balances     Balances
	Transactions []Transaction // in insertion order.
	Adjustments  []Adjustment  // in the order they were made.
}

// clone returns a copy that shares nothing mutable with s.
func (s *Snapshot) clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Transactions = slices.Clone(s.Transactions)
	c.Adjustments = slices.Clone(s.Adjustments)
	return &c
}

// Store loads and saves ledger snapshots.
//
// LoadSnapshot returns (nil, nil) when there is no prior state, and an error
// wrapping ErrCorruptSnapshot when the stored state cannot be decoded.
type Store interface {
	LoadSnapshot() (*Snapshot, error)
	SaveSnapshot(s *Snapshot) error
}

// Snapshot returns a copy of the full ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	s := &Snapshot{
		Currency:     l.cur,
		Balances:     l.balances,
		Transactions: make([]Transaction, 0, l.Len()),
		Adjustments:  slices.Clone(l.adjustments),
	}
	for _, tx := range l.Transactions() {
		s.Transactions = append(s.Transactions, tx)
	}
	return s
}

// FromSnapshot rebuilds a ledger from a snapshot. Weak amounts adopt the
// snapshot currency. It fails with ErrCorruptSnapshot when the snapshot breaks
// a ledger invariant (duplicate IDs, non positive amounts, unknown kinds).
func FromSnapshot(s *Snapshot) (*Ledger, error) {
	l := NewLedger(s.Currency)

	var errs error
	for _, p := range Pools() {
		m, err := s.Balances.Get(p).in(l.cur)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s balance: %w", p, err))
			continue
		}
		l.balances.set(p, m)
	}

	for i, tx := range s.Transactions {
		switch {
		case tx.ID == "":
			errs = errors.Join(errs, fmt.Errorf("transaction #%d has no id", i))
			continue
		case !tx.Kind.Valid():
			errs = errors.Join(errs, fmt.Errorf("transaction %q: %w: %q", tx.ID, ErrUnknownKind, tx.Kind))
			continue
		case tx.Cleared && !tx.Clearable():
			errs = errors.Join(errs, fmt.Errorf("transaction %q: %s cannot be cleared", tx.ID, tx.Kind))
			continue
		}
		if _, dup := l.index[tx.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("transaction %q is duplicated", tx.ID))
			continue
		}
		a, err := l.checkAmount(tx.Amount)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("transaction %q: %w", tx.ID, err))
			continue
		}
		tx.Amount = a
		l.append(tx)
	}

	for _, a := range s.Adjustments {
		d, err := a.Delta.in(l.cur)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("adjustment %q: %w", a.ID, err))
			continue
		}
		a.Delta = d
		l.adjustments = append(l.adjustments, a)
	}

	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, errs)
	}
	return l, nil
}

// Load reads the ledger from a store.
//
// Without prior state it returns an empty ledger in currency cur. When the
// stored state is corrupt it also returns an empty ledger, together with the
// error, so that callers can report it and carry on. Any other error is fatal
// and the ledger is nil.
//
// cur only applies to new ledgers and to stored ones that do not record their
// currency, a stored ledger otherwise keeps its own.
func Load(store Store, cur string) (*Ledger, error) {
	s, err := store.LoadSnapshot()
	if err == nil && s != nil {
		if s.Currency == "" {
			s.Currency = cur
		}
		var l *Ledger
		if l, err = FromSnapshot(s); err == nil {
			return l, nil
		}
	}
	switch {
	case err == nil:
		return NewLedger(cur), nil
	case errors.Is(err, ErrCorruptSnapshot):
		return NewLedger(cur), err
	default:
		return nil, err
	}
}

// Autosave returns an observer that saves the full ledger state to store after
// every mutation.
func Autosave(store Store) Observer {
	return ObserverFunc(func(l *Ledger, _ Event) error {
		if err := store.SaveSnapshot(l.Snapshot()); err != nil {
			return fmt.Errorf("cannot save ledger: %w", err)
		}
		return nil
	})
}

// MemStore is a Store that keeps the snapshot in memory.
// Its zero value is an empty store.
type MemStore struct {
	mu    sync.Mutex
	snap  *Snapshot
	saves int
}

// LoadSnapshot returns a copy of the last saved snapshot, nil if none.
func (m *MemStore) LoadSnapshot() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.clone(), nil
}

// SaveSnapshot keeps a copy of s.
func (m *MemStore) SaveSnapshot(s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s.clone()
	m.saves++
	return nil
}

// Saves returns how many times the snapshot was saved.
func (m *MemStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

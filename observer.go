package hfledger

import "fmt"

// Op names a mutating ledger operation.
type Op string

// Mutating operations reported to observers.
const (
	OpRecord     Op = "record"
	OpToggle     Op = "toggle"
	OpDelete     Op = "delete"
	OpSetBalance Op = "set-balance"
	OpClearPool  Op = "clear-pool"
)

// Event describes a mutation that has already been applied to a ledger.
type Event struct {
	Op          Op
	Transaction Transaction // the transaction concerned, zero for overrides.
	Pool        Pool        // the pool concerned by an override, empty otherwise.
	Balances    Balances    // balances after the mutation.
}

// Observer is notified after every successful mutation of a ledger.
//
// An error returned by an observer is a warning: the mutation is not rolled
// back, the error is handed to the ledger's warning handler.
type Observer interface {
	Notify(l *Ledger, e Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(l *Ledger, e Event) error

// Notify calls f(l, e).
func (f ObserverFunc) Notify(l *Ledger, e Event) error { return f(l, e) }

// Subscribe registers observers, they are notified in registration order.
func (l *Ledger) Subscribe(observers ...Observer) {
	l.observers = append(l.observers, observers...)
}

// OnWarning replaces the handler of observer failures. By default warnings
// are logged.
func (l *Ledger) OnWarning(fn func(error)) {
	l.warn = fn
}

func (l *Ledger) notify(e Event) {
	e.Balances = l.balances
	for _, o := range l.observers {
		if err := o.Notify(l, e); err != nil {
			l.warning(fmt.Errorf("after %s: %w", e.Op, err))
		}
	}
}

func (l *Ledger) warning(err error) {
	if l.warn != nil {
		l.warn(err)
		return
	}
	l.log.Warn().Err(err).Msg("ledger observer failed")
}

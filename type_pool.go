package hfledger

import (
	"fmt"
	"strings"
)

// Pool names a scalar balance tracked by the ledger.
type Pool string

// Pools recognized by the ledger.
const (
	// Primary is the main spendable balance, reconciled against a real account.
	Primary Pool = "primary"
	// Discretionary is a prepaid sub-budget funded from Primary.
	Discretionary Pool = "discretionary"
	// Reserved holds funds set aside from Primary.
	Reserved Pool = "reserved"
)

// Pools returns all pools in display order.
func Pools() []Pool { return []Pool{Primary, Discretionary, Reserved} }

// ParsePool parses a pool name. The names used by the first version of the
// application (bank, wgo, ld) are accepted too.
func ParsePool(s string) (Pool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "bank", "checking":
		return Primary, nil
	case "discretionary", "wgo":
		return Discretionary, nil
	case "reserved", "ld", "lockdown":
		return Reserved, nil
	default:
		return "", fmt.Errorf("unknown pool: %q", s)
	}
}

// Balances holds the value of every pool.
type Balances struct {
	Primary       Money
	Discretionary Money
	Reserved      Money
}

// zeroBalances returns balances set to zero in currency cur.
func zeroBalances(cur string) Balances {
	z := M(0, cur)
	return Balances{Primary: z, Discretionary: z, Reserved: z}
}

// Get returns the balance of pool p.
func (b Balances) Get(p Pool) Money {
	switch p {
	case Primary:
		return b.Primary
	case Discretionary:
		return b.Discretionary
	case Reserved:
		return b.Reserved
	default:
		panic("unknown pool " + string(p))
	}
}

// set replaces the balance of pool p.
func (b *Balances) set(p Pool, m Money) {
	switch p {
	case Primary:
		b.Primary = m
	case Discretionary:
		b.Discretionary = m
	case Reserved:
		b.Reserved = m
	default:
		panic("unknown pool " + string(p))
	}
}

// add adds m to pool p.
func (b *Balances) add(p Pool, m Money) { b.set(p, b.Get(p).Add(m)) }

// Equal reports whether both balances hold the same values.
func (b Balances) Equal(o Balances) bool {
	for _, p := range Pools() {
		if !b.Get(p).Decimal().Equal(o.Get(p).Decimal()) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the balances in pool order.
func (b Balances) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, p := range Pools() {
		w.Append(string(p), b.Get(p).Decimal())
	}
	return w.MarshalJSON()
}

package hfledger

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a transaction.
type Kind string

// Transaction kinds.
const (
	KindDeposit            Kind = "deposit"
	KindBill               Kind = "bill"
	KindDiscretionarySpend Kind = "discretionary_spend"
	KindDiscretionaryTopup Kind = "discretionary_topup"
	KindReserveFund        Kind = "reserve_fund"
	KindReserveRelease     Kind = "reserve_release"
)

// leg is one signed movement of a transaction amount on a pool.
type leg struct {
	pool Pool
	sign int64 // +1 credits the pool, -1 debits it.
}

// rule describes everything the ledger knows about a kind.
type rule struct {
	legs      []leg
	clearable bool
	label     string
}

// rules is the effect table. The forward effect of a transaction applies every
// leg, its inverse applies every leg with the opposite sign: both are derived
// from the same row.
var rules = map[Kind]rule{
	KindDeposit: {
		legs:  []leg{{Primary, +1}},
		label: "Deposit",
	},
	KindBill: {
		legs:      []leg{{Primary, -1}},
		clearable: true,
		label:     "Bill",
	},
	KindDiscretionarySpend: {
		legs:  []leg{{Discretionary, -1}},
		label: "Discretionary spend",
	},
	KindDiscretionaryTopup: {
		legs:  []leg{{Primary, -1}, {Discretionary, +1}},
		label: "Discretionary top-up",
	},
	KindReserveFund: {
		legs:  []leg{{Primary, -1}, {Reserved, +1}},
		label: "Reserve fund",
	},
	KindReserveRelease: {
		legs:  []leg{{Reserved, -1}},
		label: "Reserve release",
	},
}

// Kinds returns all known kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindDeposit, KindBill, KindDiscretionarySpend, KindDiscretionaryTopup, KindReserveFund, KindReserveRelease}
}

// ParseKind parses a kind name. The names used by the first version of the
// application are accepted too.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "wgo":
		return KindDiscretionarySpend, nil
	case "wgo_topup":
		return KindDiscretionaryTopup, nil
	case "transfer":
		return KindReserveFund, nil
	case "lockdown":
		return KindReserveRelease, nil
	}
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is in the effect table.
func (k Kind) Valid() bool {
	_, ok := rules[k]
	return ok
}

// Clearable reports whether transactions of this kind carry a cleared flag.
func (k Kind) Clearable() bool { return rules[k].clearable }

// Label returns a human readable name for the kind.
func (k Kind) Label() string {
	if r, ok := rules[k]; ok {
		return r.label
	}
	return string(k)
}

// Pools returns the pools affected by this kind.
func (k Kind) Pools() []Pool {
	var pools []Pool
	for _, l := range rules[k].legs {
		pools = append(pools, l.pool)
	}
	return pools
}

// Effect returns the signed change this kind applies to pool p for an amount a.
// It is zero for unaffected pools.
func (k Kind) Effect(p Pool, a Money) Money {
	delta := M(0, a.cur)
	for _, l := range rules[k].legs {
		if l.pool == p {
			delta = delta.Add(a.Mul(newDecimal(l.sign)))
		}
	}
	return delta
}

// forward applies the effect of an amount a of this kind to b.
func (k Kind) forward(b *Balances, a Money) { k.apply(b, a, +1) }

// inverse undoes the effect of an amount a of this kind on b.
func (k Kind) inverse(b *Balances, a Money) { k.apply(b, a, -1) }

func (k Kind) apply(b *Balances, a Money, direction int64) {
	for _, l := range rules[k].legs {
		b.add(l.pool, a.Mul(newDecimal(l.sign*direction)))
	}
}

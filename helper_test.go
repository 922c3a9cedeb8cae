package hfledger

import (
	"fmt"
	"testing"
	"time"
)

// USD is a helper for test to create dollars from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euros from const
func EUR(v float64) Money { return M(v, "EUR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// newTestLedger returns an empty USD ledger with predictable ids ("tx1",
// "tx2"...) and a clock ticking one minute per call.
func newTestLedger() *Ledger {
	l := NewLedger("USD")
	n := 0
	l.newID = func() string {
		n++
		return fmt.Sprintf("tx%d", n)
	}
	t0 := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		t0 = t0.Add(time.Minute)
		return t0
	}
	return l
}

// mustRecord records a transaction or fails the test.
func mustRecord(t *testing.T, l *Ledger, kind Kind, amount float64, note string) Transaction {
	t.Helper()
	tx, err := l.Record(kind, USD(amount), note)
	if err != nil {
		t.Fatalf("Record(%s, %v) unexpected error: %v", kind, amount, err)
	}
	return tx
}

// assertBalances checks the three pools at once.
func assertBalances(t *testing.T, l *Ledger, primary, discretionary, reserved float64) {
	t.Helper()
	want := Balances{Primary: USD(primary), Discretionary: USD(discretionary), Reserved: USD(reserved)}
	if got := l.Balances(); !got.Equal(want) {
		t.Errorf("balances = {primary:%s discretionary:%s reserved:%s}, want {primary:%s discretionary:%s reserved:%s}",
			got.Primary, got.Discretionary, got.Reserved, want.Primary, want.Discretionary, want.Reserved)
	}
}

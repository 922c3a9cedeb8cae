package hfledger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleSnapshot = `{"command":"balances","currency":"USD","primary":709.5,"discretionary":0,"reserved":200}
{"command":"reserve_fund","id":"tx1","time":"2025-08-01T09:01:00Z","amount":200}
{"command":"bill","id":"tx2","time":"2025-08-01T09:02:00Z","amount":50.5,"note":"power","cleared":true}
{"command":"deposit","id":"tx3","time":"2025-08-01T09:03:00Z","amount":1000}
{"command":"adjust","id":"tx4","time":"2025-08-01T09:04:00Z","pool":"primary","amount":-40,"reason":"set-balance"}
`

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("DecodeSnapshot() unexpected error: %v", err)
	}
	if s.Currency != "USD" {
		t.Errorf("currency = %q, want USD", s.Currency)
	}
	if len(s.Transactions) != 3 || len(s.Adjustments) != 1 {
		t.Fatalf("decoded %d transactions and %d adjustments, want 3 and 1", len(s.Transactions), len(s.Adjustments))
	}
	wantKinds := []Kind{KindReserveFund, KindBill, KindDeposit}
	for i, tx := range s.Transactions {
		if tx.Kind != wantKinds[i] {
			t.Errorf("transaction #%d kind = %q, want %q", i, tx.Kind, wantKinds[i])
		}
	}
	if bill := s.Transactions[1]; !bill.Cleared || bill.Note != "power" {
		t.Errorf("bill = %+v, want cleared with note", bill)
	}
	if a := s.Adjustments[0]; a.Pool != Primary || a.Reason != ReasonSetBalance || !a.Delta.Decimal().Equal(newDecimal(-40)) {
		t.Errorf("adjustment = %+v", a)
	}

	l, err := FromSnapshot(s)
	if err != nil {
		t.Fatalf("FromSnapshot() unexpected error: %v", err)
	}
	if err := l.Verify(); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
	assertBalances(t, l, 709.5, 0, 200)
}

func TestEncodeSnapshot_Stable(t *testing.T) {
	s, err := DecodeSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		t.Fatalf("EncodeSnapshot() unexpected error: %v", err)
	}
	if got := buf.String(); got != sampleSnapshot {
		t.Errorf("decode/encode sequence is not stable got \n%s\n want \n%s\n", got, sampleSnapshot)
	}
}

func TestEncodeSnapshot_RoundTrip(t *testing.T) {
	l := newTestLedger()
	if err := l.SetPrimaryBalance(USD(1234.56)); err != nil {
		t.Fatal(err)
	}
	mustRecord(t, l, KindDiscretionaryTopup, 100, "groceries")
	mustRecord(t, l, KindDiscretionarySpend, 12.34, "")
	bill := mustRecord(t, l, KindBill, 99.99, `quoted "note"`)
	if _, err := l.ToggleCleared(bill.ID); err != nil {
		t.Fatal(err)
	}
	mustRecord(t, l, KindReserveFund, 300, "")
	mustRecord(t, l, KindReserveRelease, 50, "")
	if err := l.ClearPool(Discretionary); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, l.Snapshot()); err != nil {
		t.Fatal(err)
	}
	s, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot() unexpected error: %v", err)
	}
	got, err := FromSnapshot(s)
	if err != nil {
		t.Fatalf("FromSnapshot() unexpected error: %v", err)
	}

	if !got.Balances().Equal(l.Balances()) {
		t.Errorf("balances = %+v, want %+v", got.Balances(), l.Balances())
	}
	if got.Len() != l.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), l.Len())
	}
	for _, want := range l.Transactions() {
		tx, ok := got.Transaction(want.ID)
		if !ok || !tx.Equal(want) {
			t.Errorf("Transaction(%q) = %+v, want %+v", want.ID, tx, want)
		}
	}
	if err := got.Verify(); err != nil {
		t.Errorf("Verify() unexpected error: %v", err)
	}
}

func TestDecodeSnapshot_WithoutHeader(t *testing.T) {
	input := `
{"command":"deposit","id":"a","time":"2025-08-01T09:01:00Z","amount":100}
{"command":"wgo","id":"b","time":"2025-08-01T09:02:00Z","amount":10}

{"command":"discretionary_topup","id":"c","time":"2025-08-01T09:03:00Z","amount":30}
`
	_, err := DecodeSnapshot(strings.NewReader(input))
	if err == nil {
		t.Fatalf("DecodeSnapshot() accepted a legacy kind name")
	}

	input = strings.Replace(input, `"wgo"`, `"discretionary_spend"`, 1)
	s, err := DecodeSnapshot(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeSnapshot() unexpected error: %v", err)
	}
	if s.Currency != "" {
		t.Errorf("currency = %q, want it left to the caller", s.Currency)
	}
	want := Balances{Primary: USD(70), Discretionary: USD(20), Reserved: USD(0)}
	if !s.Balances.Equal(want) {
		t.Errorf("replayed balances = %+v, want %+v", s.Balances, want)
	}
}

func TestDecodeSnapshot_Corrupt(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", "this is not json\n"},
		{"unknown command", `{"command":"gift","id":"a","time":"2025-08-01T09:01:00Z","amount":1}`},
		{"duplicated header", `{"command":"balances","currency":"USD","primary":0,"discretionary":0,"reserved":0}
{"command":"balances","currency":"USD","primary":0,"discretionary":0,"reserved":0}`},
		{"bad amount", `{"command":"bill","id":"a","time":"2025-08-01T09:01:00Z","amount":"lots"}`},
		{"bad pool", `{"command":"adjust","id":"a","time":"2025-08-01T09:01:00Z","pool":"savings","amount":1}`},
		{"duplicated id", `{"command":"bill","id":"a","time":"2025-08-01T09:01:00Z","amount":1}
{"command":"bill","id":"a","time":"2025-08-01T09:01:00Z","amount":1}`},
		{"negative amount", `{"command":"bill","id":"a","time":"2025-08-01T09:01:00Z","amount":-1}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(tc.input))
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("DecodeSnapshot() error = %v, want ErrCorruptSnapshot", err)
			}
		})
	}
}

package hfledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := FileStore{Path: filepath.Join(dir, "sub", "ledger.jsonl")}

	snap, err := store.LoadSnapshot()
	if err != nil || snap != nil {
		t.Fatalf("LoadSnapshot() on a missing file = %v, %v, want nil, nil", snap, err)
	}

	l := newTestLedger()
	l.Subscribe(Autosave(store))
	mustRecord(t, l, KindReserveFund, 25, "")
	mustRecord(t, l, KindBill, 5, "coffee")

	reloaded, err := Load(store, "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reloaded.Balances().Equal(l.Balances()) || reloaded.Len() != 2 {
		t.Errorf("reloaded ledger does not match the saved one")
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("found %d files next to the ledger, temporary files must be removed", len(entries))
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	if err := os.WriteFile(path, []byte("{\"command\":\"balances\"\ngarbage\n"), 0644); err != nil {
		t.Fatal(err)
	}
	store := FileStore{Path: path}

	if _, err := store.LoadSnapshot(); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("LoadSnapshot() error = %v, want ErrCorruptSnapshot", err)
	}
	l, err := Load(store, "EUR")
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("Load() error = %v, want ErrCorruptSnapshot", err)
	}
	if l == nil || l.Currency() != "EUR" || l.Len() != 0 {
		t.Errorf("Load() should fall back to an empty EUR ledger")
	}
}

func TestFileStore_EmptyPath(t *testing.T) {
	if err := (FileStore{}).SaveSnapshot(NewLedger("").Snapshot()); err == nil {
		t.Errorf("SaveSnapshot() with an empty path should fail")
	}
}

func TestFileStore_LongNote(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), "ledger.jsonl")}
	l := newTestLedger()
	l.OnWarning(func(err error) { t.Errorf("unexpected warning: %v", err) })
	l.Subscribe(Autosave(store))
	mustRecord(t, l, KindDeposit, 100, "salary")
	note := strings.Repeat("n", 70000)
	bill := mustRecord(t, l, KindBill, 20, note)

	reloaded, err := Load(store, "USD")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	got, ok := reloaded.Transaction(bill.ID)
	if !ok || got.Note != note {
		t.Errorf("the long note did not survive a save and load")
	}
	assertBalances(t, reloaded, 80, 0, 0)
}

func TestFileStore_WithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	content := `{"command":"deposit","id":"a","time":"2025-08-01T09:01:00Z","amount":100}
{"command":"bill","id":"b","time":"2025-08-01T09:02:00Z","amount":40}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(FileStore{Path: path}, "EUR")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if l.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want the requested EUR", l.Currency())
	}
	if got, want := l.Balance(Primary), EUR(60); !got.Equal(want) {
		t.Errorf("primary = %s, want %s", got, want)
	}
}

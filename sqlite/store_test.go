package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/etnz/hfledger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func usd(v float64) hfledger.Money { return hfledger.M(v, "USD") }

func TestStore_Empty(t *testing.T) {
	s, _ := openTestStore(t)

	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)

	l, err := hfledger.Load(s, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", l.Currency())
	assert.Zero(t, l.Len())
}

func TestStore_RoundTrip(t *testing.T) {
	s, path := openTestStore(t)

	l := hfledger.NewLedger("USD")
	l.Subscribe(hfledger.Autosave(s))
	var warnings []error
	l.OnWarning(func(err error) { warnings = append(warnings, err) })

	require.NoError(t, l.SetPrimaryBalance(usd(1000)))
	_, err := l.Record(hfledger.KindReserveFund, usd(200), "holidays")
	require.NoError(t, err)
	bill, err := l.Record(hfledger.KindBill, usd(49.99), "power")
	require.NoError(t, err)
	_, err = l.ToggleCleared(bill.ID)
	require.NoError(t, err)
	_, err = l.Record(hfledger.KindDiscretionaryTopup, usd(80), "")
	require.NoError(t, err)
	require.NoError(t, l.ClearPool(hfledger.Discretionary))
	require.Empty(t, warnings)

	// Reopen the database from disk.
	require.NoError(t, s.Close())
	s2, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s2.Close()

	got, err := hfledger.Load(s2, "")
	require.NoError(t, err)

	assert.Equal(t, "USD", got.Currency())
	assert.True(t, got.Balances().Equal(l.Balances()), "balances %+v, want %+v", got.Balances(), l.Balances())
	require.Equal(t, l.Len(), got.Len())
	for _, want := range l.Transactions() {
		tx, ok := got.Transaction(want.ID)
		require.True(t, ok, "missing transaction %s", want.ID)
		assert.True(t, tx.Equal(want), "transaction %+v, want %+v", tx, want)
	}
	assert.NoError(t, got.Verify())

	// Insertion order survives.
	var ids, wantIDs []string
	for _, tx := range got.Transactions() {
		ids = append(ids, tx.ID)
	}
	for _, tx := range l.Transactions() {
		wantIDs = append(wantIDs, tx.ID)
	}
	assert.Equal(t, wantIDs, ids)
}

func TestStore_SaveReplaces(t *testing.T) {
	s, _ := openTestStore(t)

	l := hfledger.NewLedger("USD")
	l.Subscribe(hfledger.Autosave(s))
	first, err := l.Record(hfledger.KindDeposit, usd(10), "")
	require.NoError(t, err)
	_, err = l.Record(hfledger.KindDeposit, usd(20), "")
	require.NoError(t, err)
	_, err = l.Delete(first.ID)
	require.NoError(t, err)

	snap, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.True(t, snap.Balances.Primary.Equal(usd(20)))
}

func TestStore_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		stmt string
	}{
		{"bad amount", `UPDATE transactions SET amount = 'lots'`},
		{"unknown kind", `UPDATE transactions SET kind = 'gift'`},
		{"bad time", `UPDATE transactions SET time = 'yesterday'`},
		{"unknown pool", `UPDATE adjustments SET pool = 'savings'`},
		{"missing pool", `DELETE FROM pools WHERE name = 'reserved'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openTestStore(t)
			l := hfledger.NewLedger("USD")
			l.Subscribe(hfledger.Autosave(s))
			_, err := l.Record(hfledger.KindBill, usd(5), "")
			require.NoError(t, err)
			require.NoError(t, l.SetPrimaryBalance(usd(100)))

			_, err = s.db.Exec(tt.stmt)
			require.NoError(t, err)

			_, err = s.LoadSnapshot()
			assert.ErrorIs(t, err, hfledger.ErrCorruptSnapshot)

			fresh, err := hfledger.Load(s, "USD")
			assert.ErrorIs(t, err, hfledger.ErrCorruptSnapshot)
			require.NotNil(t, fresh)
			assert.Zero(t, fresh.Len())
		})
	}
}

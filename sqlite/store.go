// Package sqlite persists ledger snapshots in a SQLite database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/hfledger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store is a hfledger.Store backed by a SQLite database.
//
// Amounts are stored as decimal text, times as RFC 3339 text, so that nothing
// is lost through floating point columns.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debug().Str("path", path).Msg("sqlite store opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pools (
			name    TEXT PRIMARY KEY,
			balance TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			seq     INTEGER PRIMARY KEY,
			id      TEXT NOT NULL UNIQUE,
			time    TEXT NOT NULL,
			kind    TEXT NOT NULL,
			amount  TEXT NOT NULL,
			note    TEXT NOT NULL DEFAULT '',
			cleared INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS adjustments (
			seq    INTEGER PRIMARY KEY,
			id     TEXT NOT NULL,
			time   TEXT NOT NULL,
			pool   TEXT NOT NULL,
			amount TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:30], err)
		}
	}
	return nil
}

const metaCurrency = "currency"

// LoadSnapshot reads the whole ledger. A database that was never saved holds
// no prior state.
func (s *Store) LoadSnapshot() (*hfledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaCurrency).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read currency: %w", err)
	}

	snap := &hfledger.Snapshot{Currency: cur}
	if err := s.loadPools(snap); err != nil {
		return nil, err
	}
	if err := s.loadTransactions(snap); err != nil {
		return nil, err
	}
	if err := s.loadAdjustments(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadPools(snap *hfledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT name, balance FROM pools`)
	if err != nil {
		return fmt.Errorf("query pools: %w", err)
	}
	defer rows.Close()

	values := make(map[hfledger.Pool]hfledger.Money)
	for rows.Next() {
		var name, balance string
		if err := rows.Scan(&name, &balance); err != nil {
			return fmt.Errorf("scan pool: %w", err)
		}
		p, err := hfledger.ParsePool(name)
		if err != nil {
			return fmt.Errorf("%w: %w", hfledger.ErrCorruptSnapshot, err)
		}
		m, err := parseAmount(balance, snap.Currency)
		if err != nil {
			return fmt.Errorf("%w: pool %s: %w", hfledger.ErrCorruptSnapshot, p, err)
		}
		values[p] = m
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query pools: %w", err)
	}

	for _, p := range hfledger.Pools() {
		if _, ok := values[p]; !ok {
			return fmt.Errorf("%w: missing %s pool", hfledger.ErrCorruptSnapshot, p)
		}
	}
	snap.Balances = hfledger.Balances{
		Primary:       values[hfledger.Primary],
		Discretionary: values[hfledger.Discretionary],
		Reserved:      values[hfledger.Reserved],
	}
	return nil
}

func (s *Store) loadTransactions(snap *hfledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT id, time, kind, amount, note, cleared FROM transactions ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, ts, kind, amount, note string
		var cleared bool
		if err := rows.Scan(&id, &ts, &kind, &amount, &note, &cleared); err != nil {
			return fmt.Errorf("%w: scan transaction: %w", hfledger.ErrCorruptSnapshot, err)
		}
		k := hfledger.Kind(kind)
		if !k.Valid() {
			return fmt.Errorf("%w: transaction %q: %w: %q", hfledger.ErrCorruptSnapshot, id, hfledger.ErrUnknownKind, kind)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return fmt.Errorf("%w: transaction %q: %w", hfledger.ErrCorruptSnapshot, id, err)
		}
		m, err := parseAmount(amount, snap.Currency)
		if err != nil {
			return fmt.Errorf("%w: transaction %q: %w", hfledger.ErrCorruptSnapshot, id, err)
		}
		snap.Transactions = append(snap.Transactions, hfledger.Transaction{
			ID:      id,
			Time:    t,
			Kind:    k,
			Amount:  m,
			Note:    note,
			Cleared: cleared,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	return nil
}

func (s *Store) loadAdjustments(snap *hfledger.Snapshot) error {
	rows, err := s.db.Query(`SELECT id, time, pool, amount, reason FROM adjustments ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("query adjustments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, ts, pool, amount, reason string
		if err := rows.Scan(&id, &ts, &pool, &amount, &reason); err != nil {
			return fmt.Errorf("%w: scan adjustment: %w", hfledger.ErrCorruptSnapshot, err)
		}
		p, err := hfledger.ParsePool(pool)
		if err != nil {
			return fmt.Errorf("%w: adjustment %q: %w", hfledger.ErrCorruptSnapshot, id, err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return fmt.Errorf("%w: adjustment %q: %w", hfledger.ErrCorruptSnapshot, id, err)
		}
		m, err := parseAmount(amount, snap.Currency)
		if err != nil {
			return fmt.Errorf("%w: adjustment %q: %w", hfledger.ErrCorruptSnapshot, id, err)
		}
		snap.Adjustments = append(snap.Adjustments, hfledger.Adjustment{
			ID:     id,
			Time:   t,
			Pool:   p,
			Delta:  m,
			Reason: hfledger.Reason(reason),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query adjustments: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored ledger in a single SQL transaction.
func (s *Store) SaveSnapshot(snap *hfledger.Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"pools", "transactions", "adjustments"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, metaCurrency, snap.Currency); err != nil {
		return fmt.Errorf("save currency: %w", err)
	}

	for _, p := range hfledger.Pools() {
		if _, err := tx.Exec(`INSERT INTO pools (name, balance) VALUES (?, ?)`, string(p), snap.Balances.Get(p).Decimal().String()); err != nil {
			return fmt.Errorf("save %s pool: %w", p, err)
		}
	}

	insertTx, err := tx.Prepare(`INSERT INTO transactions (seq, id, time, kind, amount, note, cleared) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transactions: %w", err)
	}
	defer insertTx.Close()
	for i, t := range snap.Transactions {
		if _, err := insertTx.Exec(i, t.ID, formatTime(t.Time), string(t.Kind), t.Amount.Decimal().String(), t.Note, t.Cleared); err != nil {
			return fmt.Errorf("save transaction %q: %w", t.ID, err)
		}
	}

	insertAdj, err := tx.Prepare(`INSERT INTO adjustments (seq, id, time, pool, amount, reason) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare adjustments: %w", err)
	}
	defer insertAdj.Close()
	for i, a := range snap.Adjustments {
		if _, err := insertAdj.Exec(i, a.ID, formatTime(a.Time), string(a.Pool), a.Delta.Decimal().String(), string(a.Reason)); err != nil {
			return fmt.Errorf("save adjustment %q: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug().Int("transactions", len(snap.Transactions)).Int("adjustments", len(snap.Adjustments)).Msg("sqlite snapshot saved")
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseAmount(s, cur string) (hfledger.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return hfledger.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return hfledger.M(d, cur), nil
}

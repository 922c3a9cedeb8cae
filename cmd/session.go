package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/hfledger"
	"github.com/etnz/hfledger/config"
	"github.com/etnz/hfledger/logger"
	"github.com/etnz/hfledger/sqlite"
	"github.com/rs/zerolog"
)

// session holds what a command needs to work on the ledger.
type session struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  hfledger.Store
	closer io.Closer // closes the store, if needed.
	ledger *hfledger.Ledger
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Store.Path = *ledgerFile
	}
	if *defaultCurrency != "" {
		cfg.Currency = strings.ToUpper(*defaultCurrency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSession opens the configured store, without loading the ledger.
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if *Verbose {
		level = zerolog.DebugLevel
	}
	s := &session{cfg: cfg, log: logger.NewConsole(level)}

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath, s.log)
		if err != nil {
			return nil, err
		}
		s.store, s.closer = db, db
	case config.DriverMemory:
		s.store = &hfledger.MemStore{}
	default:
		s.store = hfledger.FileStore{Path: cfg.Store.Path}
	}
	s.log.Debug().Str("driver", cfg.Store.Driver).Str("location", s.location()).Msg("store opened")
	return s, nil
}

// location describes where the ledger is stored.
func (s *session) location() string {
	switch s.cfg.Store.Driver {
	case config.DriverSQLite:
		return s.cfg.Store.SQLitePath
	case config.DriverMemory:
		return "memory"
	default:
		return s.cfg.Store.Path
	}
}

// load reads the ledger. A corrupt store is reported and the ledger starts
// empty. Every change is then saved, failures are reported as warnings.
func (s *session) load() error {
	l, err := hfledger.Load(s.store, s.cfg.Currency)
	if err != nil && !errors.Is(err, hfledger.ErrCorruptSnapshot) {
		return fmt.Errorf("cannot load ledger from %s: %w", s.location(), err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: starting with an empty ledger: %v\n", err)
	}
	l.SetLogger(s.log)
	l.OnWarning(func(err error) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	})
	l.Subscribe(hfledger.Autosave(s.store))
	s.ledger = l
	return nil
}

// Close releases the store.
func (s *session) Close() {
	if s.closer == nil {
		return
	}
	if err := s.closer.Close(); err != nil {
		s.log.Warn().Err(err).Msg("cannot close store")
	}
}

// loadLedger opens a session and loads the ledger.
func loadLedger() (*session, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// openLedger loads the ledger and warns if it is not consistent.
func openLedger() (*session, error) {
	s, err := loadLedger()
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return s, nil
}

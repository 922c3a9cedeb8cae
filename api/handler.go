package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/etnz/hfledger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var errBadRequest = errors.New("bad request")

// Handler serves one ledger. Calls are serialized, the ledger has a single
// writer.
type Handler struct {
	mu       sync.Mutex
	ledger   *hfledger.Ledger
	warnings []string
	log      zerolog.Logger
}

// NewHandler takes over the warnings of l: they are logged and returned with
// the response of the request that caused them.
func NewHandler(l *hfledger.Ledger, log zerolog.Logger) *Handler {
	h := &Handler{ledger: l, log: log}
	l.OnWarning(func(err error) {
		h.log.Warn().Err(err).Msg("ledger warning")
		h.warnings = append(h.warnings, err.Error())
	})
	return h
}

// LedgerView is the state of the ledger.
type LedgerView struct {
	Currency     string            `json:"currency"`
	Status       hfledger.Status   `json:"status"`
	Balances     hfledger.Balances `json:"balances"`
	PendingTotal decimal.Decimal   `json:"pending"`
	PendingCount int               `json:"pending_count"`
}

// TransactionRequest is the body of a new transaction.
type TransactionRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// BalanceRequest is the body of a balance override.
type BalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// do runs fn under the lock and writes its result with the warnings it raised.
func (h *Handler) do(w http.ResponseWriter, status int, fn func(l *hfledger.Ledger) (any, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = nil

	data, err := fn(h.ledger)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeSuccess(w, status, data, h.warnings)
}

func (h *Handler) view(l *hfledger.Ledger) LedgerView {
	v := LedgerView{
		Currency:     l.Currency(),
		Status:       l.Status(),
		Balances:     l.Balances(),
		PendingTotal: l.PendingTotal().Decimal(),
	}
	for _, tx := range l.Transactions() {
		if tx.Pending() {
			v.PendingCount++
		}
	}
	return v
}

func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		return h.view(l), nil
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		txs := make([]hfledger.Transaction, 0, l.Len())
		for _, tx := range l.Backward() {
			txs = append(txs, tx)
		}
		return txs, nil
	})
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid json: %v", errBadRequest, err))
		return
	}
	h.do(w, http.StatusCreated, func(l *hfledger.Ledger) (any, error) {
		kind, err := hfledger.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		return l.Record(kind, hfledger.M(req.Amount, l.Currency()), req.Note)
	})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		return l.ToggleCleared(id)
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		return l.Delete(id)
	})
}

func (h *Handler) setPrimary(w http.ResponseWriter, r *http.Request) {
	var req BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid json: %v", errBadRequest, err))
		return
	}
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		if err := l.SetPrimaryBalance(hfledger.M(req.Amount, l.Currency())); err != nil {
			return nil, err
		}
		return h.view(l), nil
	})
}

func (h *Handler) clearPool(w http.ResponseWriter, r *http.Request) {
	pool, err := hfledger.ParsePool(chi.URLParam(r, "pool"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.do(w, http.StatusOK, func(l *hfledger.Ledger) (any, error) {
		if err := l.ClearPool(pool); err != nil {
			return nil, err
		}
		return h.view(l), nil
	})
}

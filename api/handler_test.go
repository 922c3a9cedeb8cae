package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/hfledger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Data     json.RawMessage `json:"data"`
	Warnings []string        `json:"warnings"`
	Error    string          `json:"error"`
}

type failingStore struct{ hfledger.MemStore }

func (*failingStore) SaveSnapshot(*hfledger.Snapshot) error { return errors.New("disk full") }

func newServer(t *testing.T, store hfledger.Store) (*httptest.Server, *hfledger.Ledger) {
	t.Helper()
	l, err := hfledger.Load(store, "USD")
	require.NoError(t, err)
	l.Subscribe(hfledger.Autosave(store))
	srv := httptest.NewServer(NewRouter(NewHandler(l, zerolog.Nop())))
	t.Cleanup(srv.Close)
	return srv, l
}

func send(t *testing.T, srv *httptest.Server, method, path, body string) (int, response) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var env response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t, &hfledger.MemStore{})
	status, env := send(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"ok"`, string(env.Data))
}

func TestRecordAndLedger(t *testing.T) {
	store := &hfledger.MemStore{}
	srv, l := newServer(t, store)

	status, env := send(t, srv, http.MethodPost, "/v1/transactions", `{"kind":"deposit","amount":1000}`)
	require.Equal(t, http.StatusCreated, status, env.Error)
	status, env = send(t, srv, http.MethodPost, "/v1/transactions", `{"kind":"bill","amount":"250.50","note":"rent"}`)
	require.Equal(t, http.StatusCreated, status, env.Error)

	var tx struct {
		Command string  `json:"command"`
		ID      string  `json:"id"`
		Amount  float64 `json:"amount"`
		Note    string  `json:"note"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, "bill", tx.Command)
	assert.Equal(t, 250.5, tx.Amount)
	assert.Equal(t, "rent", tx.Note)
	assert.Empty(t, env.Warnings)
	assert.Equal(t, 2, store.Saves())

	status, env = send(t, srv, http.MethodGet, "/v1/ledger", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{
		"currency":"USD",
		"status":"ready",
		"balances":{"primary":749.5,"discretionary":0,"reserved":0},
		"pending":250.5,
		"pending_count":1
	}`, string(env.Data))

	status, env = send(t, srv, http.MethodGet, "/v1/transactions", "")
	require.Equal(t, http.StatusOK, status)
	var txs []struct {
		Command string `json:"command"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, "bill", txs[0].Command, "most recent first")
	assert.Equal(t, 2, l.Len())
}

func TestToggleAndDelete(t *testing.T) {
	srv, l := newServer(t, &hfledger.MemStore{})
	bill, err := l.Record(hfledger.KindBill, hfledger.M(40, "USD"), "phone")
	require.NoError(t, err)
	deposit, err := l.Record(hfledger.KindDeposit, hfledger.M(100, "USD"), "")
	require.NoError(t, err)

	status, env := send(t, srv, http.MethodPost, "/v1/transactions/"+bill.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, status, env.Error)
	tx, _ := l.Transaction(bill.ID)
	assert.True(t, tx.Cleared)

	status, env = send(t, srv, http.MethodPost, "/v1/transactions/"+deposit.ID+"/toggle", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, env.Error)

	status, _ = send(t, srv, http.MethodDelete, "/v1/transactions/"+deposit.ID, "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, l.Balance(hfledger.Primary).Equal(hfledger.M(-40, "USD")))

	status, _ = send(t, srv, http.MethodDelete, "/v1/transactions/"+deposit.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPools(t *testing.T) {
	srv, l := newServer(t, &hfledger.MemStore{})
	_, err := l.Record(hfledger.KindReserveFund, hfledger.M(80, "USD"), "")
	require.NoError(t, err)

	status, env := send(t, srv, http.MethodPut, "/v1/pools/primary", `{"amount":500}`)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.True(t, l.Balance(hfledger.Primary).Equal(hfledger.M(500, "USD")))

	status, env = send(t, srv, http.MethodPost, "/v1/pools/ld/clear", "")
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.True(t, l.Balance(hfledger.Reserved).IsZero())
	require.NoError(t, l.Verify())

	status, _ = send(t, srv, http.MethodPost, "/v1/pools/primary/clear", "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = send(t, srv, http.MethodPost, "/v1/pools/savings/clear", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBadRequests(t *testing.T) {
	srv, l := newServer(t, &hfledger.MemStore{})

	for _, body := range []string{
		`{"kind":"deposit","amount":-5}`,
		`{"kind":"deposit","amount":0}`,
		`{"kind":"refund","amount":5}`,
		`{"kind":"deposit","amount":`,
	} {
		status, env := send(t, srv, http.MethodPost, "/v1/transactions", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.NotEmpty(t, env.Error, body)
	}
	assert.Equal(t, 0, l.Len())

	status, _ := send(t, srv, http.MethodPut, "/v1/pools/primary", `nope`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWarnings(t *testing.T) {
	srv, l := newServer(t, &failingStore{})

	status, env := send(t, srv, http.MethodPost, "/v1/transactions", `{"kind":"deposit","amount":10}`)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, env.Warnings, 1)
	assert.Contains(t, env.Warnings[0], "disk full")
	assert.Equal(t, 1, l.Len(), "the mutation is kept")

	// Warnings belong to the request that raised them.
	status, env = send(t, srv, http.MethodGet, "/v1/ledger", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.Warnings)
}

package state_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stateHandler "github.com/nrchamb/QBDTestTool/internal/http/state"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

func newTestRouter(initial state.AppState) (chi.Router, *state.Store) {
	store := state.NewStore(initial)
	r := chi.NewRouter()
	stateHandler.NewHandler(store).Routes(r)
	return r, store
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Summary(t *testing.T) {
	r, _ := newTestRouter(state.AppState{
		Customers: []state.Customer{{Name: "Test Customer"}},
		Invoices:  []state.InvoiceRecord{{TxnID: "INV-1"}, {TxnID: "INV-2"}},
	})

	rec := doJSON(t, r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 1, got["customers"])
	assert.EqualValues(t, 2, got["invoices"])
	assert.EqualValues(t, false, got["monitoring_active"])
}

func TestHandler_AddCustomer(t *testing.T) {
	r, store := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPost, "/customers", `{"list_id": "L1", "name": "New Customer", "email": "new@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	s := store.State()
	require.Len(t, s.Customers, 1)
	assert.Equal(t, "New Customer", s.Customers[0].Name)
	assert.True(t, s.Customers[0].CreatedByApp)
	assert.False(t, s.Customers[0].CreatedAt.IsZero())
}

func TestHandler_AddCustomerRequiresName(t *testing.T) {
	r, store := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPost, "/customers", `{"list_id": "L1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.State().Customers)
}

func TestHandler_AddTransaction(t *testing.T) {
	r, store := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPost, "/transactions", `{
		"kind": "invoice",
		"txn_id": "INV-1",
		"ref_number": "1001",
		"customer_name": "Test Customer",
		"amount": "500.00",
		"memo": "first memo"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	s := store.State()
	require.Len(t, s.Invoices, 1)
	inv := s.Invoices[0]
	assert.Equal(t, "INV-1", inv.TxnID)
	assert.Equal(t, state.StatusOpen, inv.Status)
	assert.Equal(t, "first memo", inv.InitialMemo)
	// The balance starts at the full amount.
	assert.True(t, inv.Amount.Equal(inv.BalanceRemaining))
	assert.True(t, decimal.RequireFromString("500.00").Equal(inv.Amount))
}

func TestHandler_AddTransactionDuplicate(t *testing.T) {
	r, store := newTestRouter(state.AppState{
		Invoices: []state.InvoiceRecord{{TxnID: "INV-1", RefNumber: "1001"}},
	})

	rec := doJSON(t, r, http.MethodPost, "/transactions", `{"kind": "invoice", "txn_id": "INV-1", "amount": "10"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, store.State().Invoices, 1)
}

func TestHandler_AddStatementChargeDefaultsCompleted(t *testing.T) {
	r, store := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPost, "/transactions", `{"kind": "statement_charge", "txn_id": "SC-1", "amount": "25"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	s := store.State()
	require.Len(t, s.StatementCharges, 1)
	assert.Equal(t, state.StatusCompleted, s.StatementCharges[0].Status)
}

func TestHandler_ListTransactions(t *testing.T) {
	r, _ := newTestRouter(state.AppState{
		SalesReceipts: []state.SalesReceiptRecord{
			{TxnID: "SR-1", RefNumber: "2001", Amount: decimal.RequireFromString("75.50")},
		},
	})

	rec := doJSON(t, r, http.MethodGet, "/transactions/sales_receipt", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "SR-1", got[0]["txn_id"])
	assert.Equal(t, "2001", got[0]["ref_number"])

	rec = doJSON(t, r, http.MethodGet, "/transactions/bogus", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateTransaction(t *testing.T) {
	r, store := newTestRouter(state.AppState{
		Invoices: []state.InvoiceRecord{{
			TxnID:            "INV-1",
			RefNumber:        "1001",
			Amount:           decimal.RequireFromString("500"),
			BalanceRemaining: decimal.RequireFromString("500"),
			Status:           state.StatusOpen,
			EditSequence:     "100",
		}},
	})

	rec := doJSON(t, r, http.MethodPatch, "/transactions/invoice/INV-1", `{
		"status": "closed",
		"balance_remaining": "0",
		"edit_sequence": "101"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	s := store.State()
	require.Len(t, s.Invoices, 1)
	inv := s.Invoices[0]
	assert.Equal(t, state.StatusClosed, inv.Status)
	assert.True(t, decimal.Zero.Equal(inv.BalanceRemaining))
	assert.Equal(t, "101", inv.EditSequence)
	// Fields not in the request keep their values.
	assert.Equal(t, "1001", inv.RefNumber)
	assert.True(t, decimal.RequireFromString("500").Equal(inv.Amount))
}

func TestHandler_UpdateTransactionNotFound(t *testing.T) {
	r, _ := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPatch, "/transactions/invoice/MISSING", `{"status": "closed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SetDepositAccount(t *testing.T) {
	r, store := newTestRouter(state.AppState{})

	rec := doJSON(t, r, http.MethodPut, "/deposit-account", `{"account": "Undeposited Funds"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Undeposited Funds", store.State().ExpectedDepositAccount)
}

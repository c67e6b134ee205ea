package state

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nrchamb/QBDTestTool/internal/state"
)

// Handler exposes the store's collections and the ADD/UPDATE action
// surface over HTTP. Uniqueness of txn_id within a kind is enforced
// here, before dispatch: the reducer trusts payload identity.
type Handler struct {
	store *state.Store
}

func NewHandler(store *state.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/customers", h.listCustomers)
	r.Post("/customers", h.addCustomer)
	r.Get("/transactions/{kind}", h.listTransactions)
	r.Post("/transactions", h.addTransaction)
	r.Patch("/transactions/{kind}/{txnID}", h.updateTransaction)
	r.Put("/deposit-account", h.setDepositAccount)
}

type summaryResponse struct {
	Customers              int       `json:"customers"`
	Invoices               int       `json:"invoices"`
	SalesReceipts          int       `json:"sales_receipts"`
	StatementCharges       int       `json:"statement_charges"`
	VerificationResults    int       `json:"verification_results"`
	MonitoringActive       bool      `json:"monitoring_active"`
	LastSync               time.Time `json:"last_sync,omitzero"`
	ExpectedDepositAccount string    `json:"expected_deposit_account"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s := h.store.State()

	writeJSON(w, http.StatusOK, summaryResponse{
		Customers:              len(s.Customers),
		Invoices:               len(s.Invoices),
		SalesReceipts:          len(s.SalesReceipts),
		StatementCharges:       len(s.StatementCharges),
		VerificationResults:    len(s.VerificationResults),
		MonitoringActive:       s.MonitoringActive,
		LastSync:               s.LastSync,
		ExpectedDepositAccount: s.ExpectedDepositAccount,
	})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	s := h.store.State()

	out := make([]customerResponse, 0, len(s.Customers))
	for _, c := range s.Customers {
		out = append(out, toCustomerResponse(c))
	}

	writeJSON(w, http.StatusOK, out)
}

type addCustomerRequest struct {
	ListID   string `json:"list_id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req addCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	customer := state.Customer{
		ListID:       req.ListID,
		Name:         req.Name,
		FullName:     req.FullName,
		Email:        req.Email,
		CreatedByApp: true,
		CreatedAt:    time.Now(),
	}

	h.store.Dispatch(state.AddCustomer{Customer: customer})

	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	kind := state.TxnKind(chi.URLParam(r, "kind"))
	s := h.store.State()

	switch kind {
	case state.KindInvoice:
		out := make([]transactionResponse, 0, len(s.Invoices))
		for _, inv := range s.Invoices {
			out = append(out, toInvoiceResponse(inv))
		}
		writeJSON(w, http.StatusOK, out)
	case state.KindSalesReceipt:
		out := make([]transactionResponse, 0, len(s.SalesReceipts))
		for _, sr := range s.SalesReceipts {
			out = append(out, toSalesReceiptResponse(sr))
		}
		writeJSON(w, http.StatusOK, out)
	case state.KindStatementCharge:
		out := make([]transactionResponse, 0, len(s.StatementCharges))
		for _, sc := range s.StatementCharges {
			out = append(out, toStatementChargeResponse(sc))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.Error(w, "unknown transaction kind", http.StatusNotFound)
	}
}

type transactionRequest struct {
	Kind           state.TxnKind   `json:"kind"`
	TxnID          string          `json:"txn_id"`
	RefNumber      string          `json:"ref_number"`
	CustomerName   string          `json:"customer_name"`
	Amount         decimal.Decimal `json:"amount"`
	Status         state.Status    `json:"status"`
	Memo           string          `json:"memo"`
	EditSequence   string          `json:"edit_sequence"`
	TimeModified   string          `json:"time_modified"`
	DepositAccount string          `json:"deposit_account"`
}

// addTransaction appends a freshly created external record to its
// collection. The creation itself happened in the external system; this
// endpoint only registers the mirror.
func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TxnID == "" {
		http.Error(w, "txn_id is required", http.StatusBadRequest)
		return
	}

	s := h.store.State()

	switch req.Kind {
	case state.KindInvoice:
		if _, exists := s.FindInvoice(req.TxnID); exists {
			http.Error(w, "txn_id already tracked", http.StatusConflict)
			return
		}
		inv := state.InvoiceRecord{
			TxnID:            req.TxnID,
			RefNumber:        req.RefNumber,
			CustomerName:     req.CustomerName,
			Amount:           req.Amount,
			BalanceRemaining: req.Amount,
			Status:           orStatus(req.Status, state.StatusOpen),
			CreatedAt:        time.Now(),
			InitialMemo:      req.Memo,
			EditSequence:     req.EditSequence,
			TimeModified:     req.TimeModified,
			DepositAccount:   req.DepositAccount,
		}
		h.store.Dispatch(state.AddInvoice{Invoice: inv})
		writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))

	case state.KindSalesReceipt:
		if _, exists := s.FindSalesReceipt(req.TxnID); exists {
			http.Error(w, "txn_id already tracked", http.StatusConflict)
			return
		}
		sr := state.SalesReceiptRecord{
			TxnID:            req.TxnID,
			RefNumber:        req.RefNumber,
			CustomerName:     req.CustomerName,
			Amount:           req.Amount,
			BalanceRemaining: req.Amount,
			Status:           orStatus(req.Status, state.StatusOpen),
			CreatedAt:        time.Now(),
			InitialMemo:      req.Memo,
			EditSequence:     req.EditSequence,
			TimeModified:     req.TimeModified,
			DepositAccount:   req.DepositAccount,
		}
		h.store.Dispatch(state.AddSalesReceipt{SalesReceipt: sr})
		writeJSON(w, http.StatusCreated, toSalesReceiptResponse(sr))

	case state.KindStatementCharge:
		if _, exists := s.FindStatementCharge(req.TxnID); exists {
			http.Error(w, "txn_id already tracked", http.StatusConflict)
			return
		}
		sc := state.StatementChargeRecord{
			TxnID:        req.TxnID,
			RefNumber:    req.RefNumber,
			CustomerName: req.CustomerName,
			Amount:       req.Amount,
			Status:       orStatus(req.Status, state.StatusCompleted),
			CreatedAt:    time.Now(),
			EditSequence: req.EditSequence,
			TimeModified: req.TimeModified,
		}
		h.store.Dispatch(state.AddStatementCharge{StatementCharge: sc})
		writeJSON(w, http.StatusCreated, toStatementChargeResponse(sc))

	default:
		http.Error(w, "unknown transaction kind", http.StatusBadRequest)
	}
}

type updateTransactionRequest struct {
	RefNumber        *string           `json:"ref_number,omitempty"`
	CustomerName     *string           `json:"customer_name,omitempty"`
	BalanceRemaining *decimal.Decimal  `json:"balance_remaining,omitempty"`
	Status           *state.Status     `json:"status,omitempty"`
	EditSequence     *string           `json:"edit_sequence,omitempty"`
	TimeModified     *string           `json:"time_modified,omitempty"`
	DepositAccount   *string           `json:"deposit_account,omitempty"`
	PaymentInfo      map[string]string `json:"payment_info,omitempty"`
}

// updateTransaction replaces the tracked record wholesale. Amount is
// immutable after creation and is deliberately not accepted here.
func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	kind := state.TxnKind(chi.URLParam(r, "kind"))
	txnID := chi.URLParam(r, "txnID")

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := h.store.State()

	switch kind {
	case state.KindInvoice:
		inv, ok := s.FindInvoice(txnID)
		if !ok {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		applyUpdate(&req, &inv.RefNumber, &inv.CustomerName, &inv.Status, &inv.EditSequence, &inv.TimeModified)
		if req.BalanceRemaining != nil {
			inv.BalanceRemaining = *req.BalanceRemaining
		}
		if req.DepositAccount != nil {
			inv.DepositAccount = *req.DepositAccount
		}
		if req.PaymentInfo != nil {
			inv.PaymentInfo = req.PaymentInfo
		}
		h.store.Dispatch(state.UpdateInvoice{Invoice: inv})
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))

	case state.KindSalesReceipt:
		sr, ok := s.FindSalesReceipt(txnID)
		if !ok {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		applyUpdate(&req, &sr.RefNumber, &sr.CustomerName, &sr.Status, &sr.EditSequence, &sr.TimeModified)
		if req.BalanceRemaining != nil {
			sr.BalanceRemaining = *req.BalanceRemaining
		}
		if req.DepositAccount != nil {
			sr.DepositAccount = *req.DepositAccount
		}
		if req.PaymentInfo != nil {
			sr.PaymentInfo = req.PaymentInfo
		}
		h.store.Dispatch(state.UpdateSalesReceipt{SalesReceipt: sr})
		writeJSON(w, http.StatusOK, toSalesReceiptResponse(sr))

	case state.KindStatementCharge:
		sc, ok := s.FindStatementCharge(txnID)
		if !ok {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		applyUpdate(&req, &sc.RefNumber, &sc.CustomerName, &sc.Status, &sc.EditSequence, &sc.TimeModified)
		h.store.Dispatch(state.UpdateStatementCharge{StatementCharge: sc})
		writeJSON(w, http.StatusOK, toStatementChargeResponse(sc))

	default:
		http.Error(w, "unknown transaction kind", http.StatusNotFound)
	}
}

type depositAccountRequest struct {
	Account string `json:"account"`
}

func (h *Handler) setDepositAccount(w http.ResponseWriter, r *http.Request) {
	var req depositAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.store.Dispatch(state.SetExpectedDepositAccount{Account: req.Account})
	w.WriteHeader(http.StatusNoContent)
}

func applyUpdate(req *updateTransactionRequest, refNumber, customerName *string, status *state.Status, editSequence, timeModified *string) {
	if req.RefNumber != nil {
		*refNumber = *req.RefNumber
	}
	if req.CustomerName != nil {
		*customerName = *req.CustomerName
	}
	if req.Status != nil {
		*status = *req.Status
	}
	if req.EditSequence != nil {
		*editSequence = *req.EditSequence
	}
	if req.TimeModified != nil {
		*timeModified = *req.TimeModified
	}
}

func orStatus(s, fallback state.Status) state.Status {
	if s == "" {
		return fallback
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
